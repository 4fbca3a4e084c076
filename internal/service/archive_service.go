package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// ArchiveService keeps copies of the source documents of completed analyses
// in object storage. Archival is best effort: it runs after the user already
// has their result and must never fail an analysis.
type ArchiveService interface {
	ArchiveSources(ctx context.Context, analysisID string, docs []Document)
	DeleteSources(ctx context.Context, analysisID string)
}

type archiveService struct {
	s3Client   *s3.Client
	bucketName string
	logger     zerolog.Logger
}

// NewArchiveService creates a new ArchiveService. A nil client yields a
// no-op service for deployments without object storage.
func NewArchiveService(s3Client *s3.Client, bucketName string, logger zerolog.Logger) ArchiveService {
	return &archiveService{
		s3Client:   s3Client,
		bucketName: bucketName,
		logger:     logger.With().Str("service", "ArchiveService").Logger(),
	}
}

func (s *archiveService) ArchiveSources(ctx context.Context, analysisID string, docs []Document) {
	if s.s3Client == nil {
		return
	}
	for _, doc := range docs {
		key := fmt.Sprintf("sources/%s/%s", analysisID, doc.Filename)
		_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucketName),
			Key:         aws.String(key),
			Body:        bytes.NewReader(doc.Content),
			ContentType: aws.String(doc.MIMEType),
		})
		if err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("Failed to archive source document")
		}
	}
}

// DeleteSources removes every archived object for the analysis. Called when
// the user deletes the history record.
func (s *archiveService) DeleteSources(ctx context.Context, analysisID string) {
	if s.s3Client == nil {
		return
	}
	prefix := fmt.Sprintf("sources/%s/", analysisID)
	paginator := s3.NewListObjectsV2Paginator(s.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	})
	var toDelete []types.ObjectIdentifier
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			s.logger.Error().Err(err).Str("prefix", prefix).Msg("Failed to list archived objects for deletion")
			return
		}
		for _, obj := range page.Contents {
			toDelete = append(toDelete, types.ObjectIdentifier{Key: obj.Key})
		}
	}
	if len(toDelete) == 0 {
		return
	}
	_, err := s.s3Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucketName),
		Delete: &types.Delete{Objects: toDelete},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("prefix", prefix).Msg("Failed to delete archived objects")
	}
}
