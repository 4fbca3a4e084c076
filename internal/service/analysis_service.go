package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"app/internal/model"
	"app/internal/pubsub"
	"app/internal/repository"
	"app/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// MIMETypePDF and MIMETypeDOCX are the only accepted upload types.
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrNotOwner is returned when a user addresses a history record that
// belongs to someone else.
var ErrNotOwner = errors.New("analysis_not_owner")

// ErrBadDocument is returned when an uploaded document cannot be read.
type ErrBadDocument struct {
	Filename string
	Err      error
}

func (e *ErrBadDocument) Error() string {
	return fmt.Sprintf("reading document %s: %v", e.Filename, e.Err)
}

func (e *ErrBadDocument) Unwrap() error { return e.Err }

// Document is one uploaded source file, already read into memory and
// MIME-verified by the transport layer.
type Document struct {
	Filename string
	MIMEType string
	Content  []byte
}

// AnalysisService runs the metered analysis flow and owns the history
// records it produces.
type AnalysisService interface {
	// StreamAnalysis sends the documents and instructions to the model and
	// invokes onDelta for every text chunk as it arrives. On full success it
	// persists the record, commits one unit of usage and returns the record.
	// If the context is cancelled or onDelta fails mid-stream, nothing is
	// persisted and no usage is charged.
	StreamAnalysis(ctx context.Context, claims *model.IdentityClaims, plan model.PlanTier, instructions string, docs []Document, onDelta func(string) error) (*model.Analysis, error)
	ListHistory(ctx context.Context, userID string) ([]model.Analysis, error)
	GetAnalysis(ctx context.Context, id, userID string) (*model.Analysis, error)
	DeleteAnalysis(ctx context.Context, id, userID string) error
}

type analysisService struct {
	repo           repository.AnalysisRepository
	gate           QuotaGate
	gemini         GeminiClient
	archive        ArchiveService
	publisher      pubsub.Publisher
	completedTopic string
	pool           *worker.Pool
	logger         zerolog.Logger
}

// NewAnalysisService creates a new AnalysisService. publisher may be nil
// when eventing is not configured.
func NewAnalysisService(
	repo repository.AnalysisRepository,
	gate QuotaGate,
	gemini GeminiClient,
	archive ArchiveService,
	publisher pubsub.Publisher,
	completedTopic string,
	pool *worker.Pool,
	logger zerolog.Logger,
) AnalysisService {
	return &analysisService{
		repo:           repo,
		gate:           gate,
		gemini:         gemini,
		archive:        archive,
		publisher:      publisher,
		completedTopic: completedTopic,
		pool:           pool,
		logger:         logger.With().Str("service", "AnalysisService").Logger(),
	}
}

func (s *analysisService) StreamAnalysis(
	ctx context.Context,
	claims *model.IdentityClaims,
	plan model.PlanTier,
	instructions string,
	docs []Document,
	onDelta func(string) error,
) (*model.Analysis, error) {
	// 1. Build the model request: PDFs go in as raw bytes, DOCX as extracted
	// text, the instructions last.
	parts := make([]Part, 0, len(docs)+1)
	filenames := make([]string, 0, len(docs))
	for _, doc := range docs {
		filenames = append(filenames, doc.Filename)
		switch doc.MIMEType {
		case MIMETypePDF:
			parts = append(parts, Part{MIMEType: doc.MIMEType, Data: doc.Content})
		case MIMETypeDOCX:
			var text string
			err := s.pool.Do(ctx, func() error {
				var extractErr error
				text, extractErr = extractDocxText(doc.Content)
				return extractErr
			})
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				return nil, &ErrBadDocument{Filename: doc.Filename, Err: err}
			}
			parts = append(parts, Part{
				Text: fmt.Sprintf("--- DOCUMENTO: %s ---\n%s\n--- FIN DOCUMENTO ---\n", doc.Filename, text),
			})
		default:
			return nil, &ErrBadDocument{Filename: doc.Filename, Err: fmt.Errorf("unsupported type %s", doc.MIMEType)}
		}
	}
	parts = append(parts, Part{Text: "\nINSTRUCCIONES DEL USUARIO: " + instructions})

	// 2. Stream the generation, relaying each delta to the caller.
	stream, err := s.gemini.StreamGenerate(ctx, parts)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var full strings.Builder
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("reading generation stream: %w", err)
		}
		full.WriteString(chunk)
		if err := onDelta(chunk); err != nil {
			return nil, fmt.Errorf("relaying generation chunk: %w", err)
		}
	}
	if ctx.Err() != nil {
		// The client went away; discard the partial result and charge nothing.
		return nil, ctx.Err()
	}
	if full.Len() == 0 {
		return nil, errors.New("model returned an empty analysis")
	}

	// 3. The stream completed. Persistence and usage commit run on a
	// detached context so a last-moment client disconnect cannot leave a
	// delivered analysis unrecorded.
	saveCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	record := &model.Analysis{
		ID:              uuid.NewString(),
		UserID:          claims.SubjectID,
		Title:           deriveTitle(instructions),
		Instructions:    instructions,
		AnalysisText:    full.String(),
		SourceFilenames: filenames,
	}
	record, err = s.repo.Create(saveCtx, record)
	if err != nil {
		return nil, fmt.Errorf("persisting analysis: %w", err)
	}

	if err := s.gate.CommitUsage(saveCtx, claims.SubjectID); err != nil {
		// The user already has their result and the record exists; an
		// undercounted day is the lesser harm. Already logged by the gate.
		s.logger.Warn().Str("analysis_id", record.ID).Msg("Analysis succeeded but usage was not committed")
	}

	s.publishCompleted(saveCtx, record, plan, len(docs))
	s.archive.ArchiveSources(saveCtx, record.ID, docs)

	return record, nil
}

func (s *analysisService) publishCompleted(ctx context.Context, record *model.Analysis, plan model.PlanTier, docCount int) {
	if s.publisher == nil || s.completedTopic == "" {
		return
	}
	event := pubsub.AnalysisCompletedEvent{
		AnalysisID:    record.ID,
		UserID:        record.UserID,
		Plan:          string(plan),
		DocumentCount: docCount,
		Bucket:        DateBucket(time.Now()),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode completion event")
		return
	}
	if _, err := s.publisher.Publish(ctx, s.completedTopic, payload); err != nil {
		s.logger.Error().Err(err).Str("topic", s.completedTopic).Msg("Failed to publish completion event")
	}
}

func (s *analysisService) ListHistory(ctx context.Context, userID string) ([]model.Analysis, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *analysisService) GetAnalysis(ctx context.Context, id, userID string) (*model.Analysis, error) {
	analysis, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if analysis.UserID != userID {
		return nil, ErrNotOwner
	}
	return analysis, nil
}

func (s *analysisService) DeleteAnalysis(ctx context.Context, id, userID string) error {
	analysis, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if analysis.UserID != userID {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.archive.DeleteSources(ctx, id)
	return nil
}

// deriveTitle shortens the instructions into a list-view title.
func deriveTitle(instructions string) string {
	runes := []rune(instructions)
	if len(runes) > 40 {
		return string(runes[:37]) + "..."
	}
	return instructions
}
