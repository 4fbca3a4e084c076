package service

import (
	"context"
	"fmt"
	"time"

	"app/internal/export"
	"app/internal/worker"

	"github.com/rs/zerolog"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ExportService renders analysis text into downloadable documents.
type ExportService interface {
	Render(ctx context.Context, format, analysisText, instructions string) (*ExportFile, error)
}

type exportService struct {
	pool   *worker.Pool
	logger zerolog.Logger
	now    func() time.Time
}

// NewExportService creates a new ExportService. Rendering runs on the shared
// worker pool because large analyses are CPU-heavy to lay out.
func NewExportService(pool *worker.Pool, logger zerolog.Logger) ExportService {
	return &exportService{
		pool:   pool,
		logger: logger.With().Str("service", "ExportService").Logger(),
		now:    time.Now,
	}
}

// Render produces the requested format. If the full renderer fails, a
// minimal fallback document is returned instead so the download still
// succeeds; only a double failure surfaces as an error.
func (s *exportService) Render(ctx context.Context, format, analysisText, instructions string) (*ExportFile, error) {
	now := s.now()

	var file *ExportFile
	err := s.pool.Do(ctx, func() error {
		switch format {
		case "pdf":
			data, err := export.RenderPDF(analysisText, instructions, now)
			if err != nil {
				s.logger.Error().Err(err).Msg("PDF rendering failed, serving fallback document")
				data, err = export.RenderErrorPDF(now)
				if err != nil {
					return err
				}
			}
			file = &ExportFile{
				Data:        data,
				Filename:    export.DeriveFilename(instructions, "pdf", now),
				ContentType: "application/pdf",
			}
		case "docx":
			data, err := export.RenderDOCX(analysisText, instructions, now)
			if err != nil {
				s.logger.Error().Err(err).Msg("DOCX rendering failed, serving fallback document")
				data, err = export.RenderErrorDOCX(now)
				if err != nil {
					return err
				}
			}
			file = &ExportFile{
				Data:        data,
				Filename:    export.DeriveFilename(instructions, "docx", now),
				ContentType: MIMETypeDOCX,
			}
		default:
			return fmt.Errorf("unsupported export format %q", format)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return file, nil
}
