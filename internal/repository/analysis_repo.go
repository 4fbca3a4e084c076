package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ErrAnalysisNotFound is returned when a history record does not exist.
var ErrAnalysisNotFound = errors.New("analysis_not_found")

// AnalysisRepository persists the per-user analysis history.
type AnalysisRepository interface {
	Create(ctx context.Context, a *model.Analysis) (*model.Analysis, error)
	ListByUser(ctx context.Context, userID string) ([]model.Analysis, error)
	GetByID(ctx context.Context, id string) (*model.Analysis, error)
	Delete(ctx context.Context, id string) error
}

type analysisRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAnalysisRepo creates a new AnalysisRepository.
func NewAnalysisRepo(pool *pgxpool.Pool, logger zerolog.Logger) AnalysisRepository {
	return &analysisRepo{pool: pool, logger: logger}
}

// Create stores a completed analysis and returns it with the server-assigned
// timestamp.
func (r *analysisRepo) Create(ctx context.Context, a *model.Analysis) (*model.Analysis, error) {
	const q = `
        INSERT INTO analysis_history (id, user_id, title, instructions, analysis, source_filenames, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING created_at
    `
	err := r.pool.QueryRow(ctx, q,
		a.ID, a.UserID, a.Title, a.Instructions, a.AnalysisText, a.SourceFilenames,
	).Scan(&a.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("creating analysis record for user %s: %w", a.UserID, err)
	}
	return a, nil
}

// ListByUser returns the user's history newest first. Only the fields needed
// for the list view are populated.
func (r *analysisRepo) ListByUser(ctx context.Context, userID string) ([]model.Analysis, error) {
	const q = `
        SELECT id, title, created_at
        FROM analysis_history
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("listing analyses for user %s: %w", userID, err)
	}
	defer rows.Close()

	var analyses []model.Analysis
	for rows.Next() {
		var a model.Analysis
		if err := rows.Scan(&a.ID, &a.Title, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning analysis row: %w", err)
		}
		a.UserID = userID
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analysis rows: %w", err)
	}
	return analyses, nil
}

func (r *analysisRepo) GetByID(ctx context.Context, id string) (*model.Analysis, error) {
	const q = `
        SELECT id, user_id, title, instructions, analysis, source_filenames, created_at
        FROM analysis_history
        WHERE id = $1
    `
	var a model.Analysis
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&a.ID,
		&a.UserID,
		&a.Title,
		&a.Instructions,
		&a.AnalysisText,
		&a.SourceFilenames,
		&a.Timestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("fetching analysis %s: %w", id, err)
	}
	return &a, nil
}

func (r *analysisRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM analysis_history WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("deleting analysis %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}
