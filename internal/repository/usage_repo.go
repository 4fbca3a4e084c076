package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UsageRepository tracks per-user daily analysis counters.
type UsageRepository interface {
	// GetDailyCount returns the analysis count for the given bucket, zero if
	// no counter exists yet.
	GetDailyCount(ctx context.Context, userID, bucket string) (int, error)
	// IncrementDaily atomically adds one to the counter for the given bucket,
	// creating it if absent, and stamps the server time. Safe to call from
	// concurrent in-flight requests for the same user.
	IncrementDaily(ctx context.Context, userID, bucket string) error
}

type usageRepo struct {
	pool *pgxpool.Pool
}

// NewUsageRepo creates a new UsageRepository.
func NewUsageRepo(pool *pgxpool.Pool) UsageRepository {
	return &usageRepo{pool: pool}
}

func (r *usageRepo) GetDailyCount(ctx context.Context, userID, bucket string) (int, error) {
	const q = `
        SELECT analysis_count
        FROM usage_daily
        WHERE user_id = $1 AND bucket_date = $2
    `
	var count int
	if err := r.pool.QueryRow(ctx, q, userID, bucket).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("counting daily usage for user %s: %w", userID, err)
	}
	return count, nil
}

func (r *usageRepo) IncrementDaily(ctx context.Context, userID, bucket string) error {
	// Single-statement upsert so the increment stays atomic at the store,
	// never a read-modify-write at the application layer.
	const q = `
        INSERT INTO usage_daily (user_id, bucket_date, analysis_count, last_updated)
        VALUES ($1, $2, 1, NOW())
        ON CONFLICT (user_id, bucket_date) DO UPDATE
        SET analysis_count = usage_daily.analysis_count + 1,
            last_updated = NOW()
    `
	if _, err := r.pool.Exec(ctx, q, userID, bucket); err != nil {
		return fmt.Errorf("recording usage for user %s: %w", userID, err)
	}
	return nil
}
