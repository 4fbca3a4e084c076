package service

import (
	"context"
	"fmt"
	"time"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

var (
	// ErrAccessDenied is returned when the resolved plan grants no access.
	ErrAccessDenied = fmt.Errorf("access_denied")
	// ErrTooManyDocuments is returned when a request carries more documents
	// than the plan's per-request ceiling allows.
	ErrTooManyDocuments = fmt.Errorf("document_count_exceeded")
	// ErrDailyLimitExceeded is returned when today's counter has reached the
	// plan's daily analysis limit.
	ErrDailyLimitExceeded = fmt.Errorf("daily_limit_exceeded")
)

// QuotaGate enforces the per-request and per-day usage ceilings.
//
// CheckAccess runs before the metered action starts; CommitUsage runs only
// after it has fully succeeded, so failed or cancelled attempts are never
// charged. Check and commit are not one transaction: two concurrent requests
// from the same user can both pass the pre-check before either commits. That
// slack is bounded by the in-flight request count and is an accepted
// tradeoff, not something to paper over with locks.
type QuotaGate interface {
	CheckAccess(ctx context.Context, userID string, plan model.PlanTier, documentCount int, metered bool) error
	CommitUsage(ctx context.Context, userID string) error
}

type quotaGate struct {
	usage  repository.UsageRepository
	limits model.LimitsTable
	logger zerolog.Logger
	now    func() time.Time
}

// NewQuotaGate creates a QuotaGate over the given usage store and static
// limits table.
func NewQuotaGate(usage repository.UsageRepository, limits model.LimitsTable, logger zerolog.Logger) QuotaGate {
	return &quotaGate{
		usage:  usage,
		limits: limits,
		logger: logger.With().Str("service", "QuotaGate").Logger(),
		now:    time.Now,
	}
}

func (g *quotaGate) CheckAccess(ctx context.Context, userID string, plan model.PlanTier, documentCount int, metered bool) error {
	if plan == model.PlanNone {
		return ErrAccessDenied
	}

	limits := g.limits.For(plan)

	// The document ceiling applies to metered and unmetered actions alike.
	if limits.MaxDocumentsPerRequest != model.Unlimited && documentCount > limits.MaxDocumentsPerRequest {
		return ErrTooManyDocuments
	}

	if !metered || limits.DailyAnalyses == model.Unlimited {
		return nil
	}

	bucket := DateBucket(g.now())
	count, err := g.usage.GetDailyCount(ctx, userID, bucket)
	if err != nil {
		g.logger.Error().Err(err).Str("user_id", userID).Str("bucket", bucket).Msg("Failed to read daily usage")
		return fmt.Errorf("checking daily usage: %w", err)
	}
	if count >= limits.DailyAnalyses {
		return ErrDailyLimitExceeded
	}
	return nil
}

func (g *quotaGate) CommitUsage(ctx context.Context, userID string) error {
	bucket := DateBucket(g.now())
	if err := g.usage.IncrementDaily(ctx, userID, bucket); err != nil {
		g.logger.Error().Err(err).Str("user_id", userID).Str("bucket", bucket).Msg("Failed to commit usage")
		return err
	}
	return nil
}
