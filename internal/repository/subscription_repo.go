package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSubscriptionNotFound is returned when a user has no subscription record.
var ErrSubscriptionNotFound = errors.New("subscription_not_found")

// SubscriptionRepository reads the billing provider's subscription records.
// The records are owned by the billing integration; this system never writes
// them.
type SubscriptionRepository interface {
	GetSubscription(ctx context.Context, userID string) (*model.Subscription, error)
}

type subscriptionRepo struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepo creates a new SubscriptionRepository.
func NewSubscriptionRepo(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepo{pool: pool}
}

// GetSubscription returns the user's subscription record regardless of status.
func (r *subscriptionRepo) GetSubscription(ctx context.Context, userID string) (*model.Subscription, error) {
	const q = `
        SELECT user_id, status, plan, created_at, updated_at
        FROM customer_subscriptions
        WHERE user_id = $1
    `
	var sub model.Subscription
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&sub.UserID,
		&sub.Status,
		&sub.Plan,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("fetch subscription for user %s: %w", userID, err)
	}
	return &sub, nil
}
