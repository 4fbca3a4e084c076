package service

import (
	"context"
	"errors"
	"strings"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// PlanResolver maps an authenticated identity to a plan tier by combining
// the admin allow-lists with the stored subscription state.
type PlanResolver interface {
	ResolvePlan(ctx context.Context, claims *model.IdentityClaims) model.PlanTier
}

type planResolver struct {
	allowedDomains map[string]struct{}
	allowedEmails  map[string]struct{}
	subscriptions  repository.SubscriptionRepository
	logger         zerolog.Logger
}

// NewPlanResolver creates a PlanResolver. The allow-list sets are normalized
// (trimmed, lowercased) once by the configuration layer; they are not
// re-parsed per call.
func NewPlanResolver(
	allowedDomains, allowedEmails map[string]struct{},
	subscriptions repository.SubscriptionRepository,
	logger zerolog.Logger,
) PlanResolver {
	return &planResolver{
		allowedDomains: allowedDomains,
		allowedEmails:  allowedEmails,
		subscriptions:  subscriptions,
		logger:         logger.With().Str("service", "PlanResolver").Logger(),
	}
}

// ResolvePlan has no side effects. Allow-list membership wins over any
// subscription state; a missing, inactive or unreadable subscription
// resolves to none. The store being unreachable also resolves to none:
// failing open would grant unmetered access.
func (r *planResolver) ResolvePlan(ctx context.Context, claims *model.IdentityClaims) model.PlanTier {
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	domain := ""
	if i := strings.LastIndex(email, "@"); i >= 0 {
		domain = email[i+1:]
	}

	if domain != "" {
		if _, ok := r.allowedDomains[domain]; ok {
			return model.PlanVIP
		}
	}
	if _, ok := r.allowedEmails[email]; ok {
		return model.PlanVIP
	}

	sub, err := r.subscriptions.GetSubscription(ctx, claims.SubjectID)
	if err != nil {
		if !errors.Is(err, repository.ErrSubscriptionNotFound) {
			r.logger.Error().Err(err).Str("user_id", claims.SubjectID).Msg("Failed to fetch subscription, denying access")
		}
		return model.PlanNone
	}
	if !sub.IsEntitled() {
		return model.PlanNone
	}
	return model.ParsePlanTier(sub.Plan)
}
