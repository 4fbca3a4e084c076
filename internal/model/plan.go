package model

import (
	"strings"
	"time"
)

// PlanTier is the entitlement level a user resolves to for a single request.
// It is always recomputed from the allow-lists and the subscription record,
// never stored on its own.
type PlanTier string

const (
	PlanNone     PlanTier = "none"
	PlanBasico   PlanTier = "basico"
	PlanAvanzado PlanTier = "avanzado"
	PlanPremium  PlanTier = "premium"
	PlanVIP      PlanTier = "vip"
)

// Unlimited disables a ceiling when used as a limit value.
const Unlimited = -1

// ParsePlanTier normalizes a stored plan name to a known tier.
// Unknown or empty names default to basico, matching the billing
// integration's behavior for active subscriptions without an explicit plan.
func ParsePlanTier(s string) PlanTier {
	switch PlanTier(strings.ToLower(strings.TrimSpace(s))) {
	case PlanBasico:
		return PlanBasico
	case PlanAvanzado:
		return PlanAvanzado
	case PlanPremium:
		return PlanPremium
	case PlanVIP:
		return PlanVIP
	default:
		return PlanBasico
	}
}

// PlanLimits holds the per-tier ceilings. Unlimited (-1) disables a check.
type PlanLimits struct {
	DailyAnalyses          int
	MaxDocumentsPerRequest int
}

// LimitsTable maps each tier to its limits. Built once at startup.
type LimitsTable map[PlanTier]PlanLimits

// For returns the limits for a tier. Tiers missing from the table deny
// everything, so a misconfigured table fails closed.
func (t LimitsTable) For(tier PlanTier) PlanLimits {
	if l, ok := t[tier]; ok {
		return l
	}
	return PlanLimits{DailyAnalyses: 0, MaxDocumentsPerRequest: 0}
}

// Subscription is the billing provider's record for a user. It is owned and
// mutated by the billing integration; this system only reads it.
type Subscription struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Status    string    `db:"status" json:"status"`
	Plan      string    `db:"plan" json:"plan"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsEntitled reports whether the subscription grants access at all.
func (s *Subscription) IsEntitled() bool {
	switch strings.ToLower(s.Status) {
	case "active", "trialing":
		return true
	default:
		return false
	}
}
