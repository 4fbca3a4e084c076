package model

import "time"

// DailyUsage is one user's metered-analysis counter for a single calendar
// day in the fixed UTC-6 bucketing scheme. Created on first increment,
// incremented by exactly one per completed analysis, never decremented.
type DailyUsage struct {
	UserID        string    `db:"user_id" json:"user_id"`
	BucketDate    string    `db:"bucket_date" json:"bucket_date"` // YYYY-MM-DD
	AnalysisCount int       `db:"analysis_count" json:"analysis_count"`
	LastUpdated   time.Time `db:"last_updated" json:"last_updated"`
}
