package model

import "time"

// Analysis is a completed analysis persisted to the user's history.
type Analysis struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	Title           string    `db:"title" json:"title"` // derived from the instructions, at most 40 chars
	Instructions    string    `db:"instructions" json:"instructions"`
	AnalysisText    string    `db:"analysis" json:"analysis"`
	Timestamp       time.Time `db:"created_at" json:"timestamp"` // server-assigned
	SourceFilenames []string  `db:"source_filenames" json:"source_filenames"`
}
