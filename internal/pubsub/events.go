package pubsub

// AnalysisCompletedEvent is published after a metered analysis has fully
// succeeded and its usage has been committed. Downstream consumers use it
// for billing reconciliation and product analytics.
type AnalysisCompletedEvent struct {
	AnalysisID    string `json:"analysis_id"`
	UserID        string `json:"user_id"`
	Plan          string `json:"plan"`
	DocumentCount int    `json:"document_count"`
	Bucket        string `json:"bucket"`
}
