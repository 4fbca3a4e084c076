package dto

import "time"

// AnalysisListItemDTO is one row of the history list view.
type AnalysisListItemDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalysisResponseDTO is the full stored analysis.
type AnalysisResponseDTO struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Instructions    string    `json:"instructions"`
	AnalysisText    string    `json:"analysis_text"`
	SourceFilenames []string  `json:"source_filenames"`
	Timestamp       time.Time `json:"timestamp"`
}
