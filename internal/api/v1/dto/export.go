package dto

// ExportRequestDTO asks for a downloadable document built from analysis
// text. Format defaults to docx when omitted.
type ExportRequestDTO struct {
	AnalysisText string `json:"analysis_text" validate:"required"`
	Instructions string `json:"instructions"`
	Format       string `json:"format" validate:"omitempty,oneof=docx pdf"`
}
