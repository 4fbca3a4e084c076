package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ExportHandler handles document download endpoints
type ExportHandler struct {
	exportService service.ExportService
	planResolver  service.PlanResolver
	quotaGate     service.QuotaGate
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(
	exportService service.ExportService,
	planResolver service.PlanResolver,
	quotaGate service.QuotaGate,
	validate *validator.Validate,
	logger zerolog.Logger,
) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		planResolver:  planResolver,
		quotaGate:     quotaGate,
		validate:      validate,
		logger:        logger.With().Str("handler", "ExportHandler").Logger(),
	}
}

// RegisterRoutes mounts export routes
func (h *ExportHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/exports", authMw(http.HandlerFunc(h.createExport)))
}

// createExport godoc
// @Summary Export an analysis as a document
// @Description Renders analysis text into a DOCX or PDF download. Exporting is free; it does not count against the daily analysis limit.
// @Tags exports
// @Accept json
// @Produce application/octet-stream
// @Param export body dto.ExportRequestDTO true "Export request"
// @Success 200 {file} file "The rendered document"
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "No active subscription"
// @Router /exports [post]
func (h *ExportHandler) createExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/exports" {
		http.NotFound(w, r)
		return
	}
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	plan := h.planResolver.ResolvePlan(r.Context(), claims)
	if err := h.quotaGate.CheckAccess(r.Context(), claims.SubjectID, plan, 0, false); err != nil {
		switch {
		case errors.Is(err, service.ErrAccessDenied):
			http.Error(w, "No tienes una suscripción activa.", http.StatusForbidden)
		default:
			http.Error(w, "Error de verificación de cuenta.", http.StatusInternalServerError)
		}
		return
	}

	var req dto.ExportRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Format == "" {
		req.Format = "docx"
	}

	file, err := h.exportService.Render(r.Context(), req.Format, req.AnalysisText, req.Instructions)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", claims.SubjectID).Msg("Export rendering failed")
		http.Error(w, "Error generando archivo.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+file.Filename)
	w.Write(file.Data)
}
