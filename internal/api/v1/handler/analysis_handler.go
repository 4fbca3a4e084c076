package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/service"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// AnalysisHandler handles the analysis streaming and history endpoints
type AnalysisHandler struct {
	analysisService service.AnalysisService
	planResolver    service.PlanResolver
	quotaGate       service.QuotaGate
	maxUploadBytes  int64
	logger          zerolog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(
	analysisService service.AnalysisService,
	planResolver service.PlanResolver,
	quotaGate service.QuotaGate,
	maxUploadBytes int64,
	logger zerolog.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		planResolver:    planResolver,
		quotaGate:       quotaGate,
		maxUploadBytes:  maxUploadBytes,
		logger:          logger.With().Str("handler", "AnalysisHandler").Logger(),
	}
}

// RegisterRoutes mounts analysis routes
func (h *AnalysisHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/analyses", authMw(http.HandlerFunc(h.handleAnalyses)))
	mux.Handle("/analyses/", authMw(http.HandlerFunc(h.handleAnalysisByID)))
}

func (h *AnalysisHandler) handleAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/analyses" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPost:
		h.streamAnalysis(w, r)
	case http.MethodGet:
		h.listHistory(w, r)
	default:
		http.NotFound(w, r)
	}
}

// sseEvent is the wire shape of one streamed event.
type sseEvent struct {
	Type       string `json:"type"`
	Content    string `json:"content,omitempty"`
	Message    string `json:"message,omitempty"`
	AnalysisID string `json:"analysis_id,omitempty"`
}

// streamAnalysis godoc
// @Summary Analyze documents
// @Description Accepts PDF/DOCX uploads plus instructions and streams the generated analysis as server-sent events.
// @Tags analyses
// @Accept mpfd
// @Produce text/event-stream
// @Param instructions formData string true "Analysis instructions"
// @Param files formData file false "Source documents (PDF or DOCX)"
// @Success 200 {string} string "SSE stream of delta/done events"
// @Failure 400 {string} string "Bad request"
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "No active subscription"
// @Failure 429 {string} string "Daily limit reached"
// @Router /analyses [post]
func (h *AnalysisHandler) streamAnalysis(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}

	// 1. Parse the upload within the configured size cap.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		http.Error(w, "El archivo excede el tamaño permitido.", http.StatusRequestEntityTooLarge)
		return
	}
	instructions := strings.TrimSpace(r.FormValue("instructions"))
	if instructions == "" {
		http.Error(w, "Las instrucciones son obligatorias.", http.StatusBadRequest)
		return
	}
	var fileHeaders []*multipart.FileHeader
	if r.MultipartForm != nil {
		fileHeaders = r.MultipartForm.File["files"]
	}

	// 2. Resolve the plan and run the pre-flight quota check before any
	// bytes of the response are committed.
	plan := h.planResolver.ResolvePlan(r.Context(), claims)
	if err := h.quotaGate.CheckAccess(r.Context(), claims.SubjectID, plan, len(fileHeaders), true); err != nil {
		h.writeQuotaError(w, err)
		return
	}

	// 3. Read and verify every document.
	docs := make([]service.Document, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		file, err := fh.Open()
		if err != nil {
			http.Error(w, "Error leyendo el archivo: "+fh.Filename, http.StatusBadRequest)
			return
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			http.Error(w, "Error leyendo el archivo: "+fh.Filename, http.StatusBadRequest)
			return
		}
		declared := fh.Header.Get("Content-Type")
		if declared != service.MIMETypePDF && declared != service.MIMETypeDOCX {
			http.Error(w, "Tipo no soportado: "+fh.Filename, http.StatusBadRequest)
			return
		}
		// The declared type is client-controlled; the content has to agree.
		if !mimetype.Detect(content).Is(declared) {
			http.Error(w, "Tipo no soportado: "+fh.Filename, http.StatusBadRequest)
			return
		}
		docs = append(docs, service.Document{Filename: fh.Filename, MIMEType: declared, Content: content})
	}

	// 4. Switch to SSE and relay the generation.
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	record, err := h.analysisService.StreamAnalysis(r.Context(), claims, plan, instructions, docs, func(chunk string) error {
		return writeSSE(w, flusher, sseEvent{Type: "delta", Content: chunk})
	})
	if err != nil {
		if r.Context().Err() != nil {
			// Client went away; nothing useful can be written.
			return
		}
		h.logger.Error().Err(err).Str("user_id", claims.SubjectID).Msg("Analysis stream failed")
		writeSSE(w, flusher, sseEvent{Type: "error", Message: upstreamMessage(err)})
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
		return
	}

	writeSSE(w, flusher, sseEvent{Type: "done", AnalysisID: record.ID})
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func writeSSE(w io.Writer, flusher http.Flusher, event sseEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// upstreamMessage maps failures to the user-facing Spanish copy.
func upstreamMessage(err error) string {
	var upstream *service.UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.Kind {
		case service.UpstreamPermission:
			return "Error de permisos en el proveedor de IA. Verifica la configuración de la API."
		case service.UpstreamRateLimit:
			return "Se ha excedido la cuota de uso de la IA. Intenta más tarde."
		}
	}
	var badDoc *service.ErrBadDocument
	if errors.As(err, &badDoc) {
		return "Error leyendo el documento: " + badDoc.Filename
	}
	return "Error procesando el documento."
}

func (h *AnalysisHandler) writeQuotaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAccessDenied):
		http.Error(w, "No tienes una suscripción activa.", http.StatusForbidden)
	case errors.Is(err, service.ErrTooManyDocuments):
		http.Error(w, "Demasiados documentos para tu plan.", http.StatusBadRequest)
	case errors.Is(err, service.ErrDailyLimitExceeded):
		http.Error(w, "Has alcanzado tu límite diario de análisis.", http.StatusTooManyRequests)
	default:
		http.Error(w, "Error de verificación de cuenta.", http.StatusInternalServerError)
	}
}

// listHistory godoc
// @Summary List analysis history
// @Description Returns the authenticated user's analyses, newest first.
// @Tags analyses
// @Produce json
// @Success 200 {array} dto.AnalysisListItemDTO
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "No active subscription"
// @Router /analyses [get]
func (h *AnalysisHandler) listHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: user not found in context", http.StatusUnauthorized)
		return
	}
	plan := h.planResolver.ResolvePlan(r.Context(), claims)
	if err := h.quotaGate.CheckAccess(r.Context(), claims.SubjectID, plan, 0, false); err != nil {
		h.writeQuotaError(w, err)
		return
	}

	analyses, err := h.analysisService.ListHistory(r.Context(), claims.SubjectID)
	if err != nil {
		http.Error(w, "Failed to retrieve history", http.StatusInternalServerError)
		return
	}
	resp := make([]dto.AnalysisListItemDTO, 0, len(analyses))
	for _, a := range analyses {
		resp = append(resp, dto.AnalysisListItemDTO{ID: a.ID, Title: a.Title, Timestamp: a.Timestamp})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *AnalysisHandler) handleAnalysisByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/analyses/")
	if id == "" || strings.Contains(id, "/") {
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
		h.writeQuotaError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getAnalysis(w, r, id, claims.SubjectID)
	case http.MethodDelete:
		h.deleteAnalysis(w, r, id, claims.SubjectID)
	default:
		http.NotFound(w, r)
	}
}

// getAnalysis godoc
// @Summary Get a stored analysis
// @Description Retrieves one analysis by ID; only the owner may read it.
// @Tags analyses
// @Produce json
// @Param analysisId path string true "Analysis ID"
// @Success 200 {object} dto.AnalysisResponseDTO
// @Failure 403 {string} string "Not the owner"
// @Failure 404 {string} string "Analysis not found"
// @Router /analyses/{analysisId} [get]
func (h *AnalysisHandler) getAnalysis(w http.ResponseWriter, r *http.Request, id, userID string) {
	analysis, err := h.analysisService.GetAnalysis(r.Context(), id, userID)
	if err != nil {
		h.writeHistoryError(w, err)
		return
	}
	resp := dto.AnalysisResponseDTO{
		ID:              analysis.ID,
		Title:           analysis.Title,
		Instructions:    analysis.Instructions,
		AnalysisText:    analysis.AnalysisText,
		SourceFilenames: analysis.SourceFilenames,
		Timestamp:       analysis.Timestamp,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// deleteAnalysis godoc
// @Summary Delete a stored analysis
// @Description Deletes one analysis by ID; only the owner may delete it.
// @Tags analyses
// @Param analysisId path string true "Analysis ID"
// @Success 200 {object} map[string]string
// @Failure 403 {string} string "Not the owner"
// @Failure 404 {string} string "Analysis not found"
// @Router /analyses/{analysisId} [delete]
func (h *AnalysisHandler) deleteAnalysis(w http.ResponseWriter, r *http.Request, id, userID string) {
	if err := h.analysisService.DeleteAnalysis(r.Context(), id, userID); err != nil {
		h.writeHistoryError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "message": "Eliminado."})
}

func (h *AnalysisHandler) writeHistoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrAnalysisNotFound):
		http.Error(w, "Análisis no encontrado.", http.StatusNotFound)
	case errors.Is(err, service.ErrNotOwner):
		http.Error(w, "Sin permiso.", http.StatusForbidden)
	default:
		http.Error(w, "Failed to retrieve analysis", http.StatusInternalServerError)
	}
}
