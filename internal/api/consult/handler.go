package consult

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medlane/prediag-backend/internal/entity"
	"github.com/medlane/prediag-backend/internal/observability"
	"github.com/medlane/prediag-backend/internal/pkg/formatter"
	"github.com/medlane/prediag-backend/internal/pkg/logger"
	"github.com/medlane/prediag-backend/internal/pkg/response"
	"github.com/medlane/prediag-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

// Handler serves the consultation endpoints: symptom submission, session
// lookup, the follow-up WebSocket and report download.
type Handler struct {
	usecase   ConsultUsecase
	validator *validator.Validator
	formats   *formatter.Factory
	metrics   *observability.Metrics
	upgrader  websocket.Upgrader
}

func NewHandler(
	usecase ConsultUsecase,
	validator *validator.Validator,
	formats *formatter.Factory,
	metrics *observability.Metrics,
) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
		formats:   formats,
		metrics:   metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The HTTP surface is already open to any origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterHTTPRoutes registers the plain HTTP consultation routes.
func (h *Handler) RegisterHTTPRoutes(r chi.Router) {
	r.Post("/symptom", h.SubmitSymptoms)
	r.Get("/session/{id}", h.GetSession)
	r.Get("/generate_report/{id}", h.GenerateReport)
}

// RegisterFollowupRoute registers the duplex follow-up route. It is kept
// outside the timeout-wrapped group.
func (h *Handler) RegisterFollowupRoute(r chi.Router) {
	r.Get("/followup/{id}", h.Followup)
}

// SubmitSymptoms handles POST /symptom - create a consultation session
func (h *Handler) SubmitSymptoms(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SubmitSymptoms")

	var req entity.SubmitSymptomsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.ValidateSubmitSymptoms(&req); err != nil {
		ctxzap.Error(ctx, "failed to validate request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.usecase.CreateConsultation(ctx, &req)
	if err != nil {
		ctxzap.Error(ctx, "failed to create consultation", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, fmt.Sprintf("Internal Server Error: %v", err))
		return
	}

	h.metrics.ConsultEvents.WithLabelValues("created").Inc()

	response.Success(w, entity.SubmitSymptomsResponse{
		Message:   "Symptoms received",
		Status:    entity.StatusSymptomSubmitted,
		SessionID: c.ID,
	})
}

// GetSession handles GET /session/{id} - full session record
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", chi.URLParam(r, "id")),
		zap.String("action", "GetSession"),
	)

	c, err := h.usecase.GetConsultation(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.respondUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, c)
}

// GenerateReport handles GET /generate_report/{id}?format=pdf|md|docx
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "GenerateReport"),
	)

	format, err := h.validator.ValidateReportFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.usecase.BuildReport(ctx, sessionID)
	if err != nil {
		h.respondUsecaseError(ctx, w, err)
		return
	}

	f, err := h.formats.Create(format)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	rendered, err := f.Format(report)
	if err != nil {
		ctxzap.Error(ctx, "failed to render report", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	h.metrics.ConsultEvents.WithLabelValues("report_generated").Inc()

	// Reports are streamed from memory; nothing is written to a shared
	// path, so concurrent report requests cannot race.
	response.Attachment(w, f.ContentType(), "medical_report"+f.FileExtension(), rendered)
}

func (h *Handler) respondUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		response.Error(w, http.StatusNotFound, "Session not found")
	default:
		ctxzap.Error(ctx, "internal error", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, err.Error())
	}
}
