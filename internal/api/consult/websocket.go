package consult

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/medlane/prediag-backend/internal/entity"
	"github.com/medlane/prediag-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

// Followup handles GET /followup/{id} - the duplex consultation channel.
//
// Protocol: on open the server sends the first question (or an error and
// closes). The client then sends plain-text replies, each either an option
// letter or free text; the server answers with the next question frame, a
// ready notice followed by close, or an inline error (after which the
// client may retry the turn). Turns are strictly sequential: the next
// generator call starts only after the previous reply has been ingested.
func (h *Handler) Followup(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", "Followup"),
	)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ctxzap.Error(ctx, "websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.metrics.ActiveFollowups.Inc()
	defer h.metrics.ActiveFollowups.Dec()

	if _, err := h.usecase.GetConsultation(ctx, sessionID); err != nil {
		h.sendError(ctx, conn, "Invalid session_id")
		return
	}

	question, err := h.usecase.FirstQuestion(ctx, sessionID)
	if err != nil {
		ctxzap.Error(ctx, "failed to generate initial question", zap.Error(err))
		h.sendError(ctx, conn, "Unable to generate initial question.")
		return
	}

	if err := conn.WriteJSON(toQuestionMessage(question)); err != nil {
		return
	}
	h.metrics.QuestionsAsked.Inc()

	h.answerLoop(ctx, conn, sessionID)
}

// answerLoop ingests client replies until the session transitions to
// ready-for-diagnosis or the client disconnects.
func (h *Handler) answerLoop(ctx context.Context, conn *websocket.Conn, sessionID string) {
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			// Disconnection ends the loop; the session record stays in
			// the store untouched.
			ctxzap.Info(ctx, "client disconnected", zap.Error(err))
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		outcome, err := h.usecase.SubmitAnswer(ctx, sessionID, string(data))
		if err != nil {
			// Inline error: the turn failed but the conversation goes on,
			// the client may send another message.
			ctxzap.Warn(ctx, "turn failed", zap.Error(err))
			h.sendError(ctx, conn, turnErrorText(err))
			continue
		}

		if outcome.Ready {
			h.metrics.ConsultEvents.WithLabelValues("ready").Inc()
			conn.WriteJSON(readyNotice(outcome.Forced))
			return
		}

		if err := conn.WriteJSON(toQuestionMessage(outcome.Question)); err != nil {
			return
		}
		h.metrics.QuestionsAsked.Inc()
	}
}

func (h *Handler) sendError(ctx context.Context, conn *websocket.Conn, text string) {
	if err := conn.WriteJSON(entity.ErrorMessage{Error: text}); err != nil {
		ctxzap.Debug(ctx, "failed to write error frame", zap.Error(err))
	}
}

func turnErrorText(err error) string {
	switch {
	case errors.Is(err, entity.ErrGeneratorUnavailable):
		return "Generation is unavailable, please try again later."
	case errors.Is(err, entity.ErrMalformedResponse):
		return "Unexpected response format"
	case errors.Is(err, entity.ErrSessionReady):
		return "Session is already ready for diagnosis."
	default:
		return "Unable to generate the next question, please resend your answer."
	}
}
