package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/medlane/prediag-backend/internal/api/consult"
	"github.com/medlane/prediag-backend/internal/api/docs"
	"github.com/medlane/prediag-backend/internal/api/middleware"
	"github.com/medlane/prediag-backend/internal/observability"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(consultHandler *consult.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.CORS)           // Handle CORS

	// The default timeout stays off the websocket route; a consultation
	// legitimately runs much longer than any single request.
	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"healthy"}`))
		})

		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			observability.MetricsHandler().ServeHTTP(w, r)
		})

		docs.RegisterRoutes(r)

		consultHandler.RegisterHTTPRoutes(r)
	})

	consultHandler.RegisterFollowupRoute(r)

	return r
}
