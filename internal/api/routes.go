package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/zapponejosh/ramadan-api/internal/auth"
	"github.com/zapponejosh/ramadan-api/internal/config"
)

// NewRouter configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health                       database ping
//	GET    /api/v1/today                 dashboard snapshot (?at=RFC3339, ?select=YYYY-MM-DD)
//	GET    /api/v1/days                  day grid
//	GET    /api/v1/days/{date}           day detail, 403 while locked
//	GET    /api/v1/events/{ordinal}      annotations for a period day
//	GET    /api/v1/calendar.ics          iCalendar feed
//	GET    /api/v1/notes                 all notes
//	PUT    /api/v1/days/{date}/note      write a note (API key)
//	DELETE /api/v1/days/{date}/note      remove a note (API key)
func NewRouter(h *Handlers, cfg *config.Config, verifier *auth.Verifier, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RequestIDMiddleware(),
		RecoveryMiddleware(logger),
		middleware.RealIP,
		LoggingMiddleware(logger),
		middleware.Timeout(15*time.Second),
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         3600,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/today", h.GetToday)
		r.Get("/days", h.ListDays)
		r.Get("/days/{date}", h.GetDay)
		r.Get("/events/{ordinal}", h.GetEvents)
		r.Get("/calendar.ics", h.GetCalendar)
		r.Get("/notes", h.ListNotes)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, verifier, logger))
			r.Put("/days/{date}/note", h.PutNote)
			r.Delete("/days/{date}/note", h.DeleteNote)
		})
	})

	return r
}
