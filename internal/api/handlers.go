package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/ramadan-api/internal/calendar"
	"github.com/zapponejosh/ramadan-api/internal/dashboard"
	"github.com/zapponejosh/ramadan-api/internal/database"
	"github.com/zapponejosh/ramadan-api/internal/feed"
	"github.com/zapponejosh/ramadan-api/internal/logger"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db      *database.DB
	session *dashboard.Session
	calc    *calendar.Calculator
	clock   dashboard.Clock
	feed    feed.Options
	logger  *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, session *dashboard.Session, clock dashboard.Clock, log *slog.Logger) *Handlers {
	return &Handlers{
		db:      db,
		session: session,
		calc:    session.Calculator(),
		clock:   clock,
		feed:    feed.DefaultOptions(),
		logger:  log,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	now := h.clock.Now()
	WriteSuccess(w, map[string]string{
		"status": "healthy",
		"today":  h.calc.Today(now).String(),
		"phase":  string(h.calc.Phase(now)),
	})
}

// GetToday handles GET /api/v1/today
//
// Without query parameters it serves the ticker's latest snapshot. ?at and
// ?select build a one-off snapshot for that instant and selection.
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	atStr := r.URL.Query().Get("at")
	selectStr := r.URL.Query().Get("select")

	if atStr == "" && selectStr == "" {
		snap, ok := h.session.Current()
		if !ok {
			snap = h.session.Refresh(h.clock.Now())
		}
		WriteSuccess(w, snap)
		return
	}

	now := h.clock.Now()
	if atStr != "" {
		at, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid at: %s. Use RFC 3339", atStr))
			return
		}
		now = at
	}

	var selected *calendar.Date
	if selectStr != "" {
		date, err := calendar.ParseDate(selectStr)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid select: %s. Use YYYY-MM-DD", selectStr))
			return
		}
		selected = &date
	}

	snap, err := dashboard.Build(h.calc, now, selected)
	if err != nil {
		if errors.Is(err, dashboard.ErrUnknownDay) {
			WriteNotFound(w, fmt.Sprintf("%s is not a Ramadan day", selectStr))
			return
		}
		logger.Error(r.Context(), "failed to build dashboard", err)
		WriteInternalError(w, "Failed to build dashboard")
		return
	}

	WriteSuccess(w, snap)
}

// ListDays handles GET /api/v1/days
func (h *Handlers) ListDays(w http.ResponseWriter, r *http.Request) {
	today := h.calc.Today(h.clock.Now())
	WriteSuccess(w, dashboard.Grid(h.calc.Period(), today, nil))
}

// dayResponse is a day's detail plus its note, if one was written.
type dayResponse struct {
	dashboard.Detail
	Note *database.DayNote `json:"note,omitempty"`
}

// GetDay handles GET /api/v1/days/{date}
func (h *Handlers) GetDay(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDateParam(w, r)
	if !ok {
		return
	}

	today := h.calc.Today(h.clock.Now())
	detail, err := dashboard.DetailFor(h.calc.Period(), today, date)
	if err != nil {
		WriteNotFound(w, fmt.Sprintf("%s is not a Ramadan day", date))
		return
	}
	if !detail.Unlocked {
		WriteDayLocked(w, detail.Text)
		return
	}

	resp := dayResponse{Detail: detail}
	note, err := h.db.GetNote(r.Context(), date.String())
	switch {
	case err == nil:
		resp.Note = note
	case !database.IsNotFound(err):
		logger.Error(r.Context(), "failed to load note", err, slog.String("date", date.String()))
		WriteInternalError(w, "Failed to load note")
		return
	}

	WriteSuccess(w, resp)
}

// GetEvents handles GET /api/v1/events/{ordinal}
func (h *Handlers) GetEvents(w http.ResponseWriter, r *http.Request) {
	ordinalStr := chi.URLParam(r, "ordinal")
	ordinal, err := strconv.Atoi(ordinalStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid day number: %s", ordinalStr))
		return
	}

	day, ok := h.calc.Period().DayNumber(ordinal)
	if !ok {
		WriteNotFound(w, fmt.Sprintf("Day %d is outside the period", ordinal))
		return
	}
	if !calendar.IsDayUnlocked(h.calc.Today(h.clock.Now()), day.Date) {
		WriteDayLocked(w, dashboard.LockedText)
		return
	}

	WriteSuccess(w, calendar.SpecialEventsForOrdinalDay(ordinal))
}

// GetCalendar handles GET /api/v1/calendar.ics
func (h *Handlers) GetCalendar(w http.ResponseWriter, r *http.Request) {
	body := feed.Render(h.calc, h.clock.Now(), h.feed)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="ramadan.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		logger.Warn(r.Context(), "failed to write calendar", slog.Any("error", err))
	}
}

// ListNotes handles GET /api/v1/notes
func (h *Handlers) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.db.ListNotes(r.Context())
	if err != nil {
		logger.Error(r.Context(), "failed to list notes", err)
		WriteInternalError(w, "Failed to list notes")
		return
	}
	WriteSuccess(w, notes)
}

// maxNoteBodyBytes admits a note of MaxNoteLength characters written
// entirely as JSON surrogate-pair escapes (12 bytes each), plus framing.
const maxNoteBodyBytes = 12*database.MaxNoteLength + 1024

// NoteRequest is the body of PUT /api/v1/days/{date}/note.
type NoteRequest struct {
	Note string `json:"note"`
}

// PutNote handles PUT /api/v1/days/{date}/note
func (h *Handlers) PutNote(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDateParam(w, r)
	if !ok {
		return
	}

	var req NoteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxNoteBodyBytes)).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}
	text, err := database.ValidateNote(req.Note)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	day, ok := h.openDay(w, date)
	if !ok {
		return
	}

	note, err := h.db.UpsertNote(r.Context(), date.String(), day.Number, text)
	if err != nil {
		logger.Error(r.Context(), "failed to save note", err, slog.String("date", date.String()))
		WriteInternalError(w, "Failed to save note")
		return
	}

	logger.Info(r.Context(), "note saved", slog.String("date", date.String()), slog.Int("day", day.Number))
	WriteSuccess(w, note)
}

// DeleteNote handles DELETE /api/v1/days/{date}/note
func (h *Handlers) DeleteNote(w http.ResponseWriter, r *http.Request) {
	date, ok := h.parseDateParam(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteNote(r.Context(), date.String()); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, fmt.Sprintf("No note for %s", date))
			return
		}
		logger.Error(r.Context(), "failed to delete note", err, slog.String("date", date.String()))
		WriteInternalError(w, "Failed to delete note")
		return
	}

	WriteSuccess(w, map[string]string{"deleted": date.String()})
}

func (h *Handlers) parseDateParam(w http.ResponseWriter, r *http.Request) (calendar.Date, bool) {
	dateStr := chi.URLParam(r, "date")
	date, err := calendar.ParseDate(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return calendar.Date{}, false
	}
	return date, true
}

// openDay resolves date to an unlocked period day, writing the error
// response itself when it is not one.
func (h *Handlers) openDay(w http.ResponseWriter, date calendar.Date) (calendar.PeriodDay, bool) {
	day, err := h.calc.OpenDay(h.clock.Now(), date)
	switch {
	case err == nil:
		return day, true
	case errors.Is(err, calendar.ErrDayLocked):
		WriteDayLocked(w, dashboard.LockedText)
	default:
		WriteNotFound(w, fmt.Sprintf("%s is not a Ramadan day", date))
	}
	return calendar.PeriodDay{}, false
}
