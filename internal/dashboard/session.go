package dashboard

import (
	"log/slog"
	"sync"
	"time"

	"github.com/zapponejosh/ramadan-api/internal/calendar"
)

// Session holds the latest dashboard and the current selection. A ticker
// goroutine calls Refresh; any number of readers call Current.
type Session struct {
	calc   *calendar.Calculator
	logger *slog.Logger

	mu       sync.RWMutex
	current  Dashboard
	selected *calendar.Date
	built    bool
}

// NewSession returns a session with no snapshot yet.
func NewSession(calc *calendar.Calculator, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{calc: calc, logger: logger}
}

// Calculator returns the calculator the session renders with.
func (s *Session) Calculator() *calendar.Calculator { return s.calc }

// Refresh rebuilds the snapshot for now and logs day and sunset transitions.
func (s *Session) Refresh(now time.Time) Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Build(s.calc, now, s.selected)
	if err != nil {
		// Select checks against the same period; drop it and carry on.
		s.logger.Warn("dropping invalid selection", slog.Any("error", err))
		s.selected = nil
		next, _ = Build(s.calc, now, nil)
	}

	if s.built {
		prev := s.current.Progress
		if !prev.Today.Equal(next.Progress.Today) {
			s.logger.Info("new day",
				slog.String("date", next.Progress.Today.String()),
				slog.String("phase", string(next.Progress.Phase)),
				slog.Int("ordinal_day", next.Progress.OrdinalDay),
			)
		}
		if next.Progress.CompletedDays > prev.CompletedDays {
			s.logger.Info("fast completed",
				slog.Int("completed_days", next.Progress.CompletedDays),
				slog.Int("remaining_days", next.Progress.RemainingDays),
			)
		}
	}

	s.current = next
	s.built = true
	return next
}

// Current returns the latest snapshot. ok is false before the first Refresh.
func (s *Session) Current() (d Dashboard, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.built
}

// Select marks date as the selected day. Locked days may be selected; their
// detail shows only the locked message.
func (s *Session) Select(date calendar.Date) error {
	if !s.calc.Period().Contains(date) {
		return ErrUnknownDay
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &date
	return nil
}

// Selected returns the selected day, if any.
func (s *Session) Selected() (calendar.Date, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return calendar.Date{}, false
	}
	return *s.selected, true
}

// ClearSelection removes the selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}
