package calendar

import (
	"errors"
	"fmt"
)

// Period constants for Ramadan 2026 in Oslo.
const (
	// DefaultStartISO is the first day of fasting (Wednesday 18 February 2026).
	DefaultStartISO = "2026-02-18"

	// DefaultLength is the number of fasting days.
	DefaultLength = 29

	// MaxLength bounds the period; a lunar month never exceeds 30 days.
	MaxLength = 30
)

var (
	// ErrInvalidPeriod is returned for a period with a zero start or a length
	// outside 1..MaxLength.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrOutsidePeriod is returned when a date is not one of the period days.
	ErrOutsidePeriod = errors.New("date outside period")

	// ErrDayLocked is returned when a period day lies after today.
	ErrDayLocked = errors.New("day is locked")
)

// PeriodDay is one day of the observance period.
type PeriodDay struct {
	Number int  `json:"day_number"` // 1-based ordinal within the period
	Date   Date `json:"iso_date"`
}

// Period is the fixed observance period: a start date and a length in days.
// The day list is generated once at construction and never mutated.
type Period struct {
	start  Date
	length int
	days   []PeriodDay
}

// NewPeriod validates the definition and generates the period days.
func NewPeriod(start Date, length int) (*Period, error) {
	if start.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidPeriod)
	}
	if length < 1 || length > MaxLength {
		return nil, fmt.Errorf("%w: length must be between 1 and %d, got %d", ErrInvalidPeriod, MaxLength, length)
	}

	days := make([]PeriodDay, length)
	for i := range days {
		days[i] = PeriodDay{Number: i + 1, Date: start.AddDays(i)}
	}

	return &Period{start: start, length: length, days: days}, nil
}

// DefaultPeriod returns the Ramadan 2026 period.
func DefaultPeriod() *Period {
	p, err := NewPeriod(MustParseDate(DefaultStartISO), DefaultLength)
	if err != nil {
		panic(err)
	}
	return p
}

// Start returns the first day of the period.
func (p *Period) Start() Date { return p.start }

// End returns the last day of the period (inclusive).
func (p *Period) End() Date { return p.start.AddDays(p.length - 1) }

// Length returns the number of days in the period.
func (p *Period) Length() int { return p.length }

// Days returns a copy of the period days in ascending order.
func (p *Period) Days() []PeriodDay {
	out := make([]PeriodDay, len(p.days))
	copy(out, p.days)
	return out
}

// IndexOf returns the zero-based offset of date from the period start.
// The result may be negative (before) or >= Length (after).
func (p *Period) IndexOf(date Date) int {
	return DaysBetween(p.start, date)
}

// Contains reports whether date is one of the period days.
func (p *Period) Contains(date Date) bool {
	idx := p.IndexOf(date)
	return idx >= 0 && idx < p.length
}

// DayFor returns the period day for a calendar date.
func (p *Period) DayFor(date Date) (PeriodDay, error) {
	if !p.Contains(date) {
		return PeriodDay{}, fmt.Errorf("%w: %s", ErrOutsidePeriod, date)
	}
	return p.days[p.IndexOf(date)], nil
}

// DayNumber returns the period day with the given ordinal (1..Length).
func (p *Period) DayNumber(n int) (PeriodDay, bool) {
	if n < 1 || n > p.length {
		return PeriodDay{}, false
	}
	return p.days[n-1], true
}
