// Package dashboard turns calculator output into the countdown view: the
// formatted header, today's annotations, the day grid and a selected day's
// detail. Everything is derived from one instant.
package dashboard

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/zapponejosh/ramadan-api/internal/calendar"
)

// DayCell is one entry of the day grid.
type DayCell struct {
	Number     int           `json:"day_number"`
	Date       calendar.Date `json:"iso_date"`
	Unlocked   bool          `json:"unlocked"`
	IsToday    bool          `json:"is_today"`
	IsSelected bool          `json:"is_selected"`
	Hint       string        `json:"hint"`
}

// Detail is what a selected day shows. Locked days carry only Text.
type Detail struct {
	Number   int              `json:"day_number"`
	Date     calendar.Date    `json:"iso_date"`
	Unlocked bool             `json:"unlocked"`
	Title    string           `json:"title"`
	Text     string           `json:"text,omitempty"`
	Events   []calendar.Event `json:"events"`
}

// Dashboard is the full view for one instant.
type Dashboard struct {
	Title            string            `json:"title"`
	DateLine         string            `json:"date_line"`
	Clock            string            `json:"clock"`
	Sunrise          string            `json:"sunrise"`
	Sunset           string            `json:"sunset"`
	Pill             string            `json:"pill"`
	RemainingRounded int               `json:"remaining_percent_rounded"`
	Progress         calendar.Progress `json:"progress"`
	Today            []calendar.Event  `json:"today"`
	Days             []DayCell         `json:"days"`
	Selected         *Detail           `json:"selected,omitempty"`
}

// ErrUnknownDay is returned when a selection is not a period day.
var ErrUnknownDay = errors.New("unknown day")

// Build assembles the dashboard for now. selected may be nil.
func Build(calc *calendar.Calculator, now time.Time, selected *calendar.Date) (Dashboard, error) {
	loc := calc.Location()
	period := calc.Period()
	p := calc.Progress(now)

	d := Dashboard{
		Title:            Title(p, period.Length()),
		DateLine:         FormatLongDate(now, loc),
		Clock:            FormatClock(now, loc),
		Sunrise:          FormatHourMinute(p.Sun.Sunrise, loc),
		Sunset:           FormatHourMinute(p.Sun.Sunset, loc),
		Pill:             StatusPill(p),
		RemainingRounded: int(math.Round(p.RemainingPercent)),
		Progress:         p,
		Today:            []calendar.Event{},
		Days:             Grid(period, p.Today, selected),
	}
	if p.InPeriod {
		d.Today = calendar.SpecialEventsForOrdinalDay(p.OrdinalDay)
	}

	if selected != nil {
		detail, err := DetailFor(period, p.Today, *selected)
		if err != nil {
			return d, err
		}
		d.Selected = &detail
	}

	return d, nil
}

// Grid lists every period day with its unlock state relative to today.
func Grid(period *calendar.Period, today calendar.Date, selected *calendar.Date) []DayCell {
	days := period.Days()
	cells := make([]DayCell, len(days))
	for i, day := range days {
		unlocked := calendar.IsDayUnlocked(today, day.Date)
		isToday := day.Date.Equal(today)
		cells[i] = DayCell{
			Number:     day.Number,
			Date:       day.Date,
			Unlocked:   unlocked,
			IsToday:    isToday,
			IsSelected: selected != nil && day.Date.Equal(*selected),
			Hint:       DayHint(unlocked, isToday),
		}
	}
	return cells
}

// DetailFor describes date as seen on today. Locked days reveal nothing but
// the locked message.
func DetailFor(period *calendar.Period, today, date calendar.Date) (Detail, error) {
	day, err := period.DayFor(date)
	if err != nil {
		return Detail{}, fmt.Errorf("%w: %w", ErrUnknownDay, err)
	}

	if !calendar.IsDayUnlocked(today, date) {
		return Detail{
			Number: day.Number,
			Date:   day.Date,
			Title:  fmt.Sprintf("Dag %d", day.Number),
			Text:   LockedText,
			Events: []calendar.Event{},
		}, nil
	}

	detail := Detail{
		Number:   day.Number,
		Date:     day.Date,
		Unlocked: true,
		Title:    fmt.Sprintf("Dag %d · %s", day.Number, day.Date),
		Events:   calendar.SpecialEventsForOrdinalDay(day.Number),
	}
	if len(detail.Events) == 0 {
		detail.Text = NoEventsText
	}
	return detail, nil
}
