// Package feed exports the period as an iCalendar feed with one all-day
// event per day.
package feed

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/zapponejosh/ramadan-api/internal/calendar"
	"github.com/zapponejosh/ramadan-api/internal/dashboard"
)

// Options names the calendar and scopes event UIDs.
type Options struct {
	ProductID string // PRODID, e.g. "-//ramadan-api//NO"
	Name      string // X-WR-CALNAME
	Domain    string // UID suffix
}

// DefaultOptions returns the options used by the HTTP server.
func DefaultOptions() Options {
	return Options{
		ProductID: "-//ramadan-api//Ramadan i Oslo//NO",
		Name:      "Ramadan i Oslo",
		Domain:    "ramadan-api",
	}
}

// Build returns the feed as of now. Days after today are listed but carry
// no annotations until they unlock.
func Build(calc *calendar.Calculator, now time.Time, opts Options) *ics.Calendar {
	loc := calc.Location()
	period := calc.Period()
	today := calc.Today(now)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(opts.ProductID)
	cal.SetXWRCalName(opts.Name)
	cal.SetXWRTimezone(loc.String())

	for _, day := range period.Days() {
		uid := fmt.Sprintf("%s-day-%02d@%s", day.Date, day.Number, opts.Domain)
		event := cal.AddEvent(uid)
		event.SetDtStampTime(now.UTC())
		event.SetAllDayStartAt(day.Date.In(loc))
		event.SetAllDayEndAt(day.Date.AddDays(1).In(loc))

		// Noon keeps the lookup on the right local date across DST shifts.
		sun := calc.SunTimes(day.Date.In(loc).Add(12 * time.Hour))
		sunLine := fmt.Sprintf("Soloppgang %s · Solnedgang %s",
			dashboard.FormatHourMinute(sun.Sunrise, loc),
			dashboard.FormatHourMinute(sun.Sunset, loc))

		summary, description := describe(day, period.Length(), calendar.IsDayUnlocked(today, day.Date))
		event.SetSummary(summary)
		event.SetDescription(description + "\n\n" + sunLine)
	}

	return cal
}

// Render serializes Build's calendar.
func Render(calc *calendar.Calculator, now time.Time, opts Options) string {
	return Build(calc, now, opts).Serialize()
}

func describe(day calendar.PeriodDay, length int, unlocked bool) (summary, description string) {
	summary = fmt.Sprintf("Ramadan dag %d av %d", day.Number, length)
	if !unlocked {
		return summary, dashboard.LockedText
	}

	events := calendar.SpecialEventsForOrdinalDay(day.Number)
	if len(events) == 0 {
		return summary, dashboard.NoEventsText
	}

	titles := make([]string, len(events))
	paragraphs := make([]string, len(events))
	for i, e := range events {
		titles[i] = e.Title
		paragraphs[i] = e.Title + ": " + e.Short
	}
	return summary + " · " + strings.Join(titles, " · "), strings.Join(paragraphs, "\n\n")
}
