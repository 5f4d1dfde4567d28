package calendar

import (
	"fmt"
	"math"
	"time"

	"github.com/zapponejosh/ramadan-api/internal/solar"
)

// Sun position fractions along the decorative horizon arc.
const (
	SunPositionBeforeSunrise = 0.08
	SunPositionAfterSunset   = 0.92
	SunPositionUnknown       = 0.45
)

// Phase tells where "now" sits relative to the period.
type Phase string

const (
	PhaseBefore Phase = "before"
	PhaseDuring Phase = "during"
	PhaseAfter  Phase = "after"
)

// Calculator derives the countdown values for an instant.
//
// Every method takes the instant explicitly; the calculator holds no clock,
// so the same instant always yields the same answer.
type Calculator struct {
	period *Period
	loc    *time.Location
	sun    solar.Source
}

// NewCalculator returns a calculator for a period observed in loc.
func NewCalculator(period *Period, loc *time.Location, sun solar.Source) *Calculator {
	return &Calculator{period: period, loc: loc, sun: sun}
}

// Period returns the period the calculator was built for.
func (c *Calculator) Period() *Period { return c.period }

// Location returns the zone all calendar dates are taken in.
func (c *Calculator) Location() *time.Location { return c.loc }

// Today returns the local calendar date of the instant.
func (c *Calculator) Today(now time.Time) Date {
	return LocalCalendarDate(now, c.loc)
}

// DayIndex returns the number of days between the period start and the
// instant's local date. Negative before the period, >= Length after it.
func (c *Calculator) DayIndex(now time.Time) int {
	return c.period.IndexOf(c.Today(now))
}

// InPeriod reports whether the instant's local date is a period day.
func (c *Calculator) InPeriod(now time.Time) bool {
	idx := c.DayIndex(now)
	return idx >= 0 && idx < c.period.Length()
}

// Phase reports whether the instant is before, during or after the period.
func (c *Calculator) Phase(now time.Time) Phase {
	idx := c.DayIndex(now)
	switch {
	case idx < 0:
		return PhaseBefore
	case idx >= c.period.Length():
		return PhaseAfter
	default:
		return PhaseDuring
	}
}

// OrdinalDay returns the 1-based period day of the instant. ok is false
// outside the period.
func (c *Calculator) OrdinalDay(now time.Time) (day int, ok bool) {
	if !c.InPeriod(now) {
		return 0, false
	}
	return c.DayIndex(now) + 1, true
}

// SunTimes returns sunrise and sunset for the instant's local date.
func (c *Calculator) SunTimes(now time.Time) solar.Times {
	today := c.Today(now)
	return c.sun.Times(today.Year, today.Month, today.Day)
}

// CompletedDays returns how many period days have been fasted at the
// instant. The current day only counts once its sunset has passed.
func (c *Calculator) CompletedDays(now time.Time) int {
	ordinal, ok := c.OrdinalDay(now)
	if !ok {
		return 0
	}
	return completedDays(ordinal, now, c.SunTimes(now))
}

func completedDays(ordinal int, now time.Time, sun solar.Times) int {
	if sun.HasSunset() && !now.Before(sun.Sunset) {
		return ordinal
	}
	return max(0, ordinal-1)
}

// RemainingDays returns Length minus the completed days, clamped to
// [0, Length]. Outside the period nothing is completed, so the full length
// remains; Phase distinguishes "not started" from "finished".
func (c *Calculator) RemainingDays(now time.Time) int {
	return remainingDays(c.period.Length(), c.CompletedDays(now))
}

func remainingDays(length, completed int) int {
	return clampInt(length-completed, 0, length)
}

// ProgressPercent returns the completed share of the period in [0, 100].
func (c *Calculator) ProgressPercent(now time.Time) float64 {
	return Percent(c.CompletedDays(now), c.period.Length())
}

// SunPosition returns where the sun sits on the decorative horizon arc.
func (c *Calculator) SunPosition(now time.Time) float64 {
	return SunHorizontalPosition(now, c.SunTimes(now))
}

// Glow returns the background brightness for the instant's solar altitude.
func (c *Calculator) Glow(now time.Time) float64 {
	return BackgroundGlow(c.sun.Altitude(now))
}

// Percent returns numer/denom as a percentage clamped to [0, 100]. A
// non-positive denominator yields 0.
func Percent(numer, denom int) float64 {
	if denom <= 0 {
		return 0
	}
	return clampFloat(float64(numer)/float64(denom)*100, 0, 100)
}

// SunHorizontalPosition maps the instant onto the horizon arc: 0.08 up to
// sunrise, 0.92 from sunset, and the elapsed share of daylight in between,
// held inside the arc ends so the sun never jumps backwards. Unknown sunrise
// or sunset yields a neutral 0.45.
func SunHorizontalPosition(now time.Time, sun solar.Times) float64 {
	if !sun.Known() {
		return SunPositionUnknown
	}
	if !now.After(sun.Sunrise) {
		return SunPositionBeforeSunrise
	}
	if !now.Before(sun.Sunset) {
		return SunPositionAfterSunset
	}

	elapsed := now.Sub(sun.Sunrise).Seconds()
	daylight := sun.Sunset.Sub(sun.Sunrise).Seconds()
	fraction := clampFloat(elapsed/daylight, 0, 1)
	return clampFloat(fraction, SunPositionBeforeSunrise, SunPositionAfterSunset)
}

// BackgroundGlow maps a solar altitude (radians) to a brightness in
// [0.55, 0.90]. The page never goes dark; midday adds a little extra light.
func BackgroundGlow(altitude float64) float64 {
	normalized := clampFloat((altitude+0.2)/1.2, 0, 1)
	return 0.55 + normalized*0.35
}

// IsDayUnlocked reports whether a day may be opened: today and every earlier
// date are unlocked, future dates are locked.
func IsDayUnlocked(today, candidate Date) bool {
	return !candidate.After(today)
}

// OpenDay returns the period day for date if it is unlocked at now. It fails
// with ErrOutsidePeriod for non-period dates and ErrDayLocked for future ones.
func (c *Calculator) OpenDay(now time.Time, date Date) (PeriodDay, error) {
	day, err := c.period.DayFor(date)
	if err != nil {
		return PeriodDay{}, err
	}
	if !IsDayUnlocked(c.Today(now), date) {
		return day, fmt.Errorf("%w: %s", ErrDayLocked, date)
	}
	return day, nil
}

func clampInt(n, lo, hi int) int {
	return max(lo, min(hi, n))
}

func clampFloat(n, lo, hi float64) float64 {
	if math.IsNaN(n) {
		return lo
	}
	return math.Max(lo, math.Min(hi, n))
}
