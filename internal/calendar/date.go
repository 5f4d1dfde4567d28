// Package calendar provides the Ramadan period calculations: which day of the
// period "now" is, how many days have been fasted, and which days are open.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ISOLayout is the wire format for calendar dates.
const ISOLayout = "2006-01-02"

// ErrInvalidDate is returned when a date string is not a valid YYYY-MM-DD date.
var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar date without a time of day or zone.
//
// Dates are compared and subtracted as civil dates, so arithmetic never
// depends on DST offsets of the zone they were projected from.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns a normalized date (e.g. February 30 becomes March 2).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the date part of t as seen in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// LocalCalendarDate projects an instant onto the wall-clock date of loc.
func LocalCalendarDate(instant time.Time, loc *time.Location) Date {
	return DateOf(instant.In(loc))
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q, use YYYY-MM-DD", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// MustParseDate is ParseDate for compile-time constants and tests.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// midnightUTC anchors the date at UTC midnight. Used only for arithmetic.
func (d Date) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// In returns local midnight of the date in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n calendar days later (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnightUTC().AddDate(0, 0, n))
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }
func (d Date) Equal(other Date) bool  { return d.Compare(other) == 0 }
func (d Date) IsZero() bool           { return d == Date{} }

// Weekday returns the day of the week of the date.
func (d Date) Weekday() time.Weekday {
	return d.midnightUTC().Weekday()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.midnightUTC().Format(ISOLayout)
}

// MarshalText implements encoding.TextMarshaler so dates travel as ISO strings.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns the number of calendar days from `from` to `to`.
// The result is negative when to is before from.
func DaysBetween(from, to Date) int {
	// Both sides sit on UTC midnight, so every day is exactly 24h.
	return int(to.midnightUTC().Sub(from.midnightUTC()).Hours() / 24)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
