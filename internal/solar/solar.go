// Package solar answers the two astronomical questions the countdown needs:
// when the sun rises and sets on a given date, and how high it is right now.
package solar

import (
	"sync"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/sixdouglas/suncalc"
)

// Oslo coordinates used by default.
const (
	OsloLatitude  = 59.9139
	OsloLongitude = 10.7522
)

// Times holds sunrise and sunset for one date. A zero value means the event
// does not happen that day (polar day or polar night) and must be treated as
// unknown.
type Times struct {
	Sunrise time.Time `json:"sunrise,omitzero"`
	Sunset  time.Time `json:"sunset,omitzero"`
}

func (t Times) HasSunrise() bool { return !t.Sunrise.IsZero() }
func (t Times) HasSunset() bool  { return !t.Sunset.IsZero() }

// Known reports whether both sunrise and sunset are available.
func (t Times) Known() bool { return t.HasSunrise() && t.HasSunset() }

// Source is anything that can produce solar times and altitude.
type Source interface {
	Times(year int, month time.Month, day int) Times
	Altitude(at time.Time) float64
}

// Provider computes solar data for a fixed coordinate.
type Provider struct {
	Latitude  float64
	Longitude float64
}

// NewProvider returns a provider for the given coordinate.
func NewProvider(latitude, longitude float64) *Provider {
	return &Provider{Latitude: latitude, Longitude: longitude}
}

// Times returns sunrise and sunset (UTC) for the given date.
func (p *Provider) Times(year int, month time.Month, day int) Times {
	rise, set := sunrise.SunriseSunset(p.Latitude, p.Longitude, year, month, day)
	return Times{Sunrise: rise, Sunset: set}
}

// Altitude returns the sun's altitude above the horizon in radians.
// Negative values mean the sun is below the horizon.
func (p *Provider) Altitude(at time.Time) float64 {
	return suncalc.GetPosition(at, p.Latitude, p.Longitude).Altitude
}

// DailyCache memoizes the solar times of the most recently requested date.
// The countdown asks for "today" several times per second; the answer only
// changes when the date does.
type DailyCache struct {
	src Source

	mu    sync.Mutex
	valid bool
	year  int
	month time.Month
	day   int
	times Times
}

// NewDailyCache wraps src.
func NewDailyCache(src Source) *DailyCache {
	return &DailyCache{src: src}
}

// Times returns cached times when the date matches the last lookup.
func (c *DailyCache) Times(year int, month time.Month, day int) Times {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.year == year && c.month == month && c.day == day {
		return c.times
	}

	c.times = c.src.Times(year, month, day)
	c.year, c.month, c.day = year, month, day
	c.valid = true
	return c.times
}

// Altitude is not cached; it changes continuously.
func (c *DailyCache) Altitude(at time.Time) float64 {
	return c.src.Altitude(at)
}
