package solar

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_TimesOslo(t *testing.T) {
	p := NewProvider(OsloLatitude, OsloLongitude)

	times := p.Times(2026, time.February, 18)

	assert.True(t, times.Known())
	assert.True(t, times.Sunrise.Before(times.Sunset))

	// Mid-February in Oslo: sunrise around 07:50 local, sunset around 17:15 local.
	assert.Equal(t, 6, times.Sunrise.UTC().Hour())
	assert.Equal(t, 16, times.Sunset.UTC().Hour())
}

func TestProvider_PolarNightIsUnknown(t *testing.T) {
	// Longyearbyen in midwinter: the sun never rises.
	p := NewProvider(78.2232, 15.6267)

	times := p.Times(2026, time.December, 21)

	assert.False(t, times.HasSunrise())
	assert.False(t, times.HasSunset())
	assert.False(t, times.Known())
}

func TestProvider_Altitude(t *testing.T) {
	p := NewProvider(OsloLatitude, OsloLongitude)

	// Oslo around solar noon on the summer solstice: roughly 53.5 degrees.
	noon := time.Date(2026, time.June, 21, 11, 18, 0, 0, time.UTC)
	assert.InDelta(t, 53.5, p.Altitude(noon)*180/math.Pi, 1.0)

	// Midnight in midwinter is well below the horizon.
	midnight := time.Date(2026, time.December, 21, 23, 0, 0, 0, time.UTC)
	assert.Less(t, p.Altitude(midnight), 0.0)
	assert.False(t, math.IsNaN(p.Altitude(midnight)))

	// The sun climbs through the morning.
	morning := time.Date(2026, time.February, 18, 8, 0, 0, 0, time.UTC)
	assert.Less(t, p.Altitude(morning), p.Altitude(morning.Add(2*time.Hour)))
}

func TestTimes_UnknownOmittedFromJSON(t *testing.T) {
	data, err := json.Marshal(Times{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	known := NewProvider(OsloLatitude, OsloLongitude).Times(2026, time.February, 18)
	data, err = json.Marshal(known)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sunrise"`)
	assert.Contains(t, string(data), `"sunset"`)
}

type countingSource struct {
	calls int
}

func (c *countingSource) Times(year int, month time.Month, day int) Times {
	c.calls++
	base := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Times{Sunrise: base.Add(7 * time.Hour), Sunset: base.Add(17 * time.Hour)}
}

func (c *countingSource) Altitude(time.Time) float64 { return 0.1 }

func TestDailyCache(t *testing.T) {
	src := &countingSource{}
	cache := NewDailyCache(src)

	first := cache.Times(2026, time.March, 1)
	again := cache.Times(2026, time.March, 1)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, src.calls)

	next := cache.Times(2026, time.March, 2)
	assert.Equal(t, 2, src.calls)
	assert.Equal(t, 2, next.Sunrise.Day())

	assert.Equal(t, 0.1, cache.Altitude(time.Now()))
}
