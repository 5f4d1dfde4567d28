package app

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/ramadan-api/internal/calendar"
	"github.com/zapponejosh/ramadan-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		PeriodStart:  config.DefaultPeriodStart,
		PeriodLength: config.DefaultPeriodLength,
		Latitude:     config.DefaultLatitude,
		Longitude:    config.DefaultLongitude,
		Timezone:     config.DefaultTimezone,
	}
}

func TestNewCalculator(t *testing.T) {
	calc, err := NewCalculator(testConfig())
	require.NoError(t, err)

	assert.Equal(t, "2026-02-18", calc.Period().Start().String())
	assert.Equal(t, "2026-03-18", calc.Period().End().String())
	assert.Equal(t, "Europe/Oslo", calc.Location().String())

	// Real sun: on day 1 in Oslo the sun sets between 17:00 and 17:45 local.
	noon := time.Date(2026, time.February, 18, 12, 0, 0, 0, calc.Location())
	sun := calc.SunTimes(noon)
	require.True(t, sun.Known())
	sunset := sun.Sunset.In(calc.Location())
	assert.Equal(t, 17, sunset.Hour())

	assert.Equal(t, 0, calc.CompletedDays(noon))
	assert.Equal(t, 1, calc.CompletedDays(noon.Add(6*time.Hour)))
}

func TestNewCalculator_Invalid(t *testing.T) {
	cfg := testConfig()
	cfg.PeriodStart = "not-a-date"
	_, err := NewCalculator(cfg)
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)

	cfg = testConfig()
	cfg.PeriodLength = 0
	_, err = NewCalculator(cfg)
	assert.ErrorIs(t, err, calendar.ErrInvalidPeriod)

	cfg = testConfig()
	cfg.Timezone = "Nowhere/Special"
	_, err = NewCalculator(cfg)
	assert.Error(t, err)
}
