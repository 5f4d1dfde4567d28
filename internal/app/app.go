// Package app wires configuration into the calculator shared by the server
// and the CLI.
package app

import (
	"fmt"

	"github.com/zapponejosh/ramadan-api/internal/calendar"
	"github.com/zapponejosh/ramadan-api/internal/config"
	"github.com/zapponejosh/ramadan-api/internal/solar"
)

// NewCalculator builds the period, loads the zone and puts a daily cache in
// front of the sunrise provider for the configured coordinates.
func NewCalculator(cfg *config.Config) (*calendar.Calculator, error) {
	start, err := calendar.ParseDate(cfg.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("period start: %w", err)
	}

	period, err := calendar.NewPeriod(start, cfg.PeriodLength)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	sun := solar.NewDailyCache(solar.NewProvider(cfg.Latitude, cfg.Longitude))
	return calendar.NewCalculator(period, loc, sun), nil
}
