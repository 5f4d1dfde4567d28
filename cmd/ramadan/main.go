// Command ramadan prints the Ramadan countdown for Oslo in the terminal.
//
//	ramadan now [--at RFC3339] [--select YYYY-MM-DD]
//	ramadan watch [--select YYYY-MM-DD]
//	ramadan days [--at RFC3339]
//	ramadan hash-key
//
// Period, location and time zone come from the same environment variables
// as the API server (PERIOD_START, LATITUDE, TIMEZONE, ...).
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/ramadan-api/internal/app"
	"github.com/zapponejosh/ramadan-api/internal/calendar"
	"github.com/zapponejosh/ramadan-api/internal/config"
	"github.com/zapponejosh/ramadan-api/internal/dashboard"
	"github.com/zapponejosh/ramadan-api/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries what every subcommand needs once configuration is loaded.
type cli struct {
	cfg    *config.Config
	calc   *calendar.Calculator
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "ramadan",
		Short:        "Ramadan i Oslo: countdown, day grid and sunset progress",
		SilenceUsage: true,
	}

	root.AddCommand(
		newNowCmd(c),
		newWatchCmd(c),
		newDaysCmd(c),
		newHashKeyCmd(),
	)

	return root
}

// load reads configuration and builds the calculator. Logs go to stderr so
// stdout carries only the countdown.
func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	calc, err := app.NewCalculator(cfg)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.calc = calc
	c.logger = logger.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	return nil
}

// clockFor returns a fixed clock for a non-empty --at value, else the system clock.
func clockFor(at string) (dashboard.Clock, error) {
	if at == "" {
		return dashboard.SystemClock{}, nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return nil, fmt.Errorf("invalid --at %q: use RFC 3339, e.g. 2026-02-18T18:00:00+01:00", at)
	}
	return dashboard.FixedClock(t), nil
}

// parseSelection parses an optional --select value.
func parseSelection(s string) (*calendar.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := calendar.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
