package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zapponejosh/ramadan-api/internal/auth"
	"github.com/zapponejosh/ramadan-api/internal/calendar"
	"github.com/zapponejosh/ramadan-api/internal/dashboard"
)

func newNowCmd(c *cli) *cobra.Command {
	var at, sel string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Print the dashboard once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			clock, err := clockFor(at)
			if err != nil {
				return err
			}
			selected, err := parseSelection(sel)
			if err != nil {
				return err
			}

			d, err := dashboard.Build(c.calc, clock.Now(), selected)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			return renderDashboard(cmd.OutOrStdout(), d)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Instant to render instead of now (RFC 3339)")
	cmd.Flags().StringVar(&sel, "select", "", "Show details for this day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the dashboard as JSON")
	return cmd
}

func newWatchCmd(c *cli) *cobra.Command {
	var sel string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Redraw the dashboard every tick until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}

			session := dashboard.NewSession(c.calc, c.logger)
			if sel != "" {
				date, err := calendar.ParseDate(sel)
				if err != nil {
					return err
				}
				if err := session.Select(date); err != nil {
					return fmt.Errorf("--select %s: %w", sel, err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			interactive := false
			if f, ok := out.(*os.File); ok {
				interactive = term.IsTerminal(int(f.Fd()))
			}

			lastClock := ""
			err := dashboard.Run(ctx, c.cfg.TickInterval, dashboard.SystemClock{}, func(now time.Time) {
				d := session.Refresh(now)
				// The clock shows whole seconds; skip ticks that would redraw the same frame.
				if d.Clock == lastClock {
					return
				}
				lastClock = d.Clock

				if interactive {
					fmt.Fprint(out, "\033[H\033[2J")
					renderDashboard(out, d)
					return
				}
				fmt.Fprintln(out, statusLine(d))
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&sel, "select", "", "Show details for this day (YYYY-MM-DD)")
	return cmd
}

func newDaysCmd(c *cli) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "days",
		Short: "List the period days with lock state and markings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			clock, err := clockFor(at)
			if err != nil {
				return err
			}

			today := c.calc.Today(clock.Now())
			return renderDays(cmd.OutOrStdout(), dashboard.Grid(c.calc.Period(), today, nil))
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Instant to evaluate locks at (RFC 3339)")
	return cmd
}

func newHashKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key",
		Short: "Hash an API key for API_KEY_HASH",
		Long: "Reads an API key (masked when stdin is a terminal, otherwise one line\n" +
			"from stdin) and prints its Argon2id hash for the API_KEY_HASH variable.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readKey(cmd)
			if err != nil {
				return err
			}

			hash, err := auth.HashKey(key)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			fmt.Fprintln(cmd.ErrOrStderr(), "Set API_KEY_HASH to the line above (single-quote it in .env files).")
			return nil
		},
	}
}

func readKey(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	f, isFile := in.(*os.File)
	if !isFile || !term.IsTerminal(int(f.Fd())) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read key from stdin: %w", err)
		}
		return strings.TrimSpace(line), nil
	}
	fd := int(f.Fd())

	errOut := cmd.ErrOrStderr()
	fmt.Fprint(errOut, "API key:         ")
	key, err := term.ReadPassword(fd)
	fmt.Fprintln(errOut)
	if err != nil {
		return "", fmt.Errorf("read key: %w", err)
	}

	fmt.Fprint(errOut, "Confirm API key: ")
	confirm, err := term.ReadPassword(fd)
	fmt.Fprintln(errOut)
	if err != nil {
		return "", fmt.Errorf("read confirmation: %w", err)
	}

	if string(key) != string(confirm) {
		return "", errors.New("keys do not match")
	}
	return string(key), nil
}
