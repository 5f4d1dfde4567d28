// Package main is the entry point for the Ramadan countdown API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/zapponejosh/ramadan-api/internal/api"
	"github.com/zapponejosh/ramadan-api/internal/app"
	"github.com/zapponejosh/ramadan-api/internal/auth"
	"github.com/zapponejosh/ramadan-api/internal/config"
	"github.com/zapponejosh/ramadan-api/internal/dashboard"
	"github.com/zapponejosh/ramadan-api/internal/database"
	"github.com/zapponejosh/ramadan-api/internal/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	log.Info("starting ramadan API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("period_start", cfg.PeriodStart),
		slog.Int("period_length", cfg.PeriodLength),
		slog.String("timezone", cfg.Timezone),
	)

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	var verifier *auth.Verifier
	if cfg.APIKeyHash != "" {
		if verifier, err = auth.NewVerifier(cfg.APIKeyHash); err != nil {
			return fmt.Errorf("API_KEY_HASH: %w", err)
		}
	} else {
		log.Warn("no API_KEY_HASH set, note writes are open in development and refused otherwise")
	}

	calc, err := app.NewCalculator(cfg)
	if err != nil {
		return err
	}

	clock := dashboard.SystemClock{}
	session := dashboard.NewSession(calc, log)

	go func() {
		err := dashboard.Run(ctx, cfg.TickInterval, clock, func(now time.Time) {
			session.Refresh(now)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("ticker stopped", slog.Any("error", err))
		}
	}()

	handlers := api.NewHandlers(db, session, clock, log)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(handlers, cfg, verifier, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("ramadan API ready", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
