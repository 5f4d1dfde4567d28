// Command import loads day notes from a JSON file into the SQLite database.
//
// Usage:
//
//	go run ./cmd/import -json data/notes.json -db data/ramadan.db
//
// The file holds a list of notes keyed by date:
//
//	{"notes": [{"date": "2026-02-18", "note": "Første iftar hos familien"}]}
//
// This tool:
// 1. Creates/opens the SQLite database
// 2. Runs migrations to ensure schema is current
// 3. Parses and validates the JSON file against the configured period
// 4. Upserts all notes in a single transaction
//
// The import is idempotent: a second run replaces the text of existing notes.
// Notes for days after today are rejected unless -allow-locked is given.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/zapponejosh/ramadan-api/internal/app"
	"github.com/zapponejosh/ramadan-api/internal/calendar"
	"github.com/zapponejosh/ramadan-api/internal/config"
	"github.com/zapponejosh/ramadan-api/internal/database"
	"github.com/zapponejosh/ramadan-api/internal/logger"
)

// ImportFile is the JSON layout read by the tool.
type ImportFile struct {
	Notes []ImportNote `json:"notes"`
}

// ImportNote is one note in the import file.
type ImportNote struct {
	Date string `json:"date"`
	Note string `json:"note"`
}

// noteRow is a validated note ready for the database.
type noteRow struct {
	date    string
	ordinal int
	text    string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	jsonPath := flag.String("json", "data/notes.json", "Path to notes JSON file")
	dbPath := flag.String("db", cfg.DatabasePath, "Path to SQLite database")
	allowLocked := flag.Bool("allow-locked", false, "Accept notes for days that are not open yet")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	log := logger.New(os.Stdout, level, "text")

	if err := run(cfg, *jsonPath, *dbPath, *allowLocked, log); err != nil {
		log.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("import complete")
}

func run(cfg *config.Config, jsonPath, dbPath string, allowLocked bool, log *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	log.Info("reading JSON file", slog.String("path", jsonPath))

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("read JSON file: %w", err)
	}

	var file ImportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	calc, err := app.NewCalculator(cfg)
	if err != nil {
		return err
	}

	rows, err := validate(calc, time.Now(), file.Notes, allowLocked)
	if err != nil {
		return err
	}
	log.Info("parsed JSON", slog.Int("notes", len(rows)))

	log.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", migrated))

	err = db.WithTx(ctx, func(tx *database.Tx) error {
		return importNotes(ctx, tx, rows, log)
	})
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}

	total, err := db.CountNotes(ctx)
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	log.Info("import verified",
		slog.Int("imported", len(rows)),
		slog.Int("total_notes", total),
		slog.Duration("elapsed", elapsed),
	)

	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Notes imported:  %d\n", len(rows))
	fmt.Printf("Notes in store:  %d\n", total)
	fmt.Printf("Time elapsed:    %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// validate checks every note against the period and collects all problems
// before anything is written.
func validate(calc *calendar.Calculator, now time.Time, notes []ImportNote, allowLocked bool) ([]noteRow, error) {
	var errs []error
	rows := make([]noteRow, 0, len(notes))
	seen := make(map[string]bool, len(notes))

	for i, n := range notes {
		date, err := calendar.ParseDate(n.Date)
		if err != nil {
			errs = append(errs, fmt.Errorf("note %d: %w", i+1, err))
			continue
		}

		var day calendar.PeriodDay
		if allowLocked {
			day, err = calc.Period().DayFor(date)
		} else {
			day, err = calc.OpenDay(now, date)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("note %d: %w", i+1, err))
			continue
		}

		text, err := database.ValidateNote(n.Note)
		if err != nil {
			errs = append(errs, fmt.Errorf("note %d (%s): %w", i+1, date, err))
			continue
		}
		if seen[date.String()] {
			errs = append(errs, fmt.Errorf("note %d (%s): date appears more than once", i+1, date))
			continue
		}
		seen[date.String()] = true

		rows = append(rows, noteRow{date: date.String(), ordinal: day.Number, text: text})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return rows, nil
}

func importNotes(ctx context.Context, tx *database.Tx, rows []noteRow, log *slog.Logger) error {
	for _, r := range rows {
		if _, err := tx.UpsertNote(ctx, r.date, r.ordinal, r.text); err != nil {
			return fmt.Errorf("note for %s: %w", r.date, err)
		}
		log.Debug("imported note", slog.String("date", r.date), slog.Int("day", r.ordinal))
	}
	return nil
}
