package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/ramadan-api/internal/app"
	"github.com/zapponejosh/ramadan-api/internal/calendar"
	"github.com/zapponejosh/ramadan-api/internal/config"
	"github.com/zapponejosh/ramadan-api/internal/database"
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

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValidate(t *testing.T) {
	calc, err := app.NewCalculator(testConfig())
	require.NoError(t, err)
	now := time.Date(2026, time.February, 20, 12, 0, 0, 0, calc.Location())

	rows, err := validate(calc, now, []ImportNote{
		{Date: "2026-02-18", Note: "  første dag  "},
		{Date: "2026-02-20", Note: strings.Repeat("ø", database.MaxNoteLength)},
	}, false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, noteRow{date: "2026-02-18", ordinal: 1, text: "første dag"}, rows[0])
	assert.Equal(t, 3, rows[1].ordinal)

	_, err = validate(calc, now, []ImportNote{
		{Date: "2026-02-17", Note: "før"},
		{Date: "2026-02-21", Note: "låst"},
		{Date: "2026-02-19", Note: "   "},
		{Date: "19.02.2026", Note: "format"},
		{Date: "2026-02-18", Note: strings.Repeat("x", database.MaxNoteLength+1)},
	}, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, calendar.ErrOutsidePeriod)
	assert.ErrorIs(t, err, calendar.ErrDayLocked)
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)
	assert.ErrorIs(t, err, database.ErrEmptyNote)
	assert.ErrorIs(t, err, database.ErrNoteTooLong)
}

func TestValidate_AllowLockedAndDuplicates(t *testing.T) {
	calc, err := app.NewCalculator(testConfig())
	require.NoError(t, err)
	now := time.Date(2026, time.February, 1, 12, 0, 0, 0, calc.Location())

	rows, err := validate(calc, now, []ImportNote{{Date: "2026-03-18", Note: "siste"}}, true)
	require.NoError(t, err)
	assert.Equal(t, 29, rows[0].ordinal)

	_, err = validate(calc, now, []ImportNote{
		{Date: "2026-03-01", Note: "a"},
		{Date: "2026-03-01", Note: "b"},
	}, true)
	assert.ErrorContains(t, err, "more than once")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "notes.json")
	dbPath := filepath.Join(dir, "ramadan.db")

	data, err := json.Marshal(ImportFile{Notes: []ImportNote{
		{Date: "2026-02-18", Note: "første"},
		{Date: "2026-03-17", Note: "Laylat al Qadr"},
	}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(jsonPath, data, 0o644))

	cfg := testConfig()
	require.NoError(t, run(cfg, jsonPath, dbPath, true, quietLogger()))
	// Second run replaces rather than duplicates.
	require.NoError(t, run(cfg, jsonPath, dbPath, true, quietLogger()))

	db, err := database.Open(database.DefaultConfig(dbPath), quietLogger())
	require.NoError(t, err)
	defer db.Close()

	n, err := db.CountNotes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	note, err := db.GetNote(context.Background(), "2026-03-17")
	require.NoError(t, err)
	assert.Equal(t, 28, note.Ordinal)
}

func TestRun_BadFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "notes.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte("{not json"), 0o644))

	err := run(testConfig(), jsonPath, filepath.Join(dir, "x.db"), false, quietLogger())
	assert.ErrorContains(t, err, "parse JSON")

	err = run(testConfig(), filepath.Join(dir, "missing.json"), filepath.Join(dir, "x.db"), false, quietLogger())
	assert.ErrorContains(t, err, "read JSON file")
}
