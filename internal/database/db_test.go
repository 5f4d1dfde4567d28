package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testDB creates a temporary in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	// Quiet logger for tests
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := Open(DefaultConfig(":memory:"), logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "notes.db")

	db, err := Open(DefaultConfig(path), nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testDB(t)

	applied, err := db.Migrate(context.Background())
	if err != nil {
		t.Fatalf("second Migrate() failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second Migrate() applied %d migrations, want 0", applied)
	}
}

func TestHealth(t *testing.T) {
	db := testDB(t)

	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() = %v, want nil", err)
	}
}

func TestUpsertNote(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	created, err := db.UpsertNote(ctx, "2026-02-18", 1, "Første dag, rolig start.")
	if err != nil {
		t.Fatalf("UpsertNote() failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("created note has no ID")
	}
	if created.Ordinal != 1 || created.Date != "2026-02-18" {
		t.Errorf("created = %+v", created)
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt not parsed")
	}

	time.Sleep(1100 * time.Millisecond) // timestamps have second resolution

	updated, err := db.UpsertNote(ctx, "2026-02-18", 1, "Oppdatert")
	if err != nil {
		t.Fatalf("second UpsertNote() failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("upsert changed ID: %d -> %d", created.ID, updated.ID)
	}
	if updated.Note != "Oppdatert" {
		t.Errorf("Note = %q, want %q", updated.Note, "Oppdatert")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt not advanced: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
}

func TestUpsertNote_RejectsBadOrdinal(t *testing.T) {
	db := testDB(t)

	if _, err := db.UpsertNote(context.Background(), "2026-02-18", 31, "x"); err == nil {
		t.Error("UpsertNote() with ordinal 31 succeeded, want CHECK failure")
	}
}

func TestGetNote(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.GetNote(ctx, "2026-02-19"); !IsNotFound(err) {
		t.Fatalf("GetNote() on empty db error = %v, want ErrNotFound", err)
	}

	if _, err := db.UpsertNote(ctx, "2026-02-19", 2, "Dag to"); err != nil {
		t.Fatalf("UpsertNote() failed: %v", err)
	}

	note, err := db.GetNote(ctx, "2026-02-19")
	if err != nil {
		t.Fatalf("GetNote() failed: %v", err)
	}
	if note.Note != "Dag to" {
		t.Errorf("Note = %q, want %q", note.Note, "Dag to")
	}
}

func TestListNotes(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	notes, err := db.ListNotes(ctx)
	if err != nil {
		t.Fatalf("ListNotes() failed: %v", err)
	}
	if notes == nil || len(notes) != 0 {
		t.Errorf("ListNotes() on empty db = %v, want empty slice", notes)
	}

	for _, n := range []struct {
		date    string
		ordinal int
	}{
		{"2026-02-20", 3},
		{"2026-02-18", 1},
		{"2026-02-19", 2},
	} {
		if _, err := db.UpsertNote(ctx, n.date, n.ordinal, "note"); err != nil {
			t.Fatalf("UpsertNote(%s) failed: %v", n.date, err)
		}
	}

	notes, err = db.ListNotes(ctx)
	if err != nil {
		t.Fatalf("ListNotes() failed: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("len(notes) = %d, want 3", len(notes))
	}
	for i, want := range []int{1, 2, 3} {
		if notes[i].Ordinal != want {
			t.Errorf("notes[%d].Ordinal = %d, want %d", i, notes[i].Ordinal, want)
		}
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.DeleteNote(ctx, "2026-02-18"); !IsNotFound(err) {
		t.Errorf("DeleteNote() on missing note error = %v, want ErrNotFound", err)
	}

	if _, err := db.UpsertNote(ctx, "2026-02-18", 1, "x"); err != nil {
		t.Fatalf("UpsertNote() failed: %v", err)
	}
	if err := db.DeleteNote(ctx, "2026-02-18"); err != nil {
		t.Fatalf("DeleteNote() failed: %v", err)
	}
	if _, err := db.GetNote(ctx, "2026-02-18"); !IsNotFound(err) {
		t.Errorf("GetNote() after delete error = %v, want ErrNotFound", err)
	}
}

func TestWithTx_RollsBack(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO day_notes (day_date, ordinal, note) VALUES ('2026-02-18', 1, 'x')`); err != nil {
			return err
		}
		return ErrNotFound
	})
	if !IsNotFound(err) {
		t.Fatalf("WithTx() error = %v, want ErrNotFound", err)
	}

	if _, err := db.GetNote(ctx, "2026-02-18"); !IsNotFound(err) {
		t.Errorf("note survived rollback: %v", err)
	}
}

func TestTxUpsertNote_CountNotes(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		for i, date := range []string{"2026-02-18", "2026-02-19", "2026-02-18"} {
			if _, err := tx.UpsertNote(ctx, date, 1+i%2, "note"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx() failed: %v", err)
	}

	n, err := db.CountNotes(ctx)
	if err != nil {
		t.Fatalf("CountNotes() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountNotes() = %d, want 2", n)
	}
}

func TestValidateNote(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"trims", "  hei  ", "hei", nil},
		{"empty", " \n\t ", "", ErrEmptyNote},
		{"max length in multibyte runes", strings.Repeat("å", MaxNoteLength), strings.Repeat("å", MaxNoteLength), nil},
		{"one rune too many", strings.Repeat("å", MaxNoteLength+1), "", ErrNoteTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateNote(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateNote() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateNote() = %q, want %q", got, tt.want)
			}
		})
	}
}
