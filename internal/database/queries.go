package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// parseTimestamp parses a timestamp stored as SQLite TEXT.
// Returns the zero time if no known format matches.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*DayNote, error) {
	var n DayNote
	var createdAt, updatedAt string
	if err := row.Scan(&n.ID, &n.Date, &n.Ordinal, &n.Note, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	n.CreatedAt = parseTimestamp(createdAt)
	n.UpdatedAt = parseTimestamp(updatedAt)
	return &n, nil
}

const noteColumns = `id, day_date, ordinal, note, created_at, updated_at`

// GetNote returns the note for a date (YYYY-MM-DD).
// Returns ErrNotFound if no note was written for that day.
func (db *DB) GetNote(ctx context.Context, date string) (*DayNote, error) {
	row := db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM day_notes WHERE day_date = ?`, date)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query note by date: %w", err)
	}
	return note, nil
}

// ListNotes returns every stored note ordered by period day.
// Returns an empty slice when nothing has been written.
func (db *DB) ListNotes(ctx context.Context) ([]DayNote, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+noteColumns+` FROM day_notes ORDER BY ordinal ASC, day_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := []DayNote{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

// UpsertNote creates or replaces the note for a date and returns the stored row.
func (db *DB) UpsertNote(ctx context.Context, date string, ordinal int, text string) (*DayNote, error) {
	var note *DayNote
	err := db.WithTx(ctx, func(tx *Tx) error {
		var err error
		note, err = tx.UpsertNote(ctx, date, ordinal, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// UpsertNote is the transactional form of DB.UpsertNote.
func (tx *Tx) UpsertNote(ctx context.Context, date string, ordinal int, text string) (*DayNote, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := tx.ExecContext(ctx, `
		INSERT INTO day_notes (day_date, ordinal, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(day_date) DO UPDATE SET
			ordinal = excluded.ordinal,
			note = excluded.note,
			updated_at = excluded.updated_at
	`, date, ordinal, text, now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert note: %w", err)
	}

	row := tx.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM day_notes WHERE day_date = ?`, date)
	note, err := scanNote(row)
	if err != nil {
		return nil, fmt.Errorf("reload note: %w", err)
	}
	return note, nil
}

// CountNotes returns the number of stored notes.
func (db *DB) CountNotes(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM day_notes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

// DeleteNote removes the note for a date.
// Returns ErrNotFound if there was nothing to delete.
func (db *DB) DeleteNote(ctx context.Context, date string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM day_notes WHERE day_date = ?`, date)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
