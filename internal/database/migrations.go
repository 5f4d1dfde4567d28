package database

// migrationsSQL contains all database migrations, applied in version order.
var migrationsSQL = map[int]string{
	1: migrationV1DayNotes,
	2: migrationV2NoteDateIndex,
}

// migrationV1DayNotes creates the notes table. One note per calendar date;
// the ordinal is stored alongside so listings need no period lookup.
const migrationV1DayNotes = `
CREATE TABLE IF NOT EXISTS day_notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Local calendar date, YYYY-MM-DD
    day_date TEXT NOT NULL UNIQUE,

    -- 1-based period day the note belongs to
    ordinal INTEGER NOT NULL CHECK (ordinal BETWEEN 1 AND 30),

    note TEXT NOT NULL,

    created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
);
`

// migrationV2NoteDateIndex speeds up range listings ordered by ordinal.
const migrationV2NoteDateIndex = `
CREATE INDEX IF NOT EXISTS idx_day_notes_ordinal ON day_notes(ordinal);
`
