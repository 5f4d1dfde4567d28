package database

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DayNote is a personal reflection attached to one unlocked period day.
type DayNote struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`    // ISO 8601 format: YYYY-MM-DD
	Ordinal   int       `json:"ordinal"` // 1-based period day
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MaxNoteLength bounds a note's length in characters (runes), not bytes.
const MaxNoteLength = 4000

var (
	ErrEmptyNote   = errors.New("note must not be empty")
	ErrNoteTooLong = fmt.Errorf("note must be at most %d characters", MaxNoteLength)
)

// ValidateNote trims surrounding whitespace and checks the result against
// ErrEmptyNote and ErrNoteTooLong. It returns the text to store.
func ValidateNote(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyNote
	}
	if utf8.RuneCountInString(text) > MaxNoteLength {
		return "", ErrNoteTooLong
	}
	return text, nil
}
