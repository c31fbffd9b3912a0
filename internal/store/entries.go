package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateDay is returned by InsertEntry when an entry already exists
// for the target day. Entries are write-once: the existing record is never
// overwritten.
var ErrDuplicateDay = errors.New("entry already exists for day")

// Entry is one memory record. At most one exists per calendar day, keyed by
// day_key (YYYY-MM-DD). The photo blob is loaded separately via GetPhoto so
// list scans stay cheap.
type Entry struct {
	DayKey     string
	MomentAt   int64 // capture instant, unix millis
	Mood       string
	MoodGlyph  string
	Reflection string
	Category   string
	CreatedAt  int64 // persistence instant, unix millis
}

// InsertEntry persists a new entry with its photo. Fails with ErrDuplicateDay
// if an entry already exists for e.DayKey; any other error is a storage
// failure and the store is unchanged.
func (db *DB) InsertEntry(e *Entry, photo []byte) error {
	var category any
	if e.Category != "" {
		category = e.Category
	}

	_, err := db.Exec(`
		INSERT INTO entries (day_key, moment_at, mood, mood_glyph, reflection, category, photo, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.DayKey, e.MomentAt, e.Mood, e.MoodGlyph, e.Reflection, category, photo, e.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateDay
		}
		return fmt.Errorf("insert entry %s: %w", e.DayKey, err)
	}
	return nil
}

// GetEntry returns the entry for a day, or nil if none exists.
func (db *DB) GetEntry(dayKey string) (*Entry, error) {
	var e Entry
	var category sql.NullString
	err := db.QueryRow(`
		SELECT day_key, moment_at, mood, mood_glyph, reflection, category, created_at
		FROM entries WHERE day_key = ?
	`, dayKey).Scan(&e.DayKey, &e.MomentAt, &e.Mood, &e.MoodGlyph, &e.Reflection, &category, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", dayKey, err)
	}
	e.Category = category.String
	return &e, nil
}

// GetPhoto returns the photo blob for a day, or nil if no entry exists.
func (db *DB) GetPhoto(dayKey string) ([]byte, error) {
	var photo []byte
	err := db.QueryRow(`SELECT photo FROM entries WHERE day_key = ?`, dayKey).Scan(&photo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get photo %s: %w", dayKey, err)
	}
	return photo, nil
}

// ListEntries returns all entries without photo blobs, newest day first.
func (db *DB) ListEntries() ([]Entry, error) {
	rows, err := db.Query(`
		SELECT day_key, moment_at, mood, mood_glyph, reflection, category, created_at
		FROM entries ORDER BY day_key DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var category sql.NullString
		if err := rows.Scan(&e.DayKey, &e.MomentAt, &e.Mood, &e.MoodGlyph, &e.Reflection, &category, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Category = category.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListDays returns the set of day keys with entries, newest first.
// Day keys are fixed-width YYYY-MM-DD, so lexicographic order is date order.
func (db *DB) ListDays() ([]string, error) {
	rows, err := db.Query(`SELECT day_key FROM entries ORDER BY day_key DESC`)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// CountEntries returns the total number of entries.
func (db *DB) CountEntries() (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

// LatestCreatedAt returns the maximum created_at across all entries, or 0
// if the store is empty. Used to reconstruct the last-save instant when the
// meta counters are missing.
func (db *DB) LatestCreatedAt() (int64, error) {
	var ts int64
	err := db.QueryRow(`SELECT COALESCE(MAX(created_at), 0) FROM entries`).Scan(&ts)
	if err != nil {
		return 0, fmt.Errorf("latest created_at: %w", err)
	}
	return ts, nil
}

// isUniqueViolation checks if an error is a SQLite UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
