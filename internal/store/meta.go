package store

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Meta keys used by the journal. Each is an independently stored scalar;
// there is no transaction spanning keys, so readers must tolerate any
// subset being absent.
const (
	MetaLastSaveAt    = "last_save_at"    // unix millis of last qualifying save
	MetaStreakCount   = "streak_count"    // current run length
	MetaStreakLastAt  = "streak_last_at"  // unix millis of last streak update
	MetaStreakLastDay = "streak_last_day" // day key of last qualifying save
	MetaLastRunStreak = "last_run_streak" // length of most recently broken run
	MetaBestStreak    = "best_streak"     // maximum run length ever observed
	MetaBackfillUsed  = "backfill_used"   // backfill credits consumed
	MetaFreeCredits   = "free_credits"    // cooldown bypass credits remaining
	MetaAppVersion    = "app_version"     // version marker for credit resets
)

// GetMeta returns the value for a key and whether it was present.
// Absence is not an error: first run, storage reset, and partial writes all
// leave keys missing.
func (db *DB) GetMeta(key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get meta %s: %w", key, err)
	}
	return value, true, nil
}

// SetMeta writes a value for a key, last-write-wins.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set meta %s: %w", key, err)
	}
	return nil
}

// GetMetaInt reads a key as int64. Returns (0, false) when the key is
// absent or holds a non-numeric value; corrupted counters degrade to
// "absent" rather than failing the read path.
func (db *DB) GetMetaInt(key string) (int64, bool, error) {
	raw, ok, err := db.GetMeta(key)
	if err != nil || !ok {
		return 0, false, err
	}
	n, perr := strconv.ParseInt(raw, 10, 64)
	if perr != nil {
		return 0, false, nil
	}
	return n, true, nil
}

// SetMetaInt writes an int64 value for a key.
func (db *DB) SetMetaInt(key string, n int64) error {
	return db.SetMeta(key, strconv.FormatInt(n, 10))
}
