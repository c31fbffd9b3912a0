package store

import (
	"testing"
)

func TestOpenMemory(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	if db.Path != ":memory:" {
		t.Errorf("Path = %q, want :memory:", db.Path)
	}
}

func TestSchemaVersion(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	v, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 2 {
		t.Errorf("SchemaVersion = %d, want 2", v)
	}
}

func TestTablesExist(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	tables := []string{"schema_versions", "entries", "meta"}
	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestEntriesConstraints(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	// Valid insert
	_, err = db.Exec(`
		INSERT INTO entries (day_key, moment_at, mood, mood_glyph, reflection, photo, created_at)
		VALUES ('2024-01-05', 1000, 'Joyful', '😊', 'a good day', x'00', 1000)
	`)
	if err != nil {
		t.Fatalf("valid insert failed: %v", err)
	}

	// Malformed day key
	_, err = db.Exec(`
		INSERT INTO entries (day_key, moment_at, mood, mood_glyph, reflection, photo, created_at)
		VALUES ('2024-1-5', 1000, 'Joyful', '😊', 'a good day', x'00', 1000)
	`)
	if err == nil {
		t.Error("expected error for malformed day key, got nil")
	}

	// Empty reflection
	_, err = db.Exec(`
		INSERT INTO entries (day_key, moment_at, mood, mood_glyph, reflection, photo, created_at)
		VALUES ('2024-01-06', 1000, 'Joyful', '😊', '', x'00', 1000)
	`)
	if err == nil {
		t.Error("expected error for empty reflection, got nil")
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	// Running migrate again should be a no-op
	if err := db.migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	v, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 2 {
		t.Errorf("SchemaVersion after re-migrate = %d, want 2", v)
	}
}

func TestWALMode(t *testing.T) {
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	var mode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	if err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	// In-memory databases may use "memory" mode instead of WAL
	if mode != "wal" && mode != "memory" {
		t.Errorf("journal_mode = %q, want wal or memory", mode)
	}
}
