package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/keepsakehq/keepsake/internal/config"
	"github.com/keepsakehq/keepsake/internal/journal"
	"github.com/keepsakehq/keepsake/internal/store"
)

// loadConfig reads ~/.keepsake/keepsake.toml (or KEEPSAKE_CONFIG) over the
// defaults. A missing file means defaults.
func loadConfig() (config.Config, error) {
	path := os.Getenv("KEEPSAKE_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return config.Default(), nil
		}
		path = filepath.Join(home, ".keepsake", "keepsake.toml")
	}
	return config.Load(path)
}

// openJournal opens the database and journal for CLI commands.
// The caller closes the returned DB.
func openJournal() (*store.DB, *journal.Journal, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	dbPath := os.Getenv("KEEPSAKE_DB")
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, nil, err
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	j, err := journal.Open(db, cfg.Policy(), VersionString())
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	return db, j, nil
}
