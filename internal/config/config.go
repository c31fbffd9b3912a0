package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/keepsakehq/keepsake/internal/journal"
)

// Config holds all keepsake configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Journal  JournalConfig  `toml:"journal"`
}

type ServerConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// JournalConfig holds the gate's policy knobs. These override defaults
// without touching the gating or streak algorithms.
type JournalConfig struct {
	CooldownHours   int `toml:"cooldown_hours"`    // window between qualifying saves
	BackfillLimit   int `toml:"backfill_limit"`    // lifetime cap on past-day saves
	FreeCreditGrant int `toml:"free_credit_grant"` // cooldown-bypass credits granted per upgrade
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 38800,
		},
		Database: DatabaseConfig{
			Path: "", // resolved at runtime via store.DefaultDBPath()
		},
		Journal: JournalConfig{
			CooldownHours:   24,
			BackfillLimit:   3,
			FreeCreditGrant: 0,
		},
	}
}

// Load reads a TOML config file over the defaults. A missing file is not an
// error: the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// Policy converts the journal knobs into the engine's policy.
func (c *Config) Policy() journal.Policy {
	p := journal.DefaultPolicy()
	if c.Journal.CooldownHours > 0 {
		p.CooldownWindow = time.Duration(c.Journal.CooldownHours) * time.Hour
	}
	if c.Journal.BackfillLimit >= 0 {
		p.BackfillLimit = int64(c.Journal.BackfillLimit)
	}
	if c.Journal.FreeCreditGrant >= 0 {
		p.FreeCreditGrant = int64(c.Journal.FreeCreditGrant)
	}
	return p
}
