package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Mode = "daemon" }},
		{"interval below minimum", func(c *Config) { c.Fetch.Interval = duration{5 * time.Second} }},
		{"zero concurrency", func(c *Config) { c.Fetch.Concurrency = 0 }},
		{"no bookmakers", func(c *Config) { c.Fetch.Bookmakers = nil }},
		{"no sports", func(c *Config) { c.Fetch.Sports = nil }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "sqlite" }},
		{"archive without bucket", func(c *Config) { c.Archive.Enabled = true }},
		{"port out of range", func(c *Config) { c.Server.Port = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "oneshot"

[fetch]
interval = "1m"
concurrency = 2
bookmakers = ["DraftKings"]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "oneshot", cfg.Mode)
	assert.Equal(t, time.Minute, cfg.Fetch.Interval.Duration)
	assert.Equal(t, 2, cfg.Fetch.Concurrency)
	assert.Equal(t, []string{"DraftKings"}, cfg.Fetch.Bookmakers)
	// Untouched fields keep their defaults.
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`mode = "scheduled"`), 0o644))

	t.Setenv("ODDS_MODE", "serve")
	t.Setenv("ODDS_FETCH_INTERVAL", "90s")
	t.Setenv("ODDS_FETCH_BOOKMAKERS", "FanDuel, BetMGM")
	t.Setenv("ODDS_STORAGE_BACKEND", "redis")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "serve", cfg.Mode)
	assert.Equal(t, 90*time.Second, cfg.Fetch.Interval.Duration)
	assert.Equal(t, []string{"FanDuel", "BetMGM"}, cfg.Fetch.Bookmakers)
	assert.Equal(t, "redis", cfg.Storage.Backend)
	require.NoError(t, cfg.Validate())
}
