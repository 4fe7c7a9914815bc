// Package config defines the top-level configuration for the odds poller
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by ODDS_* environment variables.
type Config struct {
	Fetch    FetchConfig   `toml:"fetch"`
	Storage  StorageConfig `toml:"storage"`
	Archive  ArchiveConfig `toml:"archive"`
	Notify   NotifyConfig  `toml:"notify"`
	Server   ServerConfig  `toml:"server"`
	Mode     string        `toml:"mode"`
	LogLevel string        `toml:"log_level"`
}

// FetchConfig controls the scrape pipeline: which bookmakers and sports to
// poll, how often, and how many fetches run at once.
type FetchConfig struct {
	Interval    duration          `toml:"interval"`
	Concurrency int               `toml:"concurrency"`
	Timeout     duration          `toml:"timeout"`
	Sports      []string          `toml:"sports"`
	Bookmakers  []string          `toml:"bookmakers"`
	BaseURLs    map[string]string `toml:"base_urls"` // per-bookmaker host overrides
}

// StorageConfig selects the durable snapshot backend.
type StorageConfig struct {
	Backend  string         `toml:"backend"` // memory, redis, or postgres
	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// ArchiveConfig controls cold archival of committed snapshots.
type ArchiveConfig struct {
	Enabled bool     `toml:"enabled"`
	S3      S3Config `toml:"s3"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// NotifyConfig holds the arbitrage alert channels. A channel is active when
// its credentials are set; with none set, alerting is off.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Cooldown          duration `toml:"cooldown"` // repeat suppression per opportunity
}

// ServerConfig holds the HTTP API parameters for serve mode.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// minInterval is the floor on the fetch interval; anything tighter hammers
// the books for no analytical gain.
const minInterval = 30 * time.Second

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Fetch: FetchConfig{
			Interval:    duration{5 * time.Minute},
			Concurrency: 3,
			Timeout:     duration{30 * time.Second},
			Sports:      []string{"NFL", "NBA", "MLB", "NHL", "Soccer"},
			Bookmakers:  []string{"BetMGM", "DraftKings", "FanDuel"},
		},
		Storage: StorageConfig{
			Backend: "memory",
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 10,
			},
			Postgres: PostgresConfig{
				Host:          "localhost",
				Port:          5432,
				SSLMode:       "disable",
				PoolMaxConns:  4,
				RunMigrations: true,
			},
		},
		Notify: NotifyConfig{
			Cooldown: duration{15 * time.Minute},
		},
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"*"},
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "oneshot", "scheduled", "serve":
	default:
		return fmt.Errorf("config: mode must be oneshot, scheduled, or serve, got %q", c.Mode)
	}

	if c.Fetch.Interval.Duration < minInterval {
		return fmt.Errorf("config: fetch.interval %s below minimum %s", c.Fetch.Interval.Duration, minInterval)
	}
	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("config: fetch.concurrency must be >= 1, got %d", c.Fetch.Concurrency)
	}
	if len(c.Fetch.Bookmakers) == 0 {
		return fmt.Errorf("config: fetch.bookmakers must name at least one source")
	}
	if len(c.Fetch.Sports) == 0 {
		return fmt.Errorf("config: fetch.sports must name at least one sport")
	}

	switch c.Storage.Backend {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("config: storage.backend must be memory, redis, or postgres, got %q", c.Storage.Backend)
	}

	if c.Archive.Enabled {
		if c.Archive.S3.Bucket == "" {
			return fmt.Errorf("config: archive.s3.bucket is required when archive is enabled")
		}
		if c.Archive.S3.Region == "" {
			return fmt.Errorf("config: archive.s3.region is required when archive is enabled")
		}
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	return nil
}

// duration wraps time.Duration so TOML values can be written as "5m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}
