package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ODDS_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known ODDS_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Fetch ──
	setDuration(&cfg.Fetch.Interval, "ODDS_FETCH_INTERVAL")
	setInt(&cfg.Fetch.Concurrency, "ODDS_FETCH_CONCURRENCY")
	setDuration(&cfg.Fetch.Timeout, "ODDS_FETCH_TIMEOUT")
	setStringSlice(&cfg.Fetch.Sports, "ODDS_FETCH_SPORTS")
	setStringSlice(&cfg.Fetch.Bookmakers, "ODDS_FETCH_BOOKMAKERS")

	// ── Storage ──
	setStr(&cfg.Storage.Backend, "ODDS_STORAGE_BACKEND")
	setStr(&cfg.Storage.Redis.Addr, "ODDS_REDIS_ADDR")
	setStr(&cfg.Storage.Redis.Password, "ODDS_REDIS_PASSWORD")
	setInt(&cfg.Storage.Redis.DB, "ODDS_REDIS_DB")
	setInt(&cfg.Storage.Redis.PoolSize, "ODDS_REDIS_POOL_SIZE")
	setInt(&cfg.Storage.Redis.MaxRetries, "ODDS_REDIS_MAX_RETRIES")
	setBool(&cfg.Storage.Redis.TLSEnabled, "ODDS_REDIS_TLS_ENABLED")
	setStr(&cfg.Storage.Postgres.DSN, "ODDS_POSTGRES_DSN")
	setStr(&cfg.Storage.Postgres.Host, "ODDS_POSTGRES_HOST")
	setInt(&cfg.Storage.Postgres.Port, "ODDS_POSTGRES_PORT")
	setStr(&cfg.Storage.Postgres.Database, "ODDS_POSTGRES_DATABASE")
	setStr(&cfg.Storage.Postgres.User, "ODDS_POSTGRES_USER")
	setStr(&cfg.Storage.Postgres.Password, "ODDS_POSTGRES_PASSWORD")
	setStr(&cfg.Storage.Postgres.SSLMode, "ODDS_POSTGRES_SSLMODE")
	setInt(&cfg.Storage.Postgres.PoolMaxConns, "ODDS_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Storage.Postgres.PoolMinConns, "ODDS_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Storage.Postgres.RunMigrations, "ODDS_POSTGRES_RUN_MIGRATIONS")

	// ── Archive ──
	setBool(&cfg.Archive.Enabled, "ODDS_ARCHIVE_ENABLED")
	setStr(&cfg.Archive.S3.Endpoint, "ODDS_S3_ENDPOINT")
	setStr(&cfg.Archive.S3.Region, "ODDS_S3_REGION")
	setStr(&cfg.Archive.S3.Bucket, "ODDS_S3_BUCKET")
	setStr(&cfg.Archive.S3.AccessKey, "ODDS_S3_ACCESS_KEY")
	setStr(&cfg.Archive.S3.SecretKey, "ODDS_S3_SECRET_KEY")
	setBool(&cfg.Archive.S3.UseSSL, "ODDS_S3_USE_SSL")
	setBool(&cfg.Archive.S3.ForcePathStyle, "ODDS_S3_FORCE_PATH_STYLE")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "ODDS_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "ODDS_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "ODDS_NOTIFY_DISCORD_WEBHOOK_URL")
	setDuration(&cfg.Notify.Cooldown, "ODDS_NOTIFY_COOLDOWN")

	// ── Server ──
	setInt(&cfg.Server.Port, "ODDS_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "ODDS_SERVER_CORS_ORIGINS")

	// ── Top-level ──
	setStr(&cfg.Mode, "ODDS_MODE")
	setStr(&cfg.LogLevel, "ODDS_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
