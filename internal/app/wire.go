package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/kyphlex/web-scapers/internal/blob/s3"
	"github.com/kyphlex/web-scapers/internal/config"
	"github.com/kyphlex/web-scapers/internal/domain"
	"github.com/kyphlex/web-scapers/internal/notify"
	"github.com/kyphlex/web-scapers/internal/pipeline"
	"github.com/kyphlex/web-scapers/internal/scraper"
	"github.com/kyphlex/web-scapers/internal/store"
	"github.com/kyphlex/web-scapers/internal/store/memory"
	"github.com/kyphlex/web-scapers/internal/store/postgres"
	redisstore "github.com/kyphlex/web-scapers/internal/store/redis"
)

// Dependencies bundles everything the application modes need to operate.
// It is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Store    domain.SnapshotStore
	Archiver domain.SnapshotArchiver // nil when archival is disabled
	Alerter  *notify.Alerter

	Adapters     []scraper.Adapter
	Orchestrator *pipeline.Orchestrator
	Scheduler    *pipeline.Scheduler
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Snapshot store ---
	mem := memory.New()
	switch cfg.Storage.Backend {
	case "memory":
		deps.Store = mem

	case "redis":
		redisClient, err := redisstore.New(ctx, redisstore.ClientConfig{
			Addr:       cfg.Storage.Redis.Addr,
			Password:   cfg.Storage.Redis.Password,
			DB:         cfg.Storage.Redis.DB,
			PoolSize:   cfg.Storage.Redis.PoolSize,
			MaxRetries: cfg.Storage.Redis.MaxRetries,
			TLSEnabled: cfg.Storage.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		mirrored := store.NewMirrored(mem, redisstore.NewSnapshotStore(redisClient), logger)
		if err := mirrored.Seed(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: seed from redis: %w", err)
		}
		deps.Store = mirrored

	case "postgres":
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Storage.Postgres.DSN,
			Host:     cfg.Storage.Postgres.Host,
			Port:     cfg.Storage.Postgres.Port,
			Database: cfg.Storage.Postgres.Database,
			User:     cfg.Storage.Postgres.User,
			Password: cfg.Storage.Postgres.Password,
			SSLMode:  cfg.Storage.Postgres.SSLMode,
			MaxConns: cfg.Storage.Postgres.PoolMaxConns,
			MinConns: cfg.Storage.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Storage.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		mirrored := store.NewMirrored(mem, postgres.NewSnapshotStore(pgClient.Pool()), logger)
		if err := mirrored.Seed(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: seed from postgres: %w", err)
		}
		deps.Store = mirrored

	default:
		cleanup()
		return nil, nil, fmt.Errorf("wire: unknown storage backend %q", cfg.Storage.Backend)
	}

	// --- S3 archiver (optional) ---
	if cfg.Archive.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.Archive.S3.Endpoint,
			Region:         cfg.Archive.S3.Region,
			Bucket:         cfg.Archive.S3.Bucket,
			AccessKey:      cfg.Archive.S3.AccessKey,
			SecretKey:      cfg.Archive.S3.SecretKey,
			UseSSL:         cfg.Archive.S3.UseSSL,
			ForcePathStyle: cfg.Archive.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		deps.Archiver = s3blob.NewArchiver(s3Client)
	}

	// --- Arbitrage alerts ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Alerter = notify.NewAlerter(senders, cfg.Notify.Cooldown.Duration, logger)

	// --- Adapters and fetch pipeline ---
	adapters, err := scraper.Build(cfg.Fetch.Bookmakers, cfg.Fetch.BaseURLs, cfg.Fetch.Sports, cfg.Fetch.Timeout.Duration)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: adapters: %w", err)
	}
	deps.Adapters = adapters

	deps.Orchestrator = pipeline.NewOrchestrator(adapters, cfg.Fetch.Concurrency, logger)
	deps.Scheduler = pipeline.NewScheduler(deps.Orchestrator, deps.Store, deps.Archiver, cfg.Fetch.Interval.Duration, logger)
	if deps.Alerter.Enabled() {
		deps.Scheduler.WithAlerter(deps.Alerter)
	}

	return deps, cleanup, nil
}
