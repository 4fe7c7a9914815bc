package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kyphlex/web-scapers/internal/compare"
	"github.com/kyphlex/web-scapers/internal/server"
	"github.com/kyphlex/web-scapers/internal/server/handler"
)

// OneshotMode runs a single fetch cycle, commits the snapshot, and exits.
// Intended for cron-driven deployments and smoke testing adapters.
func (a *App) OneshotMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting oneshot mode")

	snap, srcErrs, err := deps.Orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("oneshot mode: %w", err)
	}
	for _, se := range srcErrs {
		a.logger.WarnContext(ctx, "source excluded from snapshot",
			slog.String("bookmaker", se.Bookmaker),
			slog.String("error", se.Message),
		)
	}

	if err := deps.Store.Replace(ctx, snap); err != nil {
		return fmt.Errorf("oneshot mode: commit snapshot: %w", err)
	}
	if deps.Archiver != nil {
		if err := deps.Archiver.Archive(ctx, snap); err != nil {
			a.logger.WarnContext(ctx, "snapshot archive failed",
				slog.String("generation", snap.Generation),
				slog.String("error", err.Error()),
			)
		}
	}

	if deps.Alerter.Enabled() {
		deps.Alerter.AlertArbitrage(ctx, compare.FindArbitrage(snap, ""))
	}

	a.logger.InfoContext(ctx, "oneshot run complete",
		slog.String("generation", snap.Generation),
		slog.Int("records", len(snap.Records)),
		slog.Int("sources_failed", len(srcErrs)),
	)
	return nil
}

// ScheduledMode runs the fetch scheduler until the context is cancelled.
func (a *App) ScheduledMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scheduled mode")

	if err := deps.Scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduled mode: %w", err)
	}
	return nil
}

// ServeMode runs the fetch scheduler alongside the HTTP API, so polled odds
// and manual fetch triggers are available over REST.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode", slog.Int("port", a.cfg.Server.Port))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := deps.Scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("serve mode: scheduler: %w", err)
		}
		return nil
	})

	srv := server.NewServer(
		server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
		},
		server.Handlers{
			Health: handler.NewHealthHandler(),
			Odds:   handler.NewOddsHandler(deps.Store),
			Fetch:  handler.NewFetchHandler(deps.Scheduler),
		},
		a.logger,
	)

	g.Go(func() error {
		if err := srv.Start(); err != nil {
			return fmt.Errorf("serve mode: http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.logger.Info("HTTP server shutting down")
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}
