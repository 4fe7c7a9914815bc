// Package pipeline runs the fetch side of the system: the orchestrator
// executes every source adapter concurrently and merges the survivors into a
// fresh snapshot, and the scheduler drives orchestrator runs on an interval
// with a coalesced manual trigger.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kyphlex/web-scapers/internal/domain"
	"github.com/kyphlex/web-scapers/internal/scraper"
)

// Orchestrator fans out one Fetch per adapter with bounded concurrency and
// builds a snapshot from whatever succeeded. It never persists anything;
// the caller owns the snapshot and the decision to commit it.
type Orchestrator struct {
	adapters []scraper.Adapter
	limit    int
	logger   *slog.Logger
}

// NewOrchestrator creates an Orchestrator. limit bounds the number of
// in-flight adapter fetches; values below 1 are clamped to 1.
func NewOrchestrator(adapters []scraper.Adapter, limit int, logger *slog.Logger) *Orchestrator {
	if limit < 1 {
		limit = 1
	}
	return &Orchestrator{
		adapters: adapters,
		limit:    limit,
		logger:   logger.With(slog.String("component", "orchestrator")),
	}
}

// Run fetches from every adapter and returns the merged snapshot plus the
// per-source failures. A failing adapter is excluded and recorded, never
// fatal; only when every adapter fails does Run return an
// *domain.AllSourcesFailedError and an empty snapshot.
func (o *Orchestrator) Run(ctx context.Context) (domain.Snapshot, []domain.SourceError, error) {
	start := time.Now()

	results := make([][]domain.OddsRecord, len(o.adapters))
	failures := make([]*domain.SourceError, len(o.adapters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.limit)
	for i, adapter := range o.adapters {
		i, adapter := i, adapter
		g.Go(func() error {
			records, err := adapter.Fetch(gctx)
			if err != nil {
				o.logger.Warn("adapter fetch failed",
					slog.String("bookmaker", adapter.Bookmaker()),
					slog.String("error", err.Error()),
				)
				failures[i] = &domain.SourceError{
					Bookmaker: adapter.Bookmaker(),
					Err:       err,
					Message:   err.Error(),
				}
				return nil // failure is recorded, not propagated
			}
			results[i] = records
			return nil
		})
	}
	// Goroutines only return nil; Wait is for completion, not errors.
	_ = g.Wait()

	var srcErrs []domain.SourceError
	for _, f := range failures {
		if f != nil {
			srcErrs = append(srcErrs, *f)
		}
	}
	if len(srcErrs) == len(o.adapters) {
		return domain.Snapshot{}, srcErrs, &domain.AllSourcesFailedError{Errors: srcErrs}
	}

	snap := o.merge(results)
	o.logger.Info("fetch run complete",
		slog.String("generation", snap.Generation),
		slog.Int("records", len(snap.Records)),
		slog.Int("sources_ok", len(o.adapters)-len(srcErrs)),
		slog.Int("sources_failed", len(srcErrs)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return snap, srcErrs, nil
}

// merge flattens per-adapter results into one snapshot, dropping records
// that fail validation and duplicates of the (bookmaker, event, market,
// outcome) key. First record wins on a duplicate key so the result is
// deterministic in adapter order.
func (o *Orchestrator) merge(results [][]domain.OddsRecord) domain.Snapshot {
	snap := domain.Snapshot{
		Generation: uuid.NewString(),
		FetchedAt:  time.Now().UTC(),
	}

	seen := make(map[domain.RecordKey]struct{})
	var invalid, dupes int
	for _, records := range results {
		for _, r := range records {
			if err := r.Validate(); err != nil {
				invalid++
				o.logger.Warn("dropping invalid record", slog.String("error", err.Error()))
				continue
			}
			if _, ok := seen[r.Key()]; ok {
				dupes++
				continue
			}
			seen[r.Key()] = struct{}{}
			snap.Records = append(snap.Records, r)
		}
	}
	if invalid > 0 || dupes > 0 {
		o.logger.Warn("records dropped during merge",
			slog.Int("invalid", invalid),
			slog.Int("duplicates", dupes),
		)
	}
	return snap
}
