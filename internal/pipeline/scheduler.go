package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kyphlex/web-scapers/internal/compare"
	"github.com/kyphlex/web-scapers/internal/domain"
)

// ArbAlerter receives the arbitrage opportunities found in each committed
// snapshot.
type ArbAlerter interface {
	AlertArbitrage(ctx context.Context, opps []domain.ArbitrageOpportunity)
}

// State is the scheduler's lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateStopped State = "stopped"
)

// Scheduler drives orchestrator runs: once immediately on start, then again
// whenever the interval has elapsed since the previous run *completed*, or
// earlier on a manual trigger. At most one run is ever in flight; a tick or
// trigger landing mid-run is coalesced, never a second run. A run that fails
// with all sources down leaves the store untouched and the scheduler simply
// waits for the next cycle.
type Scheduler struct {
	orch     *Orchestrator
	store    domain.SnapshotStore
	archiver domain.SnapshotArchiver // optional
	interval time.Duration
	logger   *slog.Logger
	alerter  ArbAlerter // optional

	mu      sync.Mutex
	state   State
	trigger chan struct{}
}

// NewScheduler creates a Scheduler. archiver may be nil.
func NewScheduler(orch *Orchestrator, store domain.SnapshotStore, archiver domain.SnapshotArchiver, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		orch:     orch,
		store:    store,
		archiver: archiver,
		interval: interval,
		logger:   logger.With(slog.String("component", "scheduler")),
		state:    StateIdle,
		trigger:  make(chan struct{}, 1),
	}
}

// WithAlerter enables arbitrage alerting on committed snapshots.
func (s *Scheduler) WithAlerter(alerter ArbAlerter) *Scheduler {
	s.alerter = alerter
	return s
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TriggerFetch requests a run now. It returns nil when the request was
// accepted (the run starts as soon as the loop observes it),
// domain.ErrAlreadyRunning when a run is in flight (that run's outcome
// stands for this request too), and domain.ErrSchedulerStopped after
// shutdown.
func (s *Scheduler) TriggerFetch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRunning:
		return domain.ErrAlreadyRunning
	case StateStopped:
		return domain.ErrSchedulerStopped
	}

	select {
	case s.trigger <- struct{}{}:
	default:
		// A trigger is already queued; coalesce.
	}
	return nil
}

// Run executes the scheduling loop until ctx is cancelled. It always runs
// once immediately, then waits out the interval (measured from run
// completion) or a manual trigger before the next run.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler starting", slog.Duration("interval", s.interval))
	defer s.setState(StateStopped)

	for {
		s.runOnce(ctx)
		if ctx.Err() != nil {
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-timer.C:
		case <-s.trigger:
			timer.Stop()
			s.logger.Info("manual trigger accepted")
		}
	}
}

func (s *Scheduler) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// runOnce performs one orchestrator run and commits the snapshot on
// success. Errors never escape: an all-failed run is logged and the
// previous snapshot stays visible.
func (s *Scheduler) runOnce(ctx context.Context) {
	s.setState(StateRunning)
	defer s.setState(StateIdle)

	// Drop any trigger that raced in just before the state flip; this run
	// satisfies it.
	select {
	case <-s.trigger:
	default:
	}

	snap, srcErrs, err := s.orch.Run(ctx)
	if err != nil {
		var allFailed *domain.AllSourcesFailedError
		if errors.As(err, &allFailed) {
			s.logger.Error("fetch run failed, keeping previous snapshot",
				slog.Int("sources_failed", len(allFailed.Errors)),
				slog.String("error", err.Error()),
			)
		} else {
			s.logger.Error("fetch run failed", slog.String("error", err.Error()))
		}
		return
	}

	for _, se := range srcErrs {
		s.logger.Warn("source excluded from snapshot",
			slog.String("bookmaker", se.Bookmaker),
			slog.String("error", se.Message),
		)
	}

	if err := s.store.Replace(ctx, snap); err != nil {
		s.logger.Error("snapshot commit failed, previous generation remains visible",
			slog.String("generation", snap.Generation),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.Info("snapshot committed",
		slog.String("generation", snap.Generation),
		slog.Int("records", len(snap.Records)),
	)

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, snap); err != nil {
			// Best effort; the committed snapshot is unaffected.
			s.logger.Warn("snapshot archive failed",
				slog.String("generation", snap.Generation),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.alerter != nil {
		s.alerter.AlertArbitrage(ctx, compare.FindArbitrage(snap, ""))
	}
}
