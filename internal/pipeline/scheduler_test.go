package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyphlex/web-scapers/internal/domain"
	"github.com/kyphlex/web-scapers/internal/scraper"
	"github.com/kyphlex/web-scapers/internal/store/memory"
)

func TestSchedulerCommitsOnSuccess(t *testing.T) {
	a := &fakeAdapter{name: "A", records: []domain.OddsRecord{fakeRecord("A", "Home", 2.0)}}
	store := memory.New()
	sched := NewScheduler(NewOrchestrator([]scraper.Adapter{a}, 1, testLogger()), store, nil, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := store.Get(context.Background())
		return err == nil
	}, time.Second, 5*time.Millisecond)

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateStopped, sched.State())
}

func TestSchedulerKeepsSnapshotWhenAllSourcesFail(t *testing.T) {
	store := memory.New()
	seed := domain.Snapshot{Generation: "seed", FetchedAt: time.Now().UTC()}
	require.NoError(t, store.Replace(context.Background(), seed))

	var runs atomic.Int32
	failing := adapterFunc{
		name: "A",
		fetch: func(ctx context.Context) ([]domain.OddsRecord, error) {
			runs.Add(1)
			return nil, errors.New("down")
		},
	}
	sched := NewScheduler(NewOrchestrator([]scraper.Adapter{failing}, 1, testLogger()), store, nil, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	require.Eventually(t, func() bool {
		return runs.Load() >= 1 && sched.State() == StateIdle
	}, time.Second, 5*time.Millisecond)

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seed", got.Generation, "failed run must not touch the committed snapshot")

	cancel()
	<-done
}

func TestTriggerWhileRunningDoesNotStartSecondRun(t *testing.T) {
	var runs atomic.Int32
	slow := &fakeAdapter{
		name:    "A",
		delay:   100 * time.Millisecond,
		records: []domain.OddsRecord{fakeRecord("A", "Home", 2.0)},
	}
	countingSlow := adapterFunc{
		name: "A",
		fetch: func(ctx context.Context) ([]domain.OddsRecord, error) {
			runs.Add(1)
			return slow.Fetch(ctx)
		},
	}

	store := memory.New()
	sched := NewScheduler(NewOrchestrator([]scraper.Adapter{countingSlow}, 1, testLogger()), store, nil, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	require.Eventually(t, func() bool {
		return sched.State() == StateRunning
	}, time.Second, time.Millisecond)

	err := sched.TriggerFetch()
	assert.ErrorIs(t, err, domain.ErrAlreadyRunning)

	require.Eventually(t, func() bool {
		return sched.State() == StateIdle
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	cancel()
	<-done
	assert.ErrorIs(t, sched.TriggerFetch(), domain.ErrSchedulerStopped)
}

func TestTriggerWhileIdleStartsRunBeforeInterval(t *testing.T) {
	var runs atomic.Int32
	counting := adapterFunc{
		name: "A",
		fetch: func(ctx context.Context) ([]domain.OddsRecord, error) {
			runs.Add(1)
			return []domain.OddsRecord{fakeRecord("A", "Home", 2.0)}, nil
		},
	}

	store := memory.New()
	sched := NewScheduler(NewOrchestrator([]scraper.Adapter{counting}, 1, testLogger()), store, nil, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	require.Eventually(t, func() bool {
		return runs.Load() == 1 && sched.State() == StateIdle
	}, time.Second, time.Millisecond)

	require.NoError(t, sched.TriggerFetch())
	require.Eventually(t, func() bool {
		return runs.Load() == 2
	}, time.Second, time.Millisecond, "trigger while idle should start a run without waiting out the interval")

	cancel()
	<-done
}

// adapterFunc adapts a closure into a scraper.Adapter for tests.
type adapterFunc struct {
	name  string
	fetch func(ctx context.Context) ([]domain.OddsRecord, error)
}

func (a adapterFunc) Bookmaker() string { return a.name }
func (a adapterFunc) Fetch(ctx context.Context) ([]domain.OddsRecord, error) {
	return a.fetch(ctx)
}
