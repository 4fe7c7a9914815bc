package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyphlex/web-scapers/internal/domain"
	"github.com/kyphlex/web-scapers/internal/scraper"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAdapter struct {
	name    string
	records []domain.OddsRecord
	err     error
	delay   time.Duration

	inflight *atomic.Int32
	maxSeen  *atomic.Int32
}

func (f *fakeAdapter) Bookmaker() string { return f.name }

func (f *fakeAdapter) Fetch(ctx context.Context) ([]domain.OddsRecord, error) {
	if f.inflight != nil {
		cur := f.inflight.Add(1)
		for {
			m := f.maxSeen.Load()
			if cur <= m || f.maxSeen.CompareAndSwap(m, cur) {
				break
			}
		}
		defer f.inflight.Add(-1)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func fakeRecord(bookmaker, outcome string, price float64) domain.OddsRecord {
	return domain.OddsRecord{
		Bookmaker: bookmaker,
		Sport:     "NFL",
		EventID:   "e1",
		EventName: "Chiefs @ Bills",
		Market:    "Moneyline",
		Outcome:   outcome,
		Price:     price,
		Timestamp: time.Now().UTC(),
	}
}

func TestRunMergesSuccessesAndRecordsFailures(t *testing.T) {
	a := &fakeAdapter{name: "A", records: []domain.OddsRecord{fakeRecord("A", "Home", 2.1)}}
	b := &fakeAdapter{name: "B", records: []domain.OddsRecord{fakeRecord("B", "Away", 1.9)}}
	c := &fakeAdapter{name: "C", err: &scraper.FetchError{Bookmaker: "C", Kind: scraper.ErrNetwork, Err: errors.New("timeout")}}

	o := NewOrchestrator([]scraper.Adapter{a, b, c}, 3, testLogger())
	snap, srcErrs, err := o.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Records, 2)
	bookmakers := []string{snap.Records[0].Bookmaker, snap.Records[1].Bookmaker}
	assert.ElementsMatch(t, []string{"A", "B"}, bookmakers)
	assert.NotEmpty(t, snap.Generation)

	require.Len(t, srcErrs, 1)
	assert.Equal(t, "C", srcErrs[0].Bookmaker)
}

func TestRunAllSourcesFailed(t *testing.T) {
	boom := errors.New("boom")
	a := &fakeAdapter{name: "A", err: boom}
	b := &fakeAdapter{name: "B", err: boom}

	o := NewOrchestrator([]scraper.Adapter{a, b}, 2, testLogger())
	_, srcErrs, err := o.Run(context.Background())

	var allFailed *domain.AllSourcesFailedError
	require.ErrorAs(t, err, &allFailed)
	assert.Len(t, allFailed.Errors, 2)
	assert.Len(t, srcErrs, 2)
}

func TestRunBoundsConcurrency(t *testing.T) {
	var inflight, maxSeen atomic.Int32
	adapters := make([]scraper.Adapter, 6)
	for i := range adapters {
		adapters[i] = &fakeAdapter{
			name:     string(rune('A' + i)),
			records:  []domain.OddsRecord{fakeRecord(string(rune('A'+i)), "Home", 2.0)},
			delay:    10 * time.Millisecond,
			inflight: &inflight,
			maxSeen:  &maxSeen,
		}
	}

	o := NewOrchestrator(adapters, 2, testLogger())
	_, _, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, maxSeen.Load(), int32(2))
}

func TestRunDropsInvalidAndDuplicateRecords(t *testing.T) {
	bad := fakeRecord("A", "Home", 0.5) // not valid decimal odds
	dup := fakeRecord("A", "Away", 2.2)
	a := &fakeAdapter{name: "A", records: []domain.OddsRecord{bad, dup, dup}}

	o := NewOrchestrator([]scraper.Adapter{a}, 1, testLogger())
	snap, srcErrs, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, srcErrs)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "Away", snap.Records[0].Outcome)
}

func TestRunHonoursCancellation(t *testing.T) {
	a := &fakeAdapter{name: "A", delay: time.Second, records: []domain.OddsRecord{fakeRecord("A", "Home", 2.0)}}
	o := NewOrchestrator([]scraper.Adapter{a}, 1, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := o.Run(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
