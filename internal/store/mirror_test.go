package store

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyphlex/web-scapers/internal/domain"
	"github.com/kyphlex/web-scapers/internal/store/memory"
)

func snapshot(gen string) domain.Snapshot {
	return domain.Snapshot{
		Generation: gen,
		FetchedAt:  time.Now().UTC(),
		Records: []domain.OddsRecord{
			{Bookmaker: "DraftKings", Sport: "NFL", EventID: "e1", EventName: "Chiefs @ Bills",
				Market: "Moneyline", Outcome: "Chiefs", Price: 2.1, Timestamp: time.Now().UTC()},
		},
	}
}

func TestMirroredSeedLoadsDurableSnapshot(t *testing.T) {
	ctx := context.Background()
	durable := memory.New()
	require.NoError(t, durable.Replace(ctx, snapshot("gen-persisted")))

	m := NewMirrored(memory.New(), durable, slog.Default())
	require.NoError(t, m.Seed(ctx))

	got, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gen-persisted", got.Generation)
}

func TestMirroredSeedToleratesEmptyDurable(t *testing.T) {
	ctx := context.Background()
	m := NewMirrored(memory.New(), memory.New(), slog.Default())

	require.NoError(t, m.Seed(ctx))

	_, err := m.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrNoSnapshot)
}

func TestMirroredReplaceWritesThrough(t *testing.T) {
	ctx := context.Background()
	durable := memory.New()
	m := NewMirrored(memory.New(), durable, slog.Default())

	require.NoError(t, m.Replace(ctx, snapshot("gen-1")))

	fromMemory, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gen-1", fromMemory.Generation)

	fromDurable, err := durable.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gen-1", fromDurable.Generation)
}

type failingStore struct{}

func (failingStore) Replace(context.Context, domain.Snapshot) error {
	return errors.New("durable backend down")
}

func (failingStore) Get(context.Context) (domain.Snapshot, error) {
	return domain.Snapshot{}, errors.New("durable backend down")
}

func TestMirroredMemoryAdvancesWhenDurableFails(t *testing.T) {
	ctx := context.Background()
	m := NewMirrored(memory.New(), failingStore{}, slog.Default())

	err := m.Replace(ctx, snapshot("gen-1"))
	require.Error(t, err)

	// Readers still see the new generation.
	got, getErr := m.Get(ctx)
	require.NoError(t, getErr)
	assert.Equal(t, "gen-1", got.Generation)
}
