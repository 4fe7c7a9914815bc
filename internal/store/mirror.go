// Package store composes snapshot store implementations. The in-memory
// store is always the read path; a durable backend, when configured,
// mirrors every committed generation and re-seeds memory across restarts.
package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kyphlex/web-scapers/internal/domain"
	"github.com/kyphlex/web-scapers/internal/store/memory"
)

// Mirrored is a SnapshotStore that serves reads from the in-memory store
// and writes each committed generation through to a durable backend. The
// memory swap happens first, so readers move to the new generation even if
// the durable write then fails; the failure is surfaced to the writer.
type Mirrored struct {
	mem     *memory.Store
	durable domain.SnapshotStore
	logger  *slog.Logger
}

// NewMirrored wraps mem with a durable mirror.
func NewMirrored(mem *memory.Store, durable domain.SnapshotStore, logger *slog.Logger) *Mirrored {
	return &Mirrored{
		mem:     mem,
		durable: durable,
		logger:  logger.With(slog.String("component", "snapshot_store")),
	}
}

// Seed loads the durable backend's snapshot into memory. Called once at
// startup; a missing snapshot is not an error.
func (m *Mirrored) Seed(ctx context.Context) error {
	snap, err := m.durable.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoSnapshot) {
			return nil
		}
		return err
	}
	m.logger.Info("seeded snapshot from durable store",
		slog.String("generation", snap.Generation),
		slog.Int("records", len(snap.Records)),
	)
	return m.mem.Replace(ctx, snap)
}

// Replace commits to memory, then mirrors to the durable backend.
func (m *Mirrored) Replace(ctx context.Context, snap domain.Snapshot) error {
	if err := m.mem.Replace(ctx, snap); err != nil {
		return err
	}
	return m.durable.Replace(ctx, snap)
}

// Get reads from memory only.
func (m *Mirrored) Get(ctx context.Context) (domain.Snapshot, error) {
	return m.mem.Get(ctx)
}

var _ domain.SnapshotStore = (*Mirrored)(nil)
