// Package memory holds the latest snapshot in process memory behind an
// atomic pointer. This is the read path for every consumer; durable
// backends only mirror what is committed here.
package memory

import (
	"context"
	"sync/atomic"

	"github.com/kyphlex/web-scapers/internal/domain"
)

// Store is an in-memory snapshot store. Replace swaps a pointer, so readers
// never lock and never observe a half-written generation.
type Store struct {
	current atomic.Pointer[domain.Snapshot]
}

// New creates an empty Store. Get returns domain.ErrNoSnapshot until the
// first Replace.
func New() *Store {
	return &Store{}
}

// Replace atomically swaps in snap as the current generation.
func (s *Store) Replace(_ context.Context, snap domain.Snapshot) error {
	s.current.Store(&snap)
	return nil
}

// Get returns the last committed snapshot, or domain.ErrNoSnapshot before
// the first commit. It never blocks on a writer.
func (s *Store) Get(_ context.Context) (domain.Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return domain.Snapshot{}, domain.ErrNoSnapshot
	}
	return *snap, nil
}

var _ domain.SnapshotStore = (*Store)(nil)
