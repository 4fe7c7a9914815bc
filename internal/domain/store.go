package domain

import "context"

// SnapshotStore holds the latest committed snapshot. Replace swaps the whole
// generation atomically; Get never blocks on a writer and returns
// ErrNoSnapshot before the first Replace. Single writer (the scheduler),
// any number of readers.
type SnapshotStore interface {
	Replace(ctx context.Context, snap Snapshot) error
	Get(ctx context.Context) (Snapshot, error)
}

// SnapshotArchiver writes committed generations to cold storage. Archival is
// best-effort and sits outside the Replace path: a failed archive never
// blocks or rolls back a committed snapshot.
type SnapshotArchiver interface {
	Archive(ctx context.Context, snap Snapshot) error
}
