package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kyphlex/web-scapers/internal/domain"
)

const snapshotKey = "odds:snapshot:latest"

// SnapshotStore implements domain.SnapshotStore on a single Redis key
// holding the JSON-serialized latest generation.
type SnapshotStore struct {
	rdb *redis.Client
}

// NewSnapshotStore creates a SnapshotStore backed by the given Client.
func NewSnapshotStore(c *Client) *SnapshotStore {
	return &SnapshotStore{rdb: c.Underlying()}
}

// Replace serializes snap and overwrites the latest-snapshot key. SET is
// atomic on the Redis side, so a concurrent Get sees either the old or the
// new generation in full.
func (s *SnapshotStore) Replace(ctx context.Context, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: marshal snapshot %s: %w", snap.Generation, err)
	}
	if err := s.rdb.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis: set snapshot %s: %w", snap.Generation, err)
	}
	return nil
}

// Get returns the last committed snapshot, or domain.ErrNoSnapshot when the
// key has never been written.
func (s *SnapshotStore) Get(ctx context.Context) (domain.Snapshot, error) {
	data, err := s.rdb.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Snapshot{}, domain.ErrNoSnapshot
		}
		return domain.Snapshot{}, fmt.Errorf("redis: get snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("redis: unmarshal snapshot: %w", err)
	}
	return snap, nil
}

var _ domain.SnapshotStore = (*SnapshotStore)(nil)
