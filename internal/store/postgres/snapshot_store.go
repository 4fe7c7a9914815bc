package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kyphlex/web-scapers/internal/domain"
)

// SnapshotStore implements domain.SnapshotStore on PostgreSQL. The single
// row in snapshots names the current generation and odds_records holds its
// records; Replace rewrites both inside one transaction, so a reader sees
// either the previous generation or the new one, never a mix.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

// NewSnapshotStore creates a SnapshotStore backed by the given pool.
func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Replace commits snap as the current generation, discarding the previous
// one, all in a single transaction.
func (s *SnapshotStore) Replace(ctx context.Context, snap domain.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM odds_records`); err != nil {
		return fmt.Errorf("postgres: clear records: %w", err)
	}

	const upsertSnapshot = `
		INSERT INTO snapshots (singleton, generation, fetched_at, committed_at)
		VALUES (TRUE, $1, $2, NOW())
		ON CONFLICT (singleton) DO UPDATE SET
			generation   = EXCLUDED.generation,
			fetched_at   = EXCLUDED.fetched_at,
			committed_at = NOW()`
	if _, err := tx.Exec(ctx, upsertSnapshot, snap.Generation, snap.FetchedAt); err != nil {
		return fmt.Errorf("postgres: upsert snapshot %s: %w", snap.Generation, err)
	}

	if len(snap.Records) > 0 {
		rows := make([][]any, 0, len(snap.Records))
		for _, r := range snap.Records {
			rows = append(rows, []any{
				snap.Generation, r.Bookmaker, r.Sport, r.EventID,
				r.EventName, r.Market, r.Outcome, r.Price, r.Timestamp,
			})
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"odds_records"},
			[]string{"generation", "bookmaker", "sport", "event_id", "event_name", "market", "outcome", "price", "quoted_at"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("postgres: copy %d records for %s: %w", len(snap.Records), snap.Generation, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit snapshot %s: %w", snap.Generation, err)
	}
	return nil
}

// Get loads the current generation, or domain.ErrNoSnapshot when no
// generation has ever been committed.
func (s *SnapshotStore) Get(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := s.pool.QueryRow(ctx,
		`SELECT generation::text, fetched_at FROM snapshots WHERE singleton`,
	).Scan(&snap.Generation, &snap.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Snapshot{}, domain.ErrNoSnapshot
		}
		return domain.Snapshot{}, fmt.Errorf("postgres: get snapshot: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT bookmaker, sport, event_id, event_name, market, outcome, price, quoted_at
		FROM odds_records
		WHERE generation = $1
		ORDER BY bookmaker, event_id, market, outcome`,
		snap.Generation,
	)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("postgres: list records for %s: %w", snap.Generation, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r domain.OddsRecord
		if err := rows.Scan(&r.Bookmaker, &r.Sport, &r.EventID, &r.EventName,
			&r.Market, &r.Outcome, &r.Price, &r.Timestamp); err != nil {
			return domain.Snapshot{}, fmt.Errorf("postgres: scan record: %w", err)
		}
		snap.Records = append(snap.Records, r)
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("postgres: iterate records: %w", err)
	}
	return snap, nil
}

var _ domain.SnapshotStore = (*SnapshotStore)(nil)
