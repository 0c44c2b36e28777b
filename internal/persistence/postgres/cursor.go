package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CursorStore is a single-table key-value store for sync-engine scalars.
type CursorStore struct {
	pool *pgxpool.Pool
}

// NewCursorStore constructs a CursorStore.
func NewCursorStore(pool *pgxpool.Pool) *CursorStore {
	return &CursorStore{pool: pool}
}

// Get implements persistence.CursorStore.
func (s *CursorStore) Get(ctx context.Context, key string) (*time.Time, error) {
	const query = `SELECT value FROM sync_state WHERE key=$1`

	row := s.pool.QueryRow(ctx, query, key)
	var value time.Time
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &value, nil
}

// Set implements persistence.CursorStore.
func (s *CursorStore) Set(ctx context.Context, key string, value time.Time) error {
	const stmt = `INSERT INTO sync_state (key, value) VALUES ($1,$2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

	_, err := s.pool.Exec(ctx, stmt, key, value.UTC())
	return err
}

// Remove implements persistence.CursorStore.
func (s *CursorStore) Remove(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sync_state WHERE key=$1`, key)
	return err
}
