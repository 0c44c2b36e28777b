package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for the local persistence tables. The unique
// (user_id, external_id) index is what makes re-imported samples a no-op.
const Schema = `
CREATE TABLE IF NOT EXISTS imported_samples (
    record_id   UUID PRIMARY KEY,
    user_id     TEXT NOT NULL,
    category    TEXT NOT NULL,
    external_id TEXT NOT NULL,
    value       DOUBLE PRECISION NOT NULL,
    kind        TEXT NOT NULL DEFAULT '',
    start_time  TIMESTAMPTZ NOT NULL,
    end_time    TIMESTAMPTZ NOT NULL,
    source_tag  TEXT NOT NULL DEFAULT '',
    imported_at TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, external_id)
);

CREATE INDEX IF NOT EXISTS imported_samples_user_category_idx
    ON imported_samples (user_id, category, start_time);

CREATE TABLE IF NOT EXISTS sync_state (
    key   TEXT PRIMARY KEY,
    value TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema applies the DDL. Safe to run at every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, Schema)
	return err
}
