// Package postgres provides pgx-backed implementations of the local
// persistence collaborators.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/healthsync/internal/observability"
	"example.com/healthsync/internal/persistence"
)

// RecordStore persists imported samples. A unique (user_id, external_id)
// index backs the de-duplication contract.
type RecordStore struct {
	pool *pgxpool.Pool
}

// NewRecordStore constructs a RecordStore.
func NewRecordStore(pool *pgxpool.Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

// FindByExternalID implements persistence.RecordStore.
func (s *RecordStore) FindByExternalID(ctx context.Context, userID, externalID string) (*persistence.ImportedRecord, error) {
	if externalID == "" {
		return nil, nil
	}

	const query = `SELECT record_id, user_id, category, external_id, value, kind, start_time, end_time, source_tag, imported_at
        FROM imported_samples WHERE user_id=$1 AND external_id=$2`

	row := s.pool.QueryRow(ctx, query, userID, externalID)
	var record persistence.ImportedRecord
	if err := row.Scan(&record.ID, &record.UserID, &record.Category, &record.ExternalID, &record.Value, &record.Kind, &record.StartTime, &record.EndTime, &record.SourceTag, &record.ImportedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Create implements persistence.RecordStore. Re-delivery of an already
// imported external ID is a silent skip, keeping import idempotent even when
// two sync attempts race on the same sample.
func (s *RecordStore) Create(ctx context.Context, record persistence.ImportedRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.ImportedAt.IsZero() {
		record.ImportedAt = time.Now().UTC()
	}

	const stmt = `INSERT INTO imported_samples (record_id, user_id, category, external_id, value, kind, start_time, end_time, source_tag, imported_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (user_id, external_id) DO NOTHING`

	_, err := s.pool.Exec(ctx, stmt,
		record.ID,
		record.UserID,
		record.Category,
		record.ExternalID,
		record.Value,
		record.Kind,
		record.StartTime,
		record.EndTime,
		record.SourceTag,
		record.ImportedAt,
	)
	if err != nil {
		return err
	}
	observability.RecordImportPersisted(record.ImportedAt)
	return nil
}
