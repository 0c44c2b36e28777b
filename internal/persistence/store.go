// Package persistence defines the local collaborators the sync engine hands
// normalized imports to: a record store keyed by platform external ID and a
// key-value store holding the sync cursor.
package persistence

import (
	"context"
	"time"

	"example.com/healthsync/internal/registry"
)

// ImportedRecord is one normalized sample persisted locally. ExternalID is
// the platform-assigned identifier used for de-duplication; Kind carries the
// exercise kind for workout records and is empty otherwise.
type ImportedRecord struct {
	ID         string
	UserID     string
	Category   registry.Category
	ExternalID string
	Value      float64
	Kind       string
	StartTime  time.Time
	EndTime    time.Time
	SourceTag  string
	ImportedAt time.Time
}

// RecordStore is the import side of the local repositories. The engine calls
// it only to de-duplicate and persist; a found record means skip, never
// overwrite.
type RecordStore interface {
	FindByExternalID(ctx context.Context, userID, externalID string) (*ImportedRecord, error)
	Create(ctx context.Context, record ImportedRecord) error
}

// CursorStore is the key-value persistence mechanism for the lastSyncAt
// scalar. Get returns nil when the key has never been written.
type CursorStore interface {
	Get(ctx context.Context, key string) (*time.Time, error)
	Set(ctx context.Context, key string, value time.Time) error
	Remove(ctx context.Context, key string) error
}
