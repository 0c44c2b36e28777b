package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRecordStore keeps imported records in memory for local development
// and tests.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string]ImportedRecord // keyed by userID + "/" + externalID
}

// NewMemoryRecordStore constructs an empty store.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[string]ImportedRecord)}
}

// FindByExternalID implements RecordStore.
func (s *MemoryRecordStore) FindByExternalID(_ context.Context, userID, externalID string) (*ImportedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[userID+"/"+externalID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Create implements RecordStore.
func (s *MemoryRecordStore) Create(_ context.Context, record ImportedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.ImportedAt.IsZero() {
		record.ImportedAt = time.Now().UTC()
	}
	s.records[record.UserID+"/"+record.ExternalID] = record
	return nil
}

// Count returns the number of stored records.
func (s *MemoryRecordStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// All returns a copy of every stored record.
func (s *MemoryRecordStore) All() []ImportedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ImportedRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	return out
}

// MemoryCursorStore is an in-memory key-value store for the sync cursor.
type MemoryCursorStore struct {
	mu     sync.RWMutex
	values map[string]time.Time
}

// NewMemoryCursorStore constructs an empty store.
func NewMemoryCursorStore() *MemoryCursorStore {
	return &MemoryCursorStore{values: make(map[string]time.Time)}
}

// Get implements CursorStore.
func (s *MemoryCursorStore) Get(_ context.Context, key string) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	return &value, nil
}

// Set implements CursorStore.
func (s *MemoryCursorStore) Set(_ context.Context, key string, value time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Remove implements CursorStore.
func (s *MemoryCursorStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
