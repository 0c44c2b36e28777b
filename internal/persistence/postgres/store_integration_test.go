//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/healthsync/internal/persistence"
	"example.com/healthsync/internal/registry"
)

func startDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("healthsync"),
		postgrescontainer.WithUsername("healthsync"),
		postgrescontainer.WithPassword("healthsync"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, EnsureSchema(ctx, pool))
	return pool
}

func TestRecordStoreDeduplicatesByExternalID(t *testing.T) {
	ctx := context.Background()
	pool := startDatabase(t)
	store := NewRecordStore(pool)

	at := time.Date(2025, time.November, 3, 7, 30, 0, 0, time.UTC)
	record := persistence.ImportedRecord{
		UserID:     "user-1",
		Category:   registry.CategoryBodyWeight,
		ExternalID: "ext-1",
		Value:      80.5,
		StartTime:  at,
		EndTime:    at,
		SourceTag:  "scale-app",
	}
	require.NoError(t, store.Create(ctx, record))

	stored, err := store.FindByExternalID(ctx, "user-1", "ext-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, 80.5, stored.Value)
	require.Equal(t, registry.CategoryBodyWeight, stored.Category)

	// Re-delivery with a different value is a silent skip, not an overwrite.
	record.Value = 99.9
	require.NoError(t, store.Create(ctx, record))

	stored, err = store.FindByExternalID(ctx, "user-1", "ext-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, 80.5, stored.Value)

	// The same external ID under another user is a distinct record.
	other := record
	other.UserID = "user-2"
	require.NoError(t, store.Create(ctx, other))

	storedOther, err := store.FindByExternalID(ctx, "user-2", "ext-1")
	require.NoError(t, err)
	require.NotNil(t, storedOther)
}

func TestRecordStoreMissingRecordIsNil(t *testing.T) {
	ctx := context.Background()
	pool := startDatabase(t)
	store := NewRecordStore(pool)

	stored, err := store.FindByExternalID(ctx, "user-1", "never-imported")
	require.NoError(t, err)
	require.Nil(t, stored)

	stored, err = store.FindByExternalID(ctx, "user-1", "")
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestCursorStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	pool := startDatabase(t)
	store := NewCursorStore(pool)

	value, err := store.Get(ctx, "last_sync_at")
	require.NoError(t, err)
	require.Nil(t, value)

	first := time.Date(2025, time.November, 3, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Set(ctx, "last_sync_at", first))

	value, err = store.Get(ctx, "last_sync_at")
	require.NoError(t, err)
	require.NotNil(t, value)
	require.True(t, value.Equal(first))

	second := first.Add(time.Hour)
	require.NoError(t, store.Set(ctx, "last_sync_at", second))

	value, err = store.Get(ctx, "last_sync_at")
	require.NoError(t, err)
	require.NotNil(t, value)
	require.True(t, value.Equal(second))

	require.NoError(t, store.Remove(ctx, "last_sync_at"))
	value, err = store.Get(ctx, "last_sync_at")
	require.NoError(t, err)
	require.Nil(t, value)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
