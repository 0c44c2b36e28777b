package adapter

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/healthsync/internal/authz"
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/platform"
	"example.com/healthsync/internal/registry"
)

func newTestWriter(t *testing.T, mem *platform.Memory) *Writer {
	t.Helper()
	gateway := authz.New(mem)
	require.NoError(t, gateway.RequestAuthorization(context.Background()))
	return NewWriter(mem, gateway, WithWriteLogger(log.New(testWriter{t}, "", 0)))
}

func TestWriteStampsEngineMetadata(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, time.November, 3, 7, 30, 0, 0, time.UTC)

	mem := platform.NewMemory()
	writer := newTestWriter(t, mem)

	require.NoError(t, writer.Write(ctx, registry.CategoryBodyWeight, 80.5, at, map[string]string{"note": "morning"}))

	stored, err := mem.QuerySamples(ctx, platform.QuerySpec{
		Category: registry.CategoryBodyWeight,
		Start:    at.Add(-time.Minute),
		End:      at.Add(time.Minute),
		Order:    platform.OrderOldestFirst,
	})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, domain.OriginTag, stored[0].SourceName)
	assert.Equal(t, domain.OriginTag, stored[0].Metadata[domain.MetadataKeyOrigin])
	assert.Equal(t, domain.SchemaVersion, stored[0].Metadata[domain.MetadataKeySchemaVersion])
	assert.Equal(t, "morning", stored[0].Metadata["note"])
}

func TestWriteBatchEmptyIsNoOp(t *testing.T) {
	mem := platform.NewMemory()
	writer := newTestWriter(t, mem)

	require.NoError(t, writer.WriteBatch(context.Background(), nil))
	assert.Zero(t, mem.SaveCalls)
}

func TestWriteBatchRejectsWhenAnyCategoryDenied(t *testing.T) {
	ctx := context.Background()
	at := time.Now().UTC()

	mem := platform.NewMemory()
	writer := newTestWriter(t, mem)
	mem.SetAuthStatus(registry.CategoryBodyFat, platform.AuthStatusDenied)

	err := writer.WriteBatch(ctx, []domain.OutboundSample{
		domain.NewOutboundSample(registry.CategoryBodyWeight, 80.5, at, nil),
		domain.NewOutboundSample(registry.CategoryBodyFat, 23.4, at, nil),
	})

	var notAuthorized domain.NotAuthorizedError
	require.ErrorAs(t, err, &notAuthorized)
	assert.Equal(t, registry.CategoryBodyFat, notAuthorized.Category)
	// Nothing reached the platform.
	assert.Zero(t, mem.SaveCalls)
}

func TestWriteBodyCompositionIsOneBatch(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, time.November, 3, 7, 30, 0, 0, time.UTC)

	mem := platform.NewMemory()
	writer := newTestWriter(t, mem)

	bodyFat := 23.4
	require.NoError(t, writer.WriteBodyComposition(ctx, 80.5, &bodyFat, at))
	assert.Equal(t, 1, mem.SaveCalls)

	fats, err := mem.QuerySamples(ctx, platform.QuerySpec{
		Category: registry.CategoryBodyFat,
		Start:    at.Add(-time.Minute),
		End:      at.Add(time.Minute),
		Order:    platform.OrderOldestFirst,
	})
	require.NoError(t, err)
	require.Len(t, fats, 1)
	// Percentages are stored in the platform's fractional representation.
	assert.Equal(t, platform.UnitFraction, fats[0].Unit)
	assert.InDelta(t, 0.234, fats[0].Value, 0.0001)
	assert.True(t, fats[0].Start.Equal(at))
}

func TestWriteBodyCompositionWithoutBodyFat(t *testing.T) {
	ctx := context.Background()
	at := time.Now().UTC()

	mem := platform.NewMemory()
	writer := newTestWriter(t, mem)

	require.NoError(t, writer.WriteBodyComposition(ctx, 80.5, nil, at))
	assert.Equal(t, 1, mem.SaveCalls)
}

func TestWriteWorkoutCarriesIntensityInMetadata(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, time.November, 3, 18, 0, 0, 0, time.UTC)

	mem := platform.NewMemory()
	writer := newTestWriter(t, mem)

	require.NoError(t, writer.WriteWorkout(ctx, domain.ExerciseRunning, start, 45, 380, domain.IntensityHigh))

	workouts, err := mem.QueryWorkouts(ctx, start.Add(-time.Minute), start.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, "running", workouts[0].ActivityType)
	assert.True(t, workouts[0].End.Equal(start.Add(45*time.Minute)))
	require.NotNil(t, workouts[0].EnergyKcal)
	assert.InDelta(t, 380, *workouts[0].EnergyKcal, 0.001)
	assert.Equal(t, string(domain.IntensityHigh), workouts[0].Metadata[domain.MetadataKeyIntensity])
}

func TestWriteFailurePropagates(t *testing.T) {
	ctx := context.Background()

	mem := platform.NewMemory()
	writer := newTestWriter(t, mem)
	mem.SaveErr = assert.AnError

	err := writer.Write(ctx, registry.CategoryDietaryEnergy, 2200, time.Now().UTC(), nil)
	require.ErrorIs(t, err, domain.ErrWriteFailed)
}

func TestDeleteRequiresWriteAuthorization(t *testing.T) {
	ctx := context.Background()

	mem := platform.NewMemory()
	writer := newTestWriter(t, mem)
	mem.SetAuthStatus(registry.CategoryBodyWeight, platform.AuthStatusDenied)

	err := writer.Delete(ctx, domain.ExternalSample{Category: registry.CategoryBodyWeight, ExternalID: "abc"})

	var notAuthorized domain.NotAuthorizedError
	require.ErrorAs(t, err, &notAuthorized)
	assert.Zero(t, mem.DeleteCalls)
}
