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

func newTestReader(t *testing.T, mem *platform.Memory) *Reader {
	t.Helper()
	gateway := authz.New(mem)
	return NewReader(mem, gateway, WithReadLogger(log.New(testWriter{t}, "", 0)))
}

func TestFetchSamplesNormalizesUnits(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.November, 3, 12, 0, 0, 0, time.UTC)

	mem := platform.NewMemory()
	mem.Seed(
		platform.NativeSample{Category: registry.CategoryBodyWeight, Value: 176.37, Unit: platform.UnitPound, Start: now.Add(-time.Hour)},
		platform.NativeSample{Category: registry.CategoryBodyWeight, Value: 80000, Unit: platform.UnitGram, Start: now.Add(-2 * time.Hour)},
		platform.NativeSample{Category: registry.CategoryBodyFat, Value: 0.234, Unit: platform.UnitFraction, Start: now.Add(-time.Hour)},
	)

	reader := newTestReader(t, mem)

	weights, err := reader.FetchSamples(ctx, registry.CategoryBodyWeight, now.Add(-24*time.Hour), now, platform.OrderOldestFirst, 0)
	require.NoError(t, err)
	require.Len(t, weights, 2)
	assert.InDelta(t, 80.0, weights[0].Value, 0.01)
	assert.InDelta(t, 80.0, weights[1].Value, 0.01)

	fats, err := reader.FetchSamples(ctx, registry.CategoryBodyFat, now.Add(-24*time.Hour), now, platform.OrderOldestFirst, 0)
	require.NoError(t, err)
	require.Len(t, fats, 1)
	assert.InDelta(t, 23.4, fats[0].Value, 0.01)
}

func TestFetchSamplesInvalidRange(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	reader := newTestReader(t, platform.NewMemory())

	_, err := reader.FetchSamples(ctx, registry.CategoryBodyWeight, now, now.Add(-time.Hour), platform.OrderNewestFirst, 0)
	require.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestFetchSamplesSkipsUnmappableSamples(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.November, 3, 12, 0, 0, 0, time.UTC)

	mem := platform.NewMemory()
	mem.Seed(
		platform.NativeSample{Category: registry.CategoryBodyWeight, Value: 80, Unit: platform.UnitKilogram, Start: now.Add(-time.Hour)},
		platform.NativeSample{Category: registry.CategoryBodyWeight, Value: 12, Unit: platform.Unit("stone"), Start: now.Add(-2 * time.Hour)},
	)

	reader := newTestReader(t, mem)

	samples, err := reader.FetchSamples(ctx, registry.CategoryBodyWeight, now.Add(-24*time.Hour), now, platform.OrderOldestFirst, 0)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.InDelta(t, 80.0, samples[0].Value, 0.001)
}

func TestFetchSamplesPlatformUnavailable(t *testing.T) {
	ctx := context.Background()

	mem := platform.NewMemory()
	mem.SetAvailable(false)
	reader := newTestReader(t, mem)

	_, err := reader.FetchSamples(ctx, registry.CategoryBodyWeight, time.Time{}, time.Now().UTC(), platform.OrderNewestFirst, 0)
	require.ErrorIs(t, err, domain.ErrPlatformUnavailable)
}

func TestFetchLatestReturnsNilWhenEmpty(t *testing.T) {
	ctx := context.Background()

	reader := newTestReader(t, platform.NewMemory())

	latest, err := reader.FetchLatest(ctx, registry.CategoryBodyWeight)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestFetchLatestPicksNewest(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.November, 3, 12, 0, 0, 0, time.UTC)

	mem := platform.NewMemory()
	mem.Seed(
		platform.NativeSample{Category: registry.CategoryBodyWeight, Value: 79, Unit: platform.UnitKilogram, Start: now.Add(-48 * time.Hour)},
		platform.NativeSample{Category: registry.CategoryBodyWeight, Value: 80.5, Unit: platform.UnitKilogram, Start: now.Add(-time.Hour)},
	)

	reader := newTestReader(t, mem)

	latest, err := reader.FetchLatest(ctx, registry.CategoryBodyWeight)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.InDelta(t, 80.5, latest.Value, 0.001)
}

func TestFetchAggregateDistinguishesNoData(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.November, 3, 12, 0, 0, 0, time.UTC)

	mem := platform.NewMemory()
	reader := newTestReader(t, mem)

	// No contributing samples: nil, not zero.
	total, err := reader.FetchAggregate(ctx, registry.CategoryStepCount, now.Add(-24*time.Hour), now, platform.AggregateSum)
	require.NoError(t, err)
	assert.Nil(t, total)

	mem.Seed(
		platform.NativeSample{Category: registry.CategoryStepCount, Value: 4000, Unit: platform.UnitCount, Start: now.Add(-3 * time.Hour)},
		platform.NativeSample{Category: registry.CategoryStepCount, Value: 2500, Unit: platform.UnitCount, Start: now.Add(-2 * time.Hour)},
	)

	total, err = reader.FetchAggregate(ctx, registry.CategoryStepCount, now.Add(-24*time.Hour), now, platform.AggregateSum)
	require.NoError(t, err)
	require.NotNil(t, total)
	assert.InDelta(t, 6500, *total, 0.001)
}

func TestFetchSleepSummaryFiltersAwakeStates(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)

	mem := platform.NewMemory()
	mem.Seed(
		platform.NativeSample{Category: registry.CategorySleep, SleepState: platform.SleepStateInBed, Start: day, End: day.Add(8 * time.Hour)},
		platform.NativeSample{Category: registry.CategorySleep, SleepState: platform.SleepStateAsleep, Start: day.Add(30 * time.Minute), End: day.Add(7 * time.Hour)},
		platform.NativeSample{Category: registry.CategorySleep, SleepState: platform.SleepStateAwake, Start: day.Add(7 * time.Hour), End: day.Add(7*time.Hour + 12*time.Minute)},
	)

	reader := newTestReader(t, mem)

	summary, err := reader.FetchSleepSummary(ctx, day)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.InDelta(t, 390, summary.TotalAsleepMinutes, 0.001)
	require.Len(t, summary.Segments, 1)
}

func TestFetchSleepSummaryCapturesCrossMidnightSessions(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)

	// Fell asleep at 23:00 the previous evening.
	mem := platform.NewMemory()
	mem.Seed(
		platform.NativeSample{Category: registry.CategorySleep, SleepState: platform.SleepStateCore, Start: day.Add(-time.Hour), End: day.Add(6 * time.Hour)},
	)

	reader := newTestReader(t, mem)

	summary, err := reader.FetchSleepSummary(ctx, day)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.InDelta(t, 420, summary.TotalAsleepMinutes, 0.001)
}

func TestFetchSleepSummaryNilWithoutAsleepSegments(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)

	mem := platform.NewMemory()
	mem.Seed(
		platform.NativeSample{Category: registry.CategorySleep, SleepState: platform.SleepStateInBed, Start: day, End: day.Add(time.Hour)},
	)

	reader := newTestReader(t, mem)

	summary, err := reader.FetchSleepSummary(ctx, day)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestFetchWorkoutsMapsSessions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.November, 3, 12, 0, 0, 0, time.UTC)

	energy := 320.0
	mem := platform.NewMemory()
	mem.SeedWorkouts(
		platform.NativeWorkout{ActivityType: "running", Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour), EnergyKcal: &energy, SourceName: "watch-app"},
		platform.NativeWorkout{ActivityType: "underwater_basket_weaving", Start: now.Add(-5 * time.Hour), End: now.Add(-4 * time.Hour)},
	)

	reader := newTestReader(t, mem)

	workouts, err := reader.FetchWorkouts(ctx, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, workouts, 2)

	assert.Equal(t, domain.ExerciseOther, workouts[0].ExerciseKind)
	// Sessions without an energy figure import with zero calories.
	assert.Zero(t, workouts[0].CaloriesBurned)

	assert.Equal(t, domain.ExerciseRunning, workouts[1].ExerciseKind)
	assert.InDelta(t, 320, workouts[1].CaloriesBurned, 0.001)
	assert.InDelta(t, 60, workouts[1].DurationMinutes, 0.001)
	assert.Equal(t, domain.IntensityModerate, workouts[1].Intensity)
}

type testWriter struct {
	t *testing.T
}

func (tw testWriter) Write(p []byte) (int, error) {
	tw.t.Log(string(p))
	return len(p), nil
}
