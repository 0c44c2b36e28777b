// Package adapter translates between the platform's native sample shapes and
// the engine's normalized domain model. All unit math lives here.
package adapter

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"example.com/healthsync/internal/authz"
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/platform"
	"example.com/healthsync/internal/registry"
)

// Sleep sessions cross midnight in both directions, so the summary query
// widens the calendar day by 12 hours before and 12 hours after.
const (
	sleepWindowBefore = 12 * time.Hour
	sleepWindowAfter  = 36 * time.Hour
)

// ReadOption configures optional reader behaviour.
type ReadOption func(*Reader)

// WithReadLogger overrides the reader's logger.
func WithReadLogger(logger *log.Logger) ReadOption {
	return func(r *Reader) {
		r.logger = logger
	}
}

// Reader queries the platform and produces normalized samples.
type Reader struct {
	client  platform.Client
	gateway *authz.Gateway
	logger  *log.Logger
}

// NewReader constructs a Reader over the shared platform handle.
func NewReader(client platform.Client, gateway *authz.Gateway, opts ...ReadOption) *Reader {
	r := &Reader{
		client:  client,
		gateway: gateway,
		logger:  log.New(log.Writer(), "[reader] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FetchSamples runs a windowed query for one category. A limit of zero means
// unbounded. Samples the adapter cannot normalize are logged and skipped;
// they never fail the fetch.
func (r *Reader) FetchSamples(ctx context.Context, category registry.Category, from, to time.Time, order platform.SortOrder, limit int) ([]domain.ExternalSample, error) {
	if err := r.gateway.EnsureAvailable(ctx); err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, domain.ErrInvalidRange
	}

	native, err := r.client.QuerySamples(ctx, platform.QuerySpec{
		Category: category,
		Start:    from,
		End:      to,
		Order:    order,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQueryFailed, err)
	}

	out := make([]domain.ExternalSample, 0, len(native))
	for _, sample := range native {
		normalized, err := r.normalize(sample)
		if err != nil {
			r.logger.Printf("skipping sample %s: %v", sample.ID, err)
			continue
		}
		out = append(out, normalized)
	}
	return out, nil
}

// FetchLatest returns the newest sample for the category, or nil when the
// platform holds no data at all.
func (r *Reader) FetchLatest(ctx context.Context, category registry.Category) (*domain.ExternalSample, error) {
	samples, err := r.FetchSamples(ctx, category, time.Time{}, time.Now().UTC(), platform.OrderNewestFirst, 1)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, nil
	}
	return &samples[0], nil
}

// FetchAggregate computes a sum or average over an additive category. The
// result is nil when no samples contribute to the window; callers must treat
// nil as "no data", not zero.
func (r *Reader) FetchAggregate(ctx context.Context, category registry.Category, from, to time.Time, op platform.AggregateOp) (*float64, error) {
	if err := r.gateway.EnsureAvailable(ctx); err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, domain.ErrInvalidRange
	}

	stats, err := r.client.Aggregate(ctx, category, from, to, op)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQueryFailed, err)
	}
	if stats == nil {
		return nil, nil
	}

	value, err := normalizeValue(category, stats.Value, stats.Unit)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// FetchSleepSummary aggregates one calendar day of sleep. Raw segments are
// filtered to asleep-like states before summation; nil is returned when no
// asleep-like segment survives the filter.
func (r *Reader) FetchSleepSummary(ctx context.Context, day time.Time) (*domain.SleepSummary, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	windowStart := dayStart.Add(-sleepWindowBefore)
	windowEnd := dayStart.Add(sleepWindowAfter)

	if err := r.gateway.EnsureAvailable(ctx); err != nil {
		return nil, err
	}

	native, err := r.client.QuerySamples(ctx, platform.QuerySpec{
		Category: registry.CategorySleep,
		Start:    windowStart,
		End:      windowEnd,
		Order:    platform.OrderOldestFirst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQueryFailed, err)
	}

	segments := make([]domain.SleepSegment, 0, len(native))
	for _, sample := range native {
		if !sample.SleepState.IsAsleep() {
			continue
		}
		segments = append(segments, domain.SleepSegment{Start: sample.Start, End: sample.End})
	}
	if len(segments) == 0 {
		return nil, nil
	}

	sort.Slice(segments, func(i, j int) bool { return segments[i].Start.Before(segments[j].Start) })

	var total float64
	for _, segment := range segments {
		total += segment.Minutes()
	}

	return &domain.SleepSummary{
		TotalAsleepMinutes: total,
		Segments:           segments,
		WindowStart:        windowStart,
		WindowEnd:          windowEnd,
	}, nil
}

// FetchWorkouts returns every workout session in the window mapped into the
// app's exercise taxonomy. A session without an energy figure imports with
// zero burned calories rather than failing the fetch.
func (r *Reader) FetchWorkouts(ctx context.Context, from, to time.Time) ([]domain.WorkoutSummary, error) {
	if err := r.gateway.EnsureAvailable(ctx); err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, domain.ErrInvalidRange
	}

	native, err := r.client.QueryWorkouts(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQueryFailed, err)
	}

	out := make([]domain.WorkoutSummary, 0, len(native))
	for _, workout := range native {
		var calories float64
		if workout.EnergyKcal != nil {
			calories = *workout.EnergyKcal
		}

		intensity := domain.IntensityModerate
		if tagged, ok := workout.Metadata[domain.MetadataKeyIntensity]; ok && tagged != "" {
			intensity = domain.Intensity(tagged)
		}

		out = append(out, domain.WorkoutSummary{
			ExerciseKind:    classifyActivity(workout.ActivityType),
			StartTime:       workout.Start,
			DurationMinutes: workout.End.Sub(workout.Start).Minutes(),
			CaloriesBurned:  calories,
			Intensity:       intensity,
			ExternalID:      workout.ID,
			SourceTag:       workout.SourceName,
		})
	}
	return out, nil
}

func (r *Reader) normalize(sample platform.NativeSample) (domain.ExternalSample, error) {
	end := sample.End
	if end.IsZero() {
		end = sample.Start
	}
	if end.Before(sample.Start) {
		return domain.ExternalSample{}, fmt.Errorf("%w: sample ends before it starts", domain.ErrMappingFailed)
	}

	value, err := normalizeValue(sample.Category, sample.Value, sample.Unit)
	if err != nil {
		return domain.ExternalSample{}, err
	}

	return domain.ExternalSample{
		Category:   sample.Category,
		Value:      value,
		StartTime:  sample.Start,
		EndTime:    end,
		ExternalID: sample.ID,
		SourceTag:  sample.SourceName,
	}, nil
}
