package syncer

import (
	"context"
	"fmt"
	"time"

	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/persistence"
	"example.com/healthsync/internal/platform"
	"example.com/healthsync/internal/registry"
)

// syncCategory runs the import task for one category. Each task reads from
// the platform and hands normalized results to the local record store; the
// external ID is checked first so re-delivered samples import exactly once.
func (o *Orchestrator) syncCategory(ctx context.Context, category registry.Category, from, to time.Time) error {
	switch category {
	case registry.CategoryBodyWeight, registry.CategoryBodyFat:
		return o.importQuantitySamples(ctx, category, from, to)
	case registry.CategoryWorkout:
		return o.importWorkouts(ctx, from, to)
	case registry.CategorySleep:
		return o.importSleep(ctx, from, to)
	case registry.CategoryActiveEnergy, registry.CategoryStepCount:
		return o.importDailyAggregates(ctx, category, from, to)
	default:
		return fmt.Errorf("no sync task for category %s", category)
	}
}

func (o *Orchestrator) importQuantitySamples(ctx context.Context, category registry.Category, from, to time.Time) error {
	samples, err := o.reader.FetchSamples(ctx, category, from, to, platform.OrderOldestFirst, 0)
	if err != nil {
		return err
	}

	for _, sample := range samples {
		// Samples the engine wrote itself round-trip back through the read
		// path; importing them again would shadow the local original.
		if sample.SourceTag == domain.OriginTag {
			selfAuthoredSkipped.WithLabelValues(string(category)).Inc()
			continue
		}

		if err := o.importRecord(ctx, persistence.ImportedRecord{
			UserID:     o.userID,
			Category:   category,
			ExternalID: sample.ExternalID,
			Value:      sample.Value,
			StartTime:  sample.StartTime,
			EndTime:    sample.EndTime,
			SourceTag:  sample.SourceTag,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) importWorkouts(ctx context.Context, from, to time.Time) error {
	workouts, err := o.reader.FetchWorkouts(ctx, from, to)
	if err != nil {
		return err
	}

	for _, workout := range workouts {
		if workout.SourceTag == domain.OriginTag {
			selfAuthoredSkipped.WithLabelValues(string(registry.CategoryWorkout)).Inc()
			continue
		}

		if err := o.importRecord(ctx, persistence.ImportedRecord{
			UserID:     o.userID,
			Category:   registry.CategoryWorkout,
			ExternalID: workout.ExternalID,
			Value:      workout.CaloriesBurned,
			Kind:       string(workout.ExerciseKind),
			StartTime:  workout.StartTime,
			EndTime:    workout.StartTime.Add(time.Duration(workout.DurationMinutes * float64(time.Minute))),
			SourceTag:  workout.SourceTag,
		}); err != nil {
			return err
		}
	}
	return nil
}

// importSleep aggregates per calendar day. Sleep summaries have no single
// platform identifier, so the day itself keys de-duplication.
func (o *Orchestrator) importSleep(ctx context.Context, from, to time.Time) error {
	for _, day := range daysBetween(from, to) {
		summary, err := o.reader.FetchSleepSummary(ctx, day)
		if err != nil {
			return err
		}
		if summary == nil {
			continue
		}

		first := summary.Segments[0]
		last := summary.Segments[len(summary.Segments)-1]
		if err := o.importRecord(ctx, persistence.ImportedRecord{
			UserID:     o.userID,
			Category:   registry.CategorySleep,
			ExternalID: dailyExternalID(registry.CategorySleep, day),
			Value:      summary.TotalAsleepMinutes,
			StartTime:  first.Start,
			EndTime:    last.End,
		}); err != nil {
			return err
		}
	}
	return nil
}

// importDailyAggregates imports additive categories as one record per day.
// A nil aggregate means the platform holds no data for that day; that is not
// the same as zero and produces no record.
func (o *Orchestrator) importDailyAggregates(ctx context.Context, category registry.Category, from, to time.Time) error {
	for _, day := range daysBetween(from, to) {
		dayEnd := day.Add(24*time.Hour - time.Nanosecond)
		total, err := o.reader.FetchAggregate(ctx, category, day, dayEnd, platform.AggregateSum)
		if err != nil {
			return err
		}
		if total == nil {
			continue
		}

		if err := o.importRecord(ctx, persistence.ImportedRecord{
			UserID:     o.userID,
			Category:   category,
			ExternalID: dailyExternalID(category, day),
			Value:      *total,
			StartTime:  day,
			EndTime:    dayEnd,
		}); err != nil {
			return err
		}
	}
	return nil
}

// importRecord persists one normalized sample unless its external ID was
// imported before. A match means skip, never overwrite.
func (o *Orchestrator) importRecord(ctx context.Context, record persistence.ImportedRecord) error {
	existing, err := o.records.FindByExternalID(ctx, record.UserID, record.ExternalID)
	if err != nil {
		return err
	}
	if existing != nil {
		duplicatesSkipped.WithLabelValues(string(record.Category)).Inc()
		return nil
	}

	if err := o.records.Create(ctx, record); err != nil {
		return err
	}
	samplesImported.WithLabelValues(string(record.Category)).Inc()
	return nil
}

func dailyExternalID(category registry.Category, day time.Time) string {
	return fmt.Sprintf("%s:%s", category, day.UTC().Format("2006-01-02"))
}

// daysBetween lists the UTC day starts touched by the window, oldest first.
func daysBetween(from, to time.Time) []time.Time {
	if from.After(to) {
		return nil
	}
	start := from.UTC().Truncate(24 * time.Hour)
	end := to.UTC().Truncate(24 * time.Hour)

	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for day := start; !day.After(end); day = day.Add(24 * time.Hour) {
		days = append(days, day)
	}
	return days
}
