// Package domain defines the normalized data model shared by the sync engine.
package domain

import (
	"time"

	"example.com/healthsync/internal/registry"
)

// Metadata keys stamped onto every sample the engine writes to the platform.
// The origin tag is how the engine later recognises self-authored samples.
const (
	MetadataKeyOrigin        = "origin"
	MetadataKeySchemaVersion = "schema_version"
	MetadataKeyIntensity     = "intensity"

	OriginTag     = "healthsync-engine"
	SchemaVersion = "v1"
)

// ExternalSample is a normalized read result produced by the read adapter.
// Values are expressed in the category's canonical unit: mass in kg,
// percentage in 0-100, energy in kcal, count as a whole number, duration in
// minutes.
type ExternalSample struct {
	Category   registry.Category
	Value      float64
	StartTime  time.Time
	EndTime    time.Time
	ExternalID string
	SourceTag  string
}

// OutboundSample is a value the engine is about to write to the platform.
type OutboundSample struct {
	Category  registry.Category
	Value     float64
	Timestamp time.Time
	Metadata  map[string]string
}

// NewOutboundSample builds an OutboundSample carrying the engine-identity and
// schema-version metadata tags. Extra metadata entries never override the
// engine tags.
func NewOutboundSample(category registry.Category, value float64, at time.Time, extra map[string]string) OutboundSample {
	metadata := make(map[string]string, len(extra)+2)
	for k, v := range extra {
		metadata[k] = v
	}
	metadata[MetadataKeyOrigin] = OriginTag
	metadata[MetadataKeySchemaVersion] = SchemaVersion
	return OutboundSample{
		Category:  category,
		Value:     value,
		Timestamp: at,
		Metadata:  metadata,
	}
}

// ExerciseKind is the app's closed set of workout classifications.
type ExerciseKind string

const (
	ExerciseRunning  ExerciseKind = "running"
	ExerciseWalking  ExerciseKind = "walking"
	ExerciseCycling  ExerciseKind = "cycling"
	ExerciseSwimming ExerciseKind = "swimming"
	ExerciseStrength ExerciseKind = "strength_training"
	ExerciseYoga     ExerciseKind = "yoga"
	ExerciseOther    ExerciseKind = "other"
)

// Intensity grades a workout. The platform has no native intensity concept,
// so imports default to moderate unless the producing app tagged one.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

// WorkoutSummary is one fetched workout session mapped into the app's
// taxonomy. Consumed once by the workout sync task, never cached.
type WorkoutSummary struct {
	ExerciseKind    ExerciseKind
	StartTime       time.Time
	DurationMinutes float64
	CaloriesBurned  float64
	Intensity       Intensity
	ExternalID      string
	SourceTag       string
}

// SleepSegment is one asleep-like interval surviving the state filter.
type SleepSegment struct {
	Start time.Time
	End   time.Time
}

// Minutes returns the segment length in minutes.
func (s SleepSegment) Minutes() float64 {
	return s.End.Sub(s.Start).Minutes()
}

// SleepSummary aggregates the asleep-like segments of one calendar day.
// In-bed and awake intervals are excluded before summation.
type SleepSummary struct {
	TotalAsleepMinutes float64
	Segments           []SleepSegment
	WindowStart        time.Time
	WindowEnd          time.Time
}
