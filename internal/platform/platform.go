// Package platform declares the capability surface the engine expects from
// the device-owned health-data repository, in the platform's native shapes.
// Everything above this boundary works with normalized domain values; the
// read/write adapters own the translation.
package platform

import (
	"context"
	"time"

	"example.com/healthsync/internal/registry"
)

// AuthStatus is the platform-reported write authorization state for one
// category. Read denial is not observable by platform design.
type AuthStatus string

const (
	AuthStatusNotDetermined AuthStatus = "not_determined"
	AuthStatusDenied        AuthStatus = "denied"
	AuthStatusGranted       AuthStatus = "granted"
)

// SortOrder selects result ordering for windowed queries.
type SortOrder string

const (
	OrderNewestFirst SortOrder = "newest_first"
	OrderOldestFirst SortOrder = "oldest_first"
)

// Unit is a platform-native unit identifier. The platform reports
// percentages as 0-1 fractions.
type Unit string

const (
	UnitKilogram    Unit = "kg"
	UnitGram        Unit = "g"
	UnitPound       Unit = "lb"
	UnitFraction    Unit = "fraction"
	UnitPercent     Unit = "percent"
	UnitKilocalorie Unit = "kcal"
	UnitKilojoule   Unit = "kJ"
	UnitCount       Unit = "count"
	UnitMinute      Unit = "min"
	UnitSecond      Unit = "s"
	UnitHour        Unit = "h"
)

// SleepState is the platform's sleep-stage taxonomy.
type SleepState string

const (
	SleepStateInBed     SleepState = "in_bed"
	SleepStateAwake     SleepState = "awake"
	SleepStateAsleep    SleepState = "asleep"
	SleepStateAsleepREM SleepState = "asleep_rem"
	SleepStateCore      SleepState = "asleep_core"
	SleepStateDeep      SleepState = "asleep_deep"
)

// IsAsleep reports whether the state counts toward sleep duration. In-bed
// and awake intervals do not.
func (s SleepState) IsAsleep() bool {
	switch s {
	case SleepStateAsleep, SleepStateAsleepREM, SleepStateCore, SleepStateDeep:
		return true
	default:
		return false
	}
}

// NativeSample is a quantity or state sample as the platform stores it.
type NativeSample struct {
	ID         string
	Category   registry.Category
	Value      float64
	Unit       Unit
	Start      time.Time
	End        time.Time
	SourceName string
	SleepState SleepState
	Metadata   map[string]string
}

// NativeWorkout is a workout session in the platform's activity taxonomy.
// EnergyKcal is nil when the recording app supplied no energy figure.
type NativeWorkout struct {
	ID           string
	ActivityType string
	Start        time.Time
	End          time.Time
	EnergyKcal   *float64
	SourceName   string
	Metadata     map[string]string
}

// NativeStatistics is the platform's aggregate answer. The platform returns
// no statistics at all (nil) when zero samples contribute to the window.
type NativeStatistics struct {
	Value float64
	Unit  Unit
}

// QuerySpec describes one windowed sample query.
type QuerySpec struct {
	Category registry.Category
	Start    time.Time
	End      time.Time
	Order    SortOrder
	Limit    int
}

// AggregateOp selects the statistics operation.
type AggregateOp string

const (
	AggregateSum     AggregateOp = "sum"
	AggregateAverage AggregateOp = "average"
)

// Client is the single shared handle onto the platform. One instance is
// constructed at composition time and injected into the authorization
// gateway and both adapters.
type Client interface {
	IsAvailable(ctx context.Context) bool
	RequestAuthorization(ctx context.Context, read, write []registry.Category) error
	AuthorizationStatus(ctx context.Context, category registry.Category) (AuthStatus, error)

	QuerySamples(ctx context.Context, spec QuerySpec) ([]NativeSample, error)
	QueryWorkouts(ctx context.Context, start, end time.Time) ([]NativeWorkout, error)
	Aggregate(ctx context.Context, category registry.Category, start, end time.Time, op AggregateOp) (*NativeStatistics, error)

	SaveSamples(ctx context.Context, samples ...NativeSample) error
	DeleteSamples(ctx context.Context, samples ...NativeSample) error
	SaveWorkout(ctx context.Context, workout NativeWorkout) error

	EnableChangeDelivery(ctx context.Context, category registry.Category) error
	DisableChangeDelivery(ctx context.Context, category registry.Category) error
}
