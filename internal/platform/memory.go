package platform

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/healthsync/internal/registry"
)

// Memory is an in-process Client used for local development and tests. It
// assigns stable identifiers on save and tracks call counts so tests can
// assert on platform traffic.
type Memory struct {
	mu        sync.RWMutex
	available bool
	status    map[registry.Category]AuthStatus
	samples   map[registry.Category][]NativeSample
	workouts  []NativeWorkout
	delivery  map[registry.Category]bool

	// Failure injection.
	QueryErr     error
	SaveErr      error
	DeleteErr    error
	AuthErr      error
	EnableErrors map[registry.Category]error

	// Call counters.
	QueryCalls  int
	SaveCalls   int
	DeleteCalls int
}

// NewMemory constructs an available in-memory platform with every category
// at not-determined authorization.
func NewMemory() *Memory {
	m := &Memory{
		available: true,
		status:    make(map[registry.Category]AuthStatus),
		samples:   make(map[registry.Category][]NativeSample),
		delivery:  make(map[registry.Category]bool),
	}
	for _, c := range registry.Categories() {
		m.status[c] = AuthStatusNotDetermined
	}
	return m
}

// SetAvailable toggles the availability flag.
func (m *Memory) SetAvailable(available bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
}

// SetAuthStatus forces the write authorization state for a category.
func (m *Memory) SetAuthStatus(category registry.Category, status AuthStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status[category] = status
}

// Seed inserts samples directly, bypassing authorization, for test setup.
func (m *Memory) Seed(samples ...NativeSample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range samples {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		m.samples[s.Category] = append(m.samples[s.Category], s)
	}
}

// SeedWorkouts inserts workout sessions directly for test setup.
func (m *Memory) SeedWorkouts(workouts ...NativeWorkout) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range workouts {
		if w.ID == "" {
			w.ID = uuid.NewString()
		}
		m.workouts = append(m.workouts, w)
	}
}

// DeliveryEnabled reports whether change delivery is on for the category.
func (m *Memory) DeliveryEnabled(category registry.Category) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.delivery[category]
}

// IsAvailable implements Client.
func (m *Memory) IsAvailable(context.Context) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.available
}

// RequestAuthorization grants write authorization for the requested write
// set unless a failure is injected. Read consent leaves no observable state,
// mirroring the real platform.
func (m *Memory) RequestAuthorization(_ context.Context, _, write []registry.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AuthErr != nil {
		return m.AuthErr
	}
	for _, c := range write {
		if m.status[c] == AuthStatusNotDetermined {
			m.status[c] = AuthStatusGranted
		}
	}
	return nil
}

// AuthorizationStatus implements Client.
func (m *Memory) AuthorizationStatus(_ context.Context, category registry.Category) (AuthStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status, ok := m.status[category]
	if !ok {
		return AuthStatusNotDetermined, nil
	}
	return status, nil
}

// QuerySamples implements Client.
func (m *Memory) QuerySamples(_ context.Context, spec QuerySpec) ([]NativeSample, error) {
	m.mu.Lock()
	m.QueryCalls++
	err := m.QueryErr
	stored := append([]NativeSample(nil), m.samples[spec.Category]...)
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}

	out := make([]NativeSample, 0, len(stored))
	for _, s := range stored {
		if s.Start.Before(spec.Start) || s.Start.After(spec.End) {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if spec.Order == OrderNewestFirst {
			return out[i].Start.After(out[j].Start)
		}
		return out[i].Start.Before(out[j].Start)
	})

	if spec.Limit > 0 && len(out) > spec.Limit {
		out = out[:spec.Limit]
	}
	return out, nil
}

// QueryWorkouts implements Client.
func (m *Memory) QueryWorkouts(_ context.Context, start, end time.Time) ([]NativeWorkout, error) {
	m.mu.Lock()
	m.QueryCalls++
	err := m.QueryErr
	stored := append([]NativeWorkout(nil), m.workouts...)
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}

	out := make([]NativeWorkout, 0, len(stored))
	for _, w := range stored {
		if w.Start.Before(start) || w.Start.After(end) {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// Aggregate implements Client. It returns nil when no samples contribute,
// so callers can distinguish "no data" from an actual zero.
func (m *Memory) Aggregate(ctx context.Context, category registry.Category, start, end time.Time, op AggregateOp) (*NativeStatistics, error) {
	matched, err := m.QuerySamples(ctx, QuerySpec{Category: category, Start: start, End: end, Order: OrderOldestFirst})
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, nil
	}

	var sum float64
	for _, s := range matched {
		sum += s.Value
	}
	stats := &NativeStatistics{Value: sum, Unit: matched[0].Unit}
	if op == AggregateAverage {
		stats.Value = sum / float64(len(matched))
	}
	return stats, nil
}

// SaveSamples implements Client, assigning an identifier per sample.
func (m *Memory) SaveSamples(_ context.Context, samples ...NativeSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	for _, s := range samples {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		m.samples[s.Category] = append(m.samples[s.Category], s)
	}
	return nil
}

// DeleteSamples implements Client, matching by identifier.
func (m *Memory) DeleteSamples(_ context.Context, samples ...NativeSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for _, victim := range samples {
		stored := m.samples[victim.Category]
		kept := stored[:0]
		for _, s := range stored {
			if s.ID != victim.ID {
				kept = append(kept, s)
			}
		}
		m.samples[victim.Category] = kept
	}
	return nil
}

// SaveWorkout implements Client.
func (m *Memory) SaveWorkout(_ context.Context, workout NativeWorkout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if workout.ID == "" {
		workout.ID = uuid.NewString()
	}
	m.workouts = append(m.workouts, workout)
	return nil
}

// EnableChangeDelivery implements Client.
func (m *Memory) EnableChangeDelivery(_ context.Context, category registry.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.EnableErrors[category]; err != nil {
		return err
	}
	m.delivery[category] = true
	return nil
}

// DisableChangeDelivery implements Client.
func (m *Memory) DisableChangeDelivery(_ context.Context, category registry.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delivery[category] = false
	return nil
}
