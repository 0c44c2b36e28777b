// Package syncer coordinates bidirectional synchronization between the
// platform and the local data store: windowed imports fanned out per
// category, the persisted sync cursor, and the export paths used right after
// a local save.
package syncer

import (
	"context"
	"log"
	"sync"
	"time"

	"example.com/healthsync/internal/adapter"
	"example.com/healthsync/internal/authz"
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/persistence"
	"example.com/healthsync/internal/platform"
	"example.com/healthsync/internal/registry"
)

const (
	// CursorKey is the key-value slot holding the lastSyncAt scalar.
	CursorKey = "last_sync_at"

	// DefaultWindowDays is the full-sync window used when no cursor exists.
	DefaultWindowDays = 30
)

// State is the orchestrator's scheduling state.
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
)

// Option configures optional orchestrator behaviour.
type Option func(*Orchestrator)

// WithLogger overrides the orchestrator's logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// WithDefaultWindowDays overrides the default full-sync window.
func WithDefaultWindowDays(days int) Option {
	return func(o *Orchestrator) {
		if days > 0 {
			o.windowDays = days
		}
	}
}

// Orchestrator is the engine's coordinating state machine. A single sync
// operation is in flight at a time; overlapping requests are dropped, not
// queued, because rapid successive notifications are redundant by nature.
type Orchestrator struct {
	reader  *adapter.Reader
	writer  *adapter.Writer
	gateway *authz.Gateway
	records persistence.RecordStore
	cursor  persistence.CursorStore
	userID  string

	windowDays int
	clock      func() time.Time
	logger     *log.Logger

	mu    sync.Mutex
	state State
}

// New constructs an Orchestrator.
func New(reader *adapter.Reader, writer *adapter.Writer, gateway *authz.Gateway, records persistence.RecordStore, cursor persistence.CursorStore, userID string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		reader:     reader,
		writer:     writer,
		gateway:    gateway,
		records:    records,
		cursor:     cursor,
		userID:     userID,
		windowDays: DefaultWindowDays,
		clock:      func() time.Time { return time.Now().UTC() },
		logger:     log.New(log.Writer(), "[syncer] ", log.LstdFlags),
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State reports the current scheduling state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// FullSync re-imports the trailing window and always advances the cursor,
// regardless of per-category outcome. It is the recovery path from any stuck
// state. windowDays <= 0 selects the default window.
func (o *Orchestrator) FullSync(ctx context.Context, windowDays int) error {
	if windowDays <= 0 {
		windowDays = o.windowDays
	}
	from := o.clock().Add(-time.Duration(windowDays) * 24 * time.Hour)
	return o.runSync(ctx, from, registry.ReadableCategories())
}

// IncrementalSync imports from the persisted cursor. Without a cursor the
// call behaves as a full default-window sync. An empty scope means every
// readable category.
func (o *Orchestrator) IncrementalSync(ctx context.Context, scope ...registry.Category) error {
	if err := o.gateway.EnsureAvailable(ctx); err != nil {
		return err
	}

	last, err := o.cursor.Get(ctx, CursorKey)
	if err != nil {
		return err
	}

	from := o.clock().Add(-time.Duration(o.windowDays) * 24 * time.Hour)
	if last != nil {
		from = *last
	}
	return o.SyncSince(ctx, from, scope...)
}

// SyncSince imports every category in scope from the given point in time.
// Category tasks run concurrently and fail independently; the first
// collected error is returned only after every task has been attempted.
func (o *Orchestrator) SyncSince(ctx context.Context, from time.Time, scope ...registry.Category) error {
	if len(scope) == 0 {
		scope = registry.ReadableCategories()
	}
	return o.runSync(ctx, from, scope)
}

func (o *Orchestrator) runSync(ctx context.Context, from time.Time, scope []registry.Category) error {
	if err := o.gateway.EnsureAvailable(ctx); err != nil {
		return err
	}
	if err := o.begin(); err != nil {
		o.logger.Printf("sync request dropped: %v", err)
		return err
	}
	defer o.finish()

	started := o.clock()
	defer func() {
		syncDuration.Observe(o.clock().Sub(started).Seconds())
	}()

	to := o.clock()

	// Per-category tasks are independent: different categories, independent
	// platform queries. Errors are collected per slot so the first error in
	// scope order is the one surfaced.
	errs := make([]error, len(scope))
	var wg sync.WaitGroup
	for i, category := range scope {
		if !registry.IsReadable(category) {
			o.logger.Printf("skipping %s: not a readable category", category)
			continue
		}
		wg.Add(1)
		go func(slot int, category registry.Category) {
			defer wg.Done()
			if err := o.syncCategory(ctx, category, from, to); err != nil {
				o.logger.Printf("category %s sync failed: %v", category, err)
				categoryFailures.WithLabelValues(string(category)).Inc()
				errs[slot] = err
			}
		}(i, category)
	}
	wg.Wait()

	// The cursor advances after every attempt, success or partial failure;
	// idempotent import makes re-running an overlapping window safe. A
	// cursor write failure never outranks the first task error.
	var cursorErr error
	if err := o.advanceCursor(ctx, to); err != nil {
		o.logger.Printf("cursor update failed: %v", err)
		cursorErr = err
	}

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return cursorErr
}

// LastSyncAt returns the persisted cursor, nil when the engine has never
// synced.
func (o *Orchestrator) LastSyncAt(ctx context.Context) (*time.Time, error) {
	return o.cursor.Get(ctx, CursorKey)
}

// ClearLastSyncAt removes the cursor, forcing the next incremental sync to
// run the full default window.
func (o *Orchestrator) ClearLastSyncAt(ctx context.Context) error {
	return o.cursor.Remove(ctx, CursorKey)
}

// WorkoutExport is the domain payload for ExportWorkout.
type WorkoutExport struct {
	Kind            domain.ExerciseKind
	Start           time.Time
	DurationMinutes float64
	CaloriesKcal    float64
	Intensity       domain.Intensity
}

// ExportBodyComposition pushes a local weigh-in to the platform. Exporting
// is best-effort: when body-weight write authorization is missing the call
// succeeds without touching the platform.
func (o *Orchestrator) ExportBodyComposition(ctx context.Context, weightKg float64, bodyFatPct *float64, at time.Time) error {
	scope := []registry.Category{registry.CategoryBodyWeight}
	if bodyFatPct != nil {
		scope = append(scope, registry.CategoryBodyFat)
	}
	authorized, err := o.exportAuthorized(ctx, scope...)
	if err != nil || !authorized {
		return err
	}
	return o.writer.WriteBodyComposition(ctx, weightKg, bodyFatPct, at)
}

// ExportWorkout pushes a locally logged workout to the platform.
func (o *Orchestrator) ExportWorkout(ctx context.Context, export WorkoutExport) error {
	authorized, err := o.exportAuthorized(ctx, registry.CategoryWorkout)
	if err != nil || !authorized {
		return err
	}
	intensity := export.Intensity
	if intensity == "" {
		intensity = domain.IntensityModerate
	}
	return o.writer.WriteWorkout(ctx, export.Kind, export.Start, export.DurationMinutes, export.CaloriesKcal, intensity)
}

// ExportDietaryEnergy pushes logged food energy to the platform.
func (o *Orchestrator) ExportDietaryEnergy(ctx context.Context, kcal float64, at time.Time) error {
	authorized, err := o.exportAuthorized(ctx, registry.CategoryDietaryEnergy)
	if err != nil || !authorized {
		return err
	}
	return o.writer.Write(ctx, registry.CategoryDietaryEnergy, kcal, at, nil)
}

func (o *Orchestrator) exportAuthorized(ctx context.Context, categories ...registry.Category) (bool, error) {
	for _, category := range categories {
		status, err := o.gateway.WriteAuthorizationStatus(ctx, category)
		if err != nil {
			return false, err
		}
		if status != platform.AuthStatusGranted {
			o.logger.Printf("export of %s skipped: write authorization %s", category, status)
			return false, nil
		}
	}
	return true, nil
}

func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateSyncing {
		return domain.ErrSyncInProgress
	}
	o.state = StateSyncing
	return nil
}

func (o *Orchestrator) finish() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = StateIdle
}

// advanceCursor writes the as-of timestamp, never moving it backward.
func (o *Orchestrator) advanceCursor(ctx context.Context, to time.Time) error {
	existing, err := o.cursor.Get(ctx, CursorKey)
	if err != nil {
		return err
	}
	if existing != nil && existing.After(to) {
		return nil
	}
	if err := o.cursor.Set(ctx, CursorKey, to); err != nil {
		return err
	}
	lastSyncGauge.Set(float64(to.Unix()))
	return nil
}
