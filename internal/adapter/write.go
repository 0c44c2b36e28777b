package adapter

import (
	"context"
	"fmt"
	"log"
	"time"

	"example.com/healthsync/internal/authz"
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/observability"
	"example.com/healthsync/internal/platform"
	"example.com/healthsync/internal/registry"
)

// WriteOption configures optional writer behaviour.
type WriteOption func(*Writer)

// WithWriteLogger overrides the writer's logger.
func WithWriteLogger(logger *log.Logger) WriteOption {
	return func(w *Writer) {
		w.logger = logger
	}
}

// Writer converts domain values into native samples and persists them to the
// platform. Authorization is checked locally before every platform call; the
// writer never relies on the platform to reject an unauthorized write.
type Writer struct {
	client  platform.Client
	gateway *authz.Gateway
	logger  *log.Logger
}

// NewWriter constructs a Writer over the shared platform handle.
func NewWriter(client platform.Client, gateway *authz.Gateway, opts ...WriteOption) *Writer {
	w := &Writer{
		client:  client,
		gateway: gateway,
		logger:  log.New(log.Writer(), "[writer] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write persists one value to the platform, tagging it with the engine's
// provenance metadata.
func (w *Writer) Write(ctx context.Context, category registry.Category, value float64, at time.Time, metadata map[string]string) error {
	return w.WriteBatch(ctx, []domain.OutboundSample{domain.NewOutboundSample(category, value, at, metadata)})
}

// WriteBatch persists samples as one platform save. All-or-nothing: when any
// sample's category lacks write authorization the whole batch is rejected
// before a single write is attempted. An empty batch is a no-op success.
func (w *Writer) WriteBatch(ctx context.Context, samples []domain.OutboundSample) error {
	if len(samples) == 0 {
		return nil
	}
	if err := w.ensureAuthorized(ctx, sampleCategories(samples)); err != nil {
		return err
	}

	native := make([]platform.NativeSample, 0, len(samples))
	for _, sample := range samples {
		native = append(native, w.toNative(sample))
	}

	if err := w.client.SaveSamples(ctx, native...); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	observability.RecordExportWritten(time.Now().UTC())
	return nil
}

// Delete removes one previously read sample. The platform has no separate
// delete permission, so write authorization for the category is required.
func (w *Writer) Delete(ctx context.Context, sample domain.ExternalSample) error {
	return w.DeleteBatch(ctx, []domain.ExternalSample{sample})
}

// DeleteBatch mirrors WriteBatch semantics for deletions.
func (w *Writer) DeleteBatch(ctx context.Context, samples []domain.ExternalSample) error {
	if len(samples) == 0 {
		return nil
	}

	categories := make([]registry.Category, 0, len(samples))
	for _, sample := range samples {
		categories = append(categories, sample.Category)
	}
	if err := w.ensureAuthorized(ctx, categories); err != nil {
		return err
	}

	native := make([]platform.NativeSample, 0, len(samples))
	for _, sample := range samples {
		native = append(native, platform.NativeSample{ID: sample.ExternalID, Category: sample.Category})
	}

	if err := w.client.DeleteSamples(ctx, native...); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	return nil
}

// WriteBodyComposition records a weigh-in. Weight and optional body-fat
// share one timestamp and go out as a single batch, so the platform sees the
// weigh-in atomically.
func (w *Writer) WriteBodyComposition(ctx context.Context, weightKg float64, bodyFatPct *float64, at time.Time) error {
	samples := []domain.OutboundSample{
		domain.NewOutboundSample(registry.CategoryBodyWeight, weightKg, at, nil),
	}
	if bodyFatPct != nil {
		samples = append(samples, domain.NewOutboundSample(registry.CategoryBodyFat, *bodyFatPct, at, nil))
	}
	return w.WriteBatch(ctx, samples)
}

// WriteWorkout records one workout session. The platform has no native
// intensity field, so intensity travels in metadata.
func (w *Writer) WriteWorkout(ctx context.Context, kind domain.ExerciseKind, start time.Time, durationMinutes float64, caloriesKcal float64, intensity domain.Intensity) error {
	if err := w.ensureAuthorized(ctx, []registry.Category{registry.CategoryWorkout}); err != nil {
		return err
	}

	energy := caloriesKcal
	workout := platform.NativeWorkout{
		ActivityType: string(kind),
		Start:        start,
		End:          start.Add(time.Duration(durationMinutes * float64(time.Minute))),
		EnergyKcal:   &energy,
		SourceName:   domain.OriginTag,
		Metadata: map[string]string{
			domain.MetadataKeyOrigin:        domain.OriginTag,
			domain.MetadataKeySchemaVersion: domain.SchemaVersion,
			domain.MetadataKeyIntensity:     string(intensity),
		},
	}

	if err := w.client.SaveWorkout(ctx, workout); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)
	}
	observability.RecordExportWritten(time.Now().UTC())
	return nil
}

// ensureAuthorized rejects the call unless every category is granted.
func (w *Writer) ensureAuthorized(ctx context.Context, categories []registry.Category) error {
	if err := w.gateway.EnsureAvailable(ctx); err != nil {
		return err
	}
	seen := make(map[registry.Category]bool, len(categories))
	for _, category := range categories {
		if seen[category] {
			continue
		}
		seen[category] = true

		status, err := w.gateway.WriteAuthorizationStatus(ctx, category)
		if err != nil {
			return err
		}
		if status != platform.AuthStatusGranted {
			return domain.NotAuthorizedError{Category: category}
		}
	}
	return nil
}

func (w *Writer) toNative(sample domain.OutboundSample) platform.NativeSample {
	value, unit := denormalizeValue(sample.Category, sample.Value)
	metadata := make(map[string]string, len(sample.Metadata)+2)
	for k, v := range sample.Metadata {
		metadata[k] = v
	}
	// The engine-identity tag is stamped even for samples built outside
	// NewOutboundSample.
	metadata[domain.MetadataKeyOrigin] = domain.OriginTag
	if metadata[domain.MetadataKeySchemaVersion] == "" {
		metadata[domain.MetadataKeySchemaVersion] = domain.SchemaVersion
	}

	return platform.NativeSample{
		Category:   sample.Category,
		Value:      value,
		Unit:       unit,
		Start:      sample.Timestamp,
		End:        sample.Timestamp,
		SourceName: domain.OriginTag,
		Metadata:   metadata,
	}
}

func sampleCategories(samples []domain.OutboundSample) []registry.Category {
	out := make([]registry.Category, 0, len(samples))
	for _, sample := range samples {
		out = append(out, sample.Category)
	}
	return out
}
