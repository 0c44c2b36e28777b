package api

import (
	"errors"
	"time"
)

// FullSyncRequest is the optional payload for POST /v1/sync/full. A zero
// window selects the engine default.
type FullSyncRequest struct {
	WindowDays int `json:"window_days"`
}

// SyncResponse acknowledges a sync or export request.
type SyncResponse struct {
	Status string `json:"status"`
}

// SyncStatusResponse reports the orchestrator state and cursor.
type SyncStatusResponse struct {
	State      string     `json:"state"`
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`
}

// BodyCompositionRequest is the payload for POST /v1/export/body-composition.
type BodyCompositionRequest struct {
	WeightKg   float64   `json:"weight_kg"`
	BodyFatPct *float64  `json:"body_fat_pct,omitempty"`
	MeasuredAt time.Time `json:"measured_at"`
}

// Validate ensures request correctness.
func (r BodyCompositionRequest) Validate() error {
	if r.WeightKg <= 0 {
		return errors.New("weight_kg must be > 0")
	}
	if r.BodyFatPct != nil && (*r.BodyFatPct < 0 || *r.BodyFatPct > 100) {
		return errors.New("body_fat_pct must be within 0-100")
	}
	if r.MeasuredAt.IsZero() {
		return errors.New("measured_at is required")
	}
	return nil
}

// WorkoutRequest is the payload for POST /v1/export/workout.
type WorkoutRequest struct {
	Kind            string    `json:"kind"`
	StartedAt       time.Time `json:"started_at"`
	DurationMinutes float64   `json:"duration_minutes"`
	CaloriesKcal    float64   `json:"calories_kcal"`
	Intensity       string    `json:"intensity,omitempty"`
}

// Validate ensures request correctness.
func (r WorkoutRequest) Validate() error {
	if r.Kind == "" {
		return errors.New("kind is required")
	}
	if r.StartedAt.IsZero() {
		return errors.New("started_at is required")
	}
	if r.DurationMinutes <= 0 {
		return errors.New("duration_minutes must be > 0")
	}
	if r.CaloriesKcal < 0 {
		return errors.New("calories_kcal must be >= 0")
	}
	return nil
}

// DietaryEnergyRequest is the payload for POST /v1/export/dietary-energy.
type DietaryEnergyRequest struct {
	CaloriesKcal float64   `json:"calories_kcal"`
	ConsumedAt   time.Time `json:"consumed_at"`
}

// Validate ensures request correctness.
func (r DietaryEnergyRequest) Validate() error {
	if r.CaloriesKcal <= 0 {
		return errors.New("calories_kcal must be > 0")
	}
	if r.ConsumedAt.IsZero() {
		return errors.New("consumed_at is required")
	}
	return nil
}
