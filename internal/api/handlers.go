// Package api exposes the HTTP control surface for the sync engine.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"example.com/healthsync/internal/auth"
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/registry"
	"example.com/healthsync/internal/syncer"
)

// SyncService is the orchestrator surface the handlers drive.
type SyncService interface {
	FullSync(ctx context.Context, windowDays int) error
	IncrementalSync(ctx context.Context, scope ...registry.Category) error
	State() syncer.State
	LastSyncAt(ctx context.Context) (*time.Time, error)
	ClearLastSyncAt(ctx context.Context) error
	ExportBodyComposition(ctx context.Context, weightKg float64, bodyFatPct *float64, at time.Time) error
	ExportWorkout(ctx context.Context, export syncer.WorkoutExport) error
	ExportDietaryEnergy(ctx context.Context, kcal float64, at time.Time) error
}

// Handler coordinates HTTP requests with the sync orchestrator.
type Handler struct {
	service SyncService
}

// NewHandler builds a Handler.
func NewHandler(service SyncService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/sync/full", h.fullSync)
	mux.HandleFunc("/v1/sync/incremental", h.incrementalSync)
	mux.HandleFunc("/v1/sync/status", h.syncStatus)
	mux.HandleFunc("/v1/sync/cursor", h.syncCursor)
	mux.HandleFunc("/v1/export/body-composition", h.exportBodyComposition)
	mux.HandleFunc("/v1/export/workout", h.exportWorkout)
	mux.HandleFunc("/v1/export/dietary-energy", h.exportDietaryEnergy)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) fullSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeSyncRun) {
		return
	}

	var req FullSyncRequest
	// Chunked requests carry ContentLength -1, so presence of a body is
	// detected by decoding; an empty body reads as io.EOF and keeps the
	// defaults.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if req.WindowDays < 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "window_days must be >= 0")
		return
	}

	h.runSync(w, r, func() error {
		return h.service.FullSync(r.Context(), req.WindowDays)
	})
}

func (h *Handler) incrementalSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeSyncRun) {
		return
	}

	scope, ok := parseScope(w, r)
	if !ok {
		return
	}

	h.runSync(w, r, func() error {
		return h.service.IncrementalSync(r.Context(), scope...)
	})
}

func (h *Handler) runSync(w http.ResponseWriter, r *http.Request, run func() error) {
	if err := run(); err != nil {
		switch {
		case errors.Is(err, domain.ErrSyncInProgress):
			writeError(w, http.StatusConflict, "sync_in_progress", "a sync is already running")
		case errors.Is(err, domain.ErrPlatformUnavailable):
			writeError(w, http.StatusServiceUnavailable, "platform_unavailable", "health platform unavailable")
		default:
			// Partial failures surface here while successful categories
			// stay imported; the caller retries on the next trigger.
			writeError(w, http.StatusBadGateway, "sync_failed", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, SyncResponse{Status: "completed"})
}

func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeSyncRead, auth.ScopeSyncRun) {
		return
	}

	last, err := h.service.LastSyncAt(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SyncStatusResponse{
		State:      string(h.service.State()),
		LastSyncAt: last,
	})
}

func (h *Handler) syncCursor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeSyncRun) {
		return
	}

	if err := h.service.ClearLastSyncAt(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportBodyComposition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeExportWrite) {
		return
	}

	var req BodyCompositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	h.runExport(w, func() error {
		return h.service.ExportBodyComposition(r.Context(), req.WeightKg, req.BodyFatPct, req.MeasuredAt)
	})
}

func (h *Handler) exportWorkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeExportWrite) {
		return
	}

	var req WorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	h.runExport(w, func() error {
		return h.service.ExportWorkout(r.Context(), syncer.WorkoutExport{
			Kind:            domain.ExerciseKind(req.Kind),
			Start:           req.StartedAt,
			DurationMinutes: req.DurationMinutes,
			CaloriesKcal:    req.CaloriesKcal,
			Intensity:       domain.Intensity(req.Intensity),
		})
	})
}

func (h *Handler) exportDietaryEnergy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeExportWrite) {
		return
	}

	var req DietaryEnergyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	h.runExport(w, func() error {
		return h.service.ExportDietaryEnergy(r.Context(), req.CaloriesKcal, req.ConsumedAt)
	})
}

func (h *Handler) runExport(w http.ResponseWriter, run func() error) {
	if err := run(); err != nil {
		switch {
		case errors.Is(err, domain.ErrPlatformUnavailable):
			writeError(w, http.StatusServiceUnavailable, "platform_unavailable", "health platform unavailable")
		default:
			writeError(w, http.StatusBadGateway, "export_failed", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusAccepted, SyncResponse{Status: "accepted"})
}

// parseScope reads the optional comma-separated categories query parameter.
func parseScope(w http.ResponseWriter, r *http.Request) ([]registry.Category, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("categories"))
	if raw == "" {
		return nil, true
	}

	out := make([]registry.Category, 0)
	for _, part := range strings.Split(raw, ",") {
		category := registry.Category(strings.TrimSpace(part))
		if !registry.IsKnown(category) {
			writeError(w, http.StatusBadRequest, "validation_failed", "unknown category "+string(category))
			return nil, false
		}
		out = append(out, category)
	}
	return out, true
}

func requireScope(w http.ResponseWriter, r *http.Request, scopes ...string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	for _, scope := range scopes {
		if claims.HasScope(scope) {
			return true
		}
	}
	writeError(w, http.StatusForbidden, "forbidden", "scope "+strings.Join(scopes, " or ")+" required")
	return false
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
