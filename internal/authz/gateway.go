// Package authz gates every platform interaction behind availability and
// consent checks. It owns no sync logic.
package authz

import (
	"context"
	"fmt"
	"sync"

	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/platform"
	"example.com/healthsync/internal/registry"
)

// Gateway answers availability and authorization questions for the rest of
// the engine. The availability probe result is cached for the lifetime of
// the process; the platform cannot become available mid-session.
type Gateway struct {
	client platform.Client

	mu        sync.Mutex
	checked   bool
	available bool
}

// New constructs a Gateway over the shared platform handle.
func New(client platform.Client) *Gateway {
	return &Gateway{client: client}
}

// IsPlatformAvailable probes the platform once and caches the answer.
func (g *Gateway) IsPlatformAvailable(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.checked {
		g.available = g.client.IsAvailable(ctx)
		g.checked = true
	}
	return g.available
}

// EnsureAvailable fails fast with ErrPlatformUnavailable when the platform
// is absent. Adapters call this before every platform operation.
func (g *Gateway) EnsureAvailable(ctx context.Context) error {
	if !g.IsPlatformAvailable(ctx) {
		return domain.ErrPlatformUnavailable
	}
	return nil
}

// RequestAuthorization issues one consent prompt covering the registry's
// full read set and full write set. Per-category read denial is not
// observable afterwards; only write status can be queried.
func (g *Gateway) RequestAuthorization(ctx context.Context) error {
	if err := g.EnsureAvailable(ctx); err != nil {
		return err
	}
	if err := g.client.RequestAuthorization(ctx, registry.ReadableCategories(), registry.WritableCategories()); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAuthorizationFailed, err)
	}
	return nil
}

// WriteAuthorizationStatus reports the platform's write consent state for
// one category.
func (g *Gateway) WriteAuthorizationStatus(ctx context.Context, category registry.Category) (platform.AuthStatus, error) {
	if err := g.EnsureAvailable(ctx); err != nil {
		return platform.AuthStatusNotDetermined, err
	}
	return g.client.AuthorizationStatus(ctx, category)
}

// IsFullyWriteAuthorized is true only when every writable category in the
// registry is granted.
func (g *Gateway) IsFullyWriteAuthorized(ctx context.Context) (bool, error) {
	for _, category := range registry.WritableCategories() {
		status, err := g.WriteAuthorizationStatus(ctx, category)
		if err != nil {
			return false, err
		}
		if status != platform.AuthStatusGranted {
			return false, nil
		}
	}
	return true, nil
}
