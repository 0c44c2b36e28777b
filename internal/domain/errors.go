package domain

import (
	"errors"
	"fmt"

	"example.com/healthsync/internal/registry"
)

var (
	// ErrPlatformUnavailable means the health platform is not present on
	// this device or host. Fatal for the session; callers must not retry.
	ErrPlatformUnavailable = errors.New("health platform unavailable")

	// ErrInvalidRange indicates a query window with start after end.
	ErrInvalidRange = errors.New("query range start is after end")

	// ErrSyncInProgress is returned when a sync request arrives while
	// another sync is running. The newer request is dropped, not queued.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrQueryFailed wraps transient platform-side read failures.
	ErrQueryFailed = errors.New("platform query failed")

	// ErrWriteFailed wraps transient platform-side write failures.
	ErrWriteFailed = errors.New("platform write failed")

	// ErrMappingFailed marks a platform-native sample the adapter could not
	// normalize. The single sample is skipped; the fetch continues.
	ErrMappingFailed = errors.New("unable to map platform sample")

	// ErrAuthorizationFailed wraps a platform error raised during the
	// consent prompt.
	ErrAuthorizationFailed = errors.New("platform authorization failed")
)

// NotAuthorizedError reports a write attempt against a category whose write
// authorization is not granted.
type NotAuthorizedError struct {
	Category registry.Category
}

func (e NotAuthorizedError) Error() string {
	return fmt.Sprintf("write to %s not authorized", e.Category)
}
