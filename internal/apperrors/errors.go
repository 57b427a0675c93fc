package apperrors

import (
	"errors"
	"fmt"
)

// Sentinels for the failure modes the resilience layer can surface.
// Callers match with errors.Is; wrappers below attach detail.
var (
	ErrInvalidCoordinate            = errors.New("invalid coordinate")
	ErrNoConnectivityNoCache        = errors.New("no connectivity and no cached data")
	ErrNotificationPermissionDenied = errors.New("notification permission denied")
	ErrStorageReadWrite             = errors.New("storage read/write failure")
	ErrSchedulingBackend            = errors.New("scheduling backend failure")
)

// InvalidCoordinateError names which coordinate failed validation and why.
type InvalidCoordinateError struct {
	Which  string // "origin" or "destination"
	Reason string
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid %s coordinate: %s", e.Which, e.Reason)
}

func (e *InvalidCoordinateError) Unwrap() error { return ErrInvalidCoordinate }

// NoConnectivityNoCacheError carries the feature-specific message shown to
// the user when neither the network nor the cache can serve a request.
type NoConnectivityNoCacheError struct {
	Feature string
	Message string
}

func (e *NoConnectivityNoCacheError) Error() string {
	return fmt.Sprintf("%s: %s", e.Feature, e.Message)
}

func (e *NoConnectivityNoCacheError) Unwrap() error { return ErrNoConnectivityNoCache }

// StorageFailure wraps an underlying cache/db error so callers can still
// match ErrStorageReadWrite.
func StorageFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageReadWrite, op, err)
}

// SchedulingFailure wraps a notification-backend error.
func SchedulingFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSchedulingBackend, op, err)
}
