package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling in the
// handler layer without per-error switch growth.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrProfileNotFound aborts a snapshot build: a snapshot without a
	// profile row is meaningless.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrStoreUnavailable wraps any transport-level failure against the
	// record store. Retryable by re-invoking the whole operation.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrInvalidSnapshotFormat means the validator rejected the candidate
	// document before any write was attempted.
	ErrInvalidSnapshotFormat = errors.New("invalid snapshot format")

	// ErrOwnerMismatch means the snapshot's owner_id does not match the
	// acting account. Security boundary: rejected before any write.
	ErrOwnerMismatch = errors.New("snapshot owner does not match acting account")
)

// RestoreFailedError is raised when every restore phase failed. Callers must
// treat it as a total failure, distinct from a partial one.
type RestoreFailedError struct {
	Errors []string
}

func (e *RestoreFailedError) Error() string {
	return fmt.Sprintf("restore failed completely: %s", strings.Join(e.Errors, "; "))
}

func (e *RestoreFailedError) StatusCode() int { return http.StatusBadGateway }

// ConflictError represents a resource conflict with details about the
// existing resource.
type ConflictError struct {
	Message      string
	ResourceType string
	ResourceID   string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
