// Package shared contains common domain types and errors used across
// all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation   = errors.New("validation error")
	ErrInvalidID    = errors.New("invalid ID")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyValue   = errors.New("value cannot be empty")
	ErrInvalidDate  = errors.New("invalid date")

	// Storage errors
	ErrStorageCorruption  = errors.New("stored record is corrupted")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Concurrency errors
	ErrConflict = errors.New("concurrent modification conflict")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "practice", "catalog", "leaderboard"
	Op      string // Operation that failed, e.g., "Append", "Load"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Practice domain errors
var (
	// ErrDuplicateEntry is returned when a problem is logged twice on the
	// same day. User-correctable; the first entry stands.
	ErrDuplicateEntry = NewDomainError("practice", "Append", ErrAlreadyExists, "problem already logged for this day")

	// ErrProblemNotFound is returned when an append references an id the
	// catalog does not know. User-correctable.
	ErrProblemNotFound = NewDomainError("practice", "Append", ErrNotFound, "problem not found in catalog")

	// ErrInvalidDateKey is returned for a malformed date bucket key.
	ErrInvalidDateKey = NewDomainError("practice", "Validate", ErrInvalidDate, "date must be YYYY-MM-DD")

	// ErrInvalidTimeTaken is returned for a negative or non-numeric time.
	ErrInvalidTimeTaken = NewDomainError("practice", "Validate", ErrInvalidInput, "time taken must be a non-negative number of minutes")

	// ErrInvalidUserID is returned for an empty or path-unsafe identity.
	ErrInvalidUserID = NewDomainError("practice", "Validate", ErrInvalidID, "invalid user ID")
)

// Catalog domain errors
var (
	ErrCatalogEmpty     = NewDomainError("catalog", "Build", ErrEmptyValue, "catalog has no problems")
	ErrDuplicateProblem = NewDomainError("catalog", "Build", ErrAlreadyExists, "duplicate problem id in catalog")
	ErrNoCandidates     = NewDomainError("catalog", "Pick", ErrNotFound, "no problems match the filter")
)

// Storage errors. A missing record is NOT an error: Load returns an
// empty log for unknown identities. Corruption is surfaced distinctly
// so the caller can report it instead of silently showing empty data.
var (
	ErrLogCorrupted   = NewDomainError("storage", "Load", ErrStorageCorruption, "activity log record is unparseable")
	ErrLogUnavailable = NewDomainError("storage", "Access", ErrStorageUnavailable, "activity log storage is unreachable")

	// ErrVersionConflict is returned by compare-and-swap saves when a
	// concurrent writer advanced the record first. Transient; callers
	// reload and retry.
	ErrVersionConflict = NewDomainError("storage", "Save", ErrConflict, "activity log was modified concurrently")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateEntry checks if the error is the per-day idempotency guard.
func IsDuplicateEntry(err error) bool {
	return errors.Is(err, ErrDuplicateEntry)
}

// IsProblemNotFound checks if the error is an unknown-catalog-id failure.
func IsProblemNotFound(err error) bool {
	return errors.Is(err, ErrProblemNotFound)
}

// IsStorageCorruption checks if the error is a corrupted stored record.
func IsStorageCorruption(err error) bool {
	return errors.Is(err, ErrStorageCorruption)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrInvalidDate)
}
