package core

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by services, storage and the HTTP layer.
var (
	// ErrValidation marks malformed or out-of-range input. User-correctable.
	ErrValidation = errors.New("validation failed")

	// ErrNotAMember means the caller has no active membership in the
	// target organization.
	ErrNotAMember = errors.New("not a member of organization")

	// ErrForbidden means the caller is a member but lacks the capability.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the entity is absent or not visible to the caller.
	// Cross-organization lookups report this instead of ErrForbidden so
	// existence never leaks across tenants.
	ErrNotFound = errors.New("not found")

	// ErrQuotaExceeded means the organization hit a subscription ceiling.
	ErrQuotaExceeded = errors.New("subscription quota exceeded")

	// ErrStoreUnavailable marks a transient store failure. Retryable by
	// the caller, never retried here.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError carries the offending field so the presentation layer can
// surface the problem inline. It unwraps to ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a field-level validation error.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
