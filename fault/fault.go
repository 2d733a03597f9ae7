package fault

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a target id that does not resolve. Surfaced to the
// caller as-is, never retried.
var ErrNotFound = errors.New("not found")

// ValidationError rejects a mutation before anything is written: self
// relations, out-of-range slider values, sharing a response on a non-public
// poll.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// ConflictError reports an edge or request that already exists. Kept apart
// from ValidationError so callers may treat a duplicate as idempotent.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

func Validation(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
