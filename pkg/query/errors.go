package query

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a malformed condition, group or builder argument.
	ErrValidation = errors.New("validation failed")
	// ErrState signals a call made before the builder is ready for it.
	ErrState = errors.New("invalid builder state")
)

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// StateError wraps ErrState with the operation that was attempted.
type StateError struct {
	Op    string
	Group string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s called before %s root group was created", ErrState.Error(), e.Op, e.Group)
}

func (e *StateError) Unwrap() error { return ErrState }
