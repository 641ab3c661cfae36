package search

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a request cannot be interpreted as given.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPatternLimitExceeded is returned when a phrase expands to more tokens or patterns than allowed.
	ErrPatternLimitExceeded = errors.New("pattern limit exceeded")

	// ErrDictionaryUnavailable is returned when the keyword store cannot be queried.
	ErrDictionaryUnavailable = errors.New("dictionary unavailable")
)

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError; cause may be nil.
func NewValidationError(field, message string, cause error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: cause}
}

// StoreError wraps a keyword store failure. Callers may retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Is(target error) bool {
	return target == ErrDictionaryUnavailable
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Temporary reports that the failed operation may succeed when retried.
func (e *StoreError) Temporary() bool {
	return true
}
