package services

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the handlers, which map them onto HTTP statuses.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrCollision is returned when another scheduled appointment already
	// occupies the exact same timestamp.
	ErrCollision = errors.New("an appointment is already scheduled for this time")

	// ErrInvalidTransition is returned when a status transition is not
	// allowed, e.g. cancelling an appointment that is not scheduled.
	ErrInvalidTransition = errors.New("only scheduled appointments can be cancelled")
)

// ValidationError carries a human-readable message about invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
