package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Services and adapters wrap these with %w so callers
// (and the HTTP error handler) can classify failures with errors.Is.
var (
	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a reference to a record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an ownership/role check failure.
	ErrForbidden = errors.New("forbidden")

	// ErrProvider marks a failure of the embedding or generation provider
	// (network, auth, quota, malformed response). No retry is attempted at
	// this level; retry policy belongs inside the adapter if anywhere.
	ErrProvider = errors.New("provider error")

	// ErrDimensionMismatch marks an embedding comparison between vectors of
	// different lengths, e.g. a corpus embedded under two different models.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Forbidden(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// Provider wraps an adapter failure, keeping the underlying error in the
// chain for logging while tagging it as a provider failure.
func Provider(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrProvider, op, err)
}

func DimensionMismatch(got, want int) error {
	return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, got, want)
}
