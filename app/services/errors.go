package services

import (
	"errors"
	"fmt"
)

// Error taxonomy mapped to HTTP status at the handler boundary. Anything else
// escaping a service is an internal failure and surfaces as a generic 500.
var (
	// ErrUnauthenticated is returned for a missing or invalid credential.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidation is returned for semantically invalid requests.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced entity does not exist or is
	// outside the caller's workspace.
	ErrNotFound = errors.New("not found")
)

// validationError wraps ErrValidation with a caller-facing message.
func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// notFoundError wraps ErrNotFound with a caller-facing message.
func notFoundError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
