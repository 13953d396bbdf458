package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service
// implementations. Callers check for these with errors.Is(); the API layer
// maps them to HTTP status codes.
var (
	// ErrSourceTextTooShort indicates the source text is below the minimum
	// length for generation. API layer should map this to HTTP 400.
	ErrSourceTextTooShort = errors.New("source text is too short for generation")

	// ErrSourceTextTooLong indicates the source text exceeds the maximum
	// length for generation. API layer should map this to HTTP 400.
	ErrSourceTextTooLong = errors.New("source text is too long for generation")

	// ErrNothingToSave indicates a bulk save request carried no cards.
	// API layer should map this to HTTP 400.
	ErrNothingToSave = errors.New("no flashcards to save")
)

// ServiceError wraps unexpected errors from a service with the failed
// operation for context. Expected conditions surface as sentinel errors
// instead.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "generate_flashcards")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError. A nil underlying error yields
// nil.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
