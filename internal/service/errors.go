package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrTaskNotFound indicates that the task does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists indicates a registration used an email that is already taken.
	// API layer should map this to HTTP 409 Conflict.
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthorized is the domain error for a forbidden operation, re-exported
	// so callers of the service do not need to import domain for it.
	// API layer should map this to HTTP 403 Forbidden.
	ErrUnauthorized = domain.ErrUnauthorized
)

// ServiceError wraps unexpected errors from a service with context.
type ServiceError struct {
	// Service is the service that failed (e.g., "task", "user")
	Service string
	// Operation is the operation that failed (e.g., "create_task", "list_users")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
// It returns known sentinel errors directly without wrapping, and maps store
// sentinels to their service equivalents.
func NewServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrTaskNotFound), errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, ErrUserNotFound), errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, ErrEmailExists), errors.Is(err, store.ErrEmailExists):
		return ErrEmailExists
	case errors.Is(err, ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, domain.ErrUnauthorized):
		return domain.ErrUnauthorized
	}

	// Validation errors keep their field messages for the API layer.
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}

	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
