package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when input fails validation.
	// *ValidationError unwraps to it, so callers can use errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRole is returned when a role is not one of the known roles.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidTaskStatus is returned when a task status is not one of the known statuses.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidDate is returned when a date string cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrUnauthorized is returned when the actor is not permitted to perform
	// an operation on a resource. The API layer maps it to 403 Forbidden.
	ErrUnauthorized = errors.New("unauthorized operation")
)
