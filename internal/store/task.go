package store

import (
	"context"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// TaskQuery selects tasks for a listing.
type TaskQuery struct {
	// MemberID restricts the result to tasks created by or assigned to this
	// user. Zero selects every task.
	MemberID int64

	// Status, when non-empty, must equal the task status.
	Status string

	// Search, when non-empty, must occur case-insensitively in the title or
	// description. It is matched literally.
	Search string
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task and sets its ID and timestamps.
	// Returns ErrInvalidEntity if a referenced user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID. Returns ErrTaskNotFound if absent.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update saves every mutable field of task and refreshes UpdatedAt.
	// Returns ErrTaskNotFound if the task no longer exists.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task. Returns ErrTaskNotFound if absent.
	Delete(ctx context.Context, id int64) error

	// List returns the tasks matching q ordered by ID descending.
	// The result is never nil.
	List(ctx context.Context, q TaskQuery) ([]domain.Task, error)
}
