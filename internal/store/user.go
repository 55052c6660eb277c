package store

import (
	"context"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create validates the user, hashes its plaintext password and saves it.
	// On success the user's ID and timestamps are set and Password is cleared.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by email, compared case-insensitively.
	// Returns ErrUserNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns every user ordered by ID.
	List(ctx context.Context) ([]*domain.User, error)
}
