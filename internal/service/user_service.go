package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// RegisterInput holds the fields accepted when registering a user.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput holds the credentials presented at login.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserService provides user registration, authentication and lookup.
type UserService interface {
	// Register validates input and creates a new member.
	// Returns a *domain.ValidationError or ErrEmailExists.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Authenticate returns the user matching the credentials.
	// Returns ErrInvalidCredentials for an unknown email or a wrong password.
	Authenticate(ctx context.Context, input LoginInput) (*domain.User, error)

	// GetUser retrieves a user by their ID. Returns ErrUserNotFound if absent.
	GetUser(ctx context.Context, userID int64) (*domain.User, error)

	// ListUsers returns every user ordered by ID. Only admins may list users.
	ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	verifier  auth.PasswordVerifier
	rules     *inputValidator
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (*UserServiceImpl, error) {
	if userStore == nil {
		return nil, &ServiceError{Service: "user", Operation: "create_service", Message: "userStore cannot be nil"}
	}
	if verifier == nil {
		return nil, &ServiceError{Service: "user", Operation: "create_service", Message: "verifier cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		userStore: userStore,
		verifier:  verifier,
		rules:     newInputValidator(),
		logger:    logger.With("component", "user_service"),
	}, nil
}

var _ UserService = (*UserServiceImpl)(nil)

// Register creates a new member after validating the input
func (s *UserServiceImpl) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	verr := domain.NewValidationError()
	if err := s.rules.Struct(verr, input); err != nil {
		return nil, NewServiceError("user", "register", "failed to validate input", err)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	user, err := domain.NewUser(input.Name, input.Email, input.Password)
	if err != nil {
		// The tag rules count characters; the domain also enforces bcrypt's byte limit.
		if errors.Is(err, domain.ErrPasswordTooLong) {
			verr.Add("password", fieldMessage("password", "max", "72"))
			return nil, verr
		}
		s.logger.Error("failed to create user object",
			"error", err)
		return nil, NewServiceError("user", "register", "failed to create user", err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register with existing email")
		} else {
			s.logger.Error("failed to save user to database",
				"error", err)
		}
		return nil, NewServiceError("user", "register", "failed to save user", err)
	}

	s.logger.Info("user registered",
		"user_id", user.ID)

	return user, nil
}

// Authenticate checks the credentials and returns the matching user
func (s *UserServiceImpl) Authenticate(ctx context.Context, input LoginInput) (*domain.User, error) {
	input.Email = strings.TrimSpace(input.Email)

	verr := domain.NewValidationError()
	if err := s.rules.Struct(verr, input); err != nil {
		return nil, NewServiceError("user", "authenticate", "failed to validate input", err)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to retrieve user by email",
			"error", err)
		return nil, NewServiceError("user", "authenticate", "failed to retrieve user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, input.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Error("password comparison failed",
				"error", err,
				"user_id", user.ID)
		}
		return nil, ErrInvalidCredentials
	}

	s.logger.Debug("user authenticated",
		"user_id", user.ID)

	return user, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve user",
				"error", err,
				"user_id", userID)
		}
		return nil, NewServiceError("user", "get_user", "failed to retrieve user", err)
	}

	return user, nil
}

// ListUsers returns every user when actor is an admin
func (s *UserServiceImpl) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrUnauthorized
	}

	users, err := s.userStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users",
			"error", err,
			"actor_id", actor.ID)
		return nil, NewServiceError("user", "list_users", "failed to list users", err)
	}

	return users, nil
}
