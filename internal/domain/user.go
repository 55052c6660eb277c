package domain

import (
	"errors"
	"strings"
	"time"
)

// Common validation errors
var (
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Password length limits. 72 bytes is bcrypt's practical limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// Role is the closed set of roles a user can hold.
type Role string

// Known roles
const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleMember:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// User represents a registered user of the task tracker.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Password       string    `json:"-"` // Plaintext password, only set during registration
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new member with the given name, email and plaintext password.
// The email is normalized to lower case. The caller is responsible for hashing the
// password before the user is stored.
func NewUser(name, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Role:      RoleMember,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Validate checks if the User has valid data.
// A user must carry either a plaintext password within the allowed length
// or an already hashed password.
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrEmptyName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	at := strings.LastIndex(u.Email, "@")
	if at <= 0 || at == len(u.Email)-1 {
		return ErrInvalidEmail
	}

	if !u.Role.IsValid() {
		return ErrInvalidRole
	}

	if u.Password != "" {
		if len(u.Password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
		if len(u.Password) > MaxPasswordLength {
			return ErrPasswordTooLong
		}
		return nil
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}
