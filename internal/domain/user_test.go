package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("  Jane Doe ", "Jane@Example.COM", "password123")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", user.Name)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, RoleMember, user.Role)
	assert.Equal(t, "password123", user.Password)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	assert.False(t, user.IsAdmin())
}

func TestNewUser_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{"empty name", "", "a@b.com", "password123", ErrEmptyName},
		{"empty email", "A", "", "password123", ErrEmptyEmail},
		{"email without at", "A", "invalid", "password123", ErrInvalidEmail},
		{"email without domain", "A", "a@", "password123", ErrInvalidEmail},
		{"short password", "A", "a@b.com", "short", ErrPasswordTooShort},
		{"long password", "A", "a@b.com", strings.Repeat("x", 73), ErrPasswordTooLong},
		{"no password", "A", "a@b.com", "", ErrEmptyHashedPassword},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserValidate_HashedPassword(t *testing.T) {
	t.Parallel()

	user := User{Name: "Admin", Email: "admin@example.com", Role: RoleAdmin, HashedPassword: "$2a$10$hash"}
	assert.NoError(t, user.Validate())
	assert.True(t, user.IsAdmin())

	user.Role = "owner"
	assert.ErrorIs(t, user.Validate(), ErrInvalidRole)
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	role, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	role, err = ParseRole("member")
	require.NoError(t, err)
	assert.Equal(t, RoleMember, role)

	_, err = ParseRole("Admin")
	assert.ErrorIs(t, err, ErrInvalidRole)

	var nilUser *User
	assert.False(t, nilUser.IsAdmin())
}
