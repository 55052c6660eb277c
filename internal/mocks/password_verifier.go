package mocks

import (
	"strings"

	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// MockPasswordVerifier implements auth.PasswordVerifier for testing.
// The default comparison accepts the fake hashes written by MockUserStore.
type MockPasswordVerifier struct {
	// CompareFn allows for custom comparison logic in tests
	CompareFn func(hashedPassword, password string) error

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if strings.TrimPrefix(hashedPassword, HashPrefix) == password && strings.HasPrefix(hashedPassword, HashPrefix) {
		return nil
	}
	return auth.ErrPasswordMismatch
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)
