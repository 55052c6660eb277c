package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// MockTokenRevoker implements auth.TokenRevoker in memory for testing.
// Expiry is ignored: a revoked ID stays revoked.
type MockTokenRevoker struct {
	// RevokeErr and IsRevokedErr are returned when set
	RevokeErr    error
	IsRevokedErr error

	mu      sync.Mutex
	revoked map[string]time.Time
}

// Revoke implements auth.TokenRevoker
func (m *MockTokenRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if m.RevokeErr != nil {
		return m.RevokeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]time.Time)
	}
	m.revoked[tokenID] = expiresAt
	return nil
}

// IsRevoked implements auth.TokenRevoker
func (m *MockTokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if m.IsRevokedErr != nil {
		return false, m.IsRevokedErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

var _ auth.TokenRevoker = (*MockTokenRevoker)(nil)
