package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing.
// By default it issues tokens of the form "access-<id>" and "refresh-<id>"
// and validates exactly those, so handler tests can round-trip tokens without
// signing keys. Function fields override the defaults.
type MockJWTService struct {
	GenerateTokenFn        func(ctx context.Context, userID int64) (string, error)
	ValidateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateRefreshTokenFn func(ctx context.Context, userID int64) (string, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Err is returned by both Generate methods when set.
	Err error

	mu     sync.Mutex
	issued map[string]auth.Claims
	serial int
}

// NewMockJWTService creates a mock with the default token scheme.
func NewMockJWTService() *MockJWTService {
	return &MockJWTService{issued: make(map[string]auth.Claims)}
}

func (m *MockJWTService) issue(prefix, tokenType string, userID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.issued == nil {
		m.issued = make(map[string]auth.Claims)
	}
	m.serial++
	token := fmt.Sprintf("%s-%d-%d", prefix, userID, m.serial)
	m.issued[token] = auth.Claims{
		UserID:    userID,
		TokenType: tokenType,
		Subject:   fmt.Sprint(userID),
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		ID:        fmt.Sprintf("jti-%d", m.serial),
	}
	return token
}

func (m *MockJWTService) lookup(token, tokenType string, invalid error) (*auth.Claims, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	claims, ok := m.issued[token]
	if !ok {
		return nil, invalid
	}
	if claims.TokenType != tokenType {
		return nil, auth.ErrWrongTokenType
	}
	return &claims, nil
}

// GenerateToken implements auth.JWTService
func (m *MockJWTService) GenerateToken(ctx context.Context, userID int64) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.issue("access", auth.TokenTypeAccess, userID), nil
}

// ValidateToken implements auth.JWTService
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.lookup(tokenString, auth.TokenTypeAccess, auth.ErrInvalidToken)
}

// GenerateRefreshToken implements auth.JWTService
func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID int64) (string, error) {
	if m.GenerateRefreshTokenFn != nil {
		return m.GenerateRefreshTokenFn(ctx, userID)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.issue("refresh", auth.TokenTypeRefresh, userID), nil
}

// ValidateRefreshToken implements auth.JWTService
func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return m.lookup(tokenString, auth.TokenTypeRefresh, auth.ErrInvalidRefreshToken)
}

var _ auth.JWTService = (*MockJWTService)(nil)
