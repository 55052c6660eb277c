package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasktrack-api/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		BCryptCost:                  4,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}
}

func newTestService(t *testing.T, now func() time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(testAuthConfig(), now)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(testAuthConfig())
	assert.NoError(t, err)

	short := testAuthConfig()
	short.JWTSecret = "too-short"
	_, err = NewJWTService(short)
	assert.Error(t, err)

	noLifetime := testAuthConfig()
	noLifetime.TokenLifetimeMinutes = 0
	_, err = NewJWTService(noLifetime)
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, func() time.Time { return now })
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, 42)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.Equal(now.Add(time.Hour)))
	assert.True(t, claims.IssuedAt.Equal(now))

	other, err := svc.GenerateToken(ctx, 42)
	require.NoError(t, err)
	otherClaims, err := svc.ValidateToken(ctx, other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestValidateToken_Errors(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := now
	svc := newTestService(t, func() time.Time { return current })
	ctx := context.Background()

	access, err := svc.GenerateToken(ctx, 1)
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(ctx, 1)
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "another-secret-that-is-also-32-chars-long"
	other, err := newHMACJWTService(otherCfg, func() time.Time { return now })
	require.NoError(t, err)
	_, err = other.ValidateToken(ctx, access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// within the clock skew leeway
	current = now.Add(time.Hour + time.Minute)
	_, err = svc.ValidateToken(ctx, access)
	assert.NoError(t, err)

	current = now.Add(time.Hour + 3*time.Minute)
	_, err = svc.ValidateToken(ctx, access)
	assert.ErrorIs(t, err, ErrExpiredToken)

	current = now.Add(25 * time.Hour)
	_, err = svc.ValidateRefreshToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now)
	claims := jwtCustomClaims{
		UserID:    1,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(svc.signingKey)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RequiresExpiry(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now)
	claims := jwtCustomClaims{UserID: 1, TokenType: TokenTypeAccess}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.signingKey)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
