package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasktrack-api/internal/cache"
)

type brokenStore struct {
	*cache.MemoryStore
}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestCacheTokenRevoker(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := cache.NewMemoryStore().WithClock(func() time.Time { return now })
	revoker := NewCacheTokenRevoker(store)
	revoker.timeFunc = func() time.Time { return now }
	ctx := context.Background()

	revoked, err := revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, revoker.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	revoked, err = revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = revoker.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	// long expired tokens are not stored
	require.NoError(t, revoker.Revoke(ctx, "jti-old", now.Add(-time.Hour)))
	assert.Equal(t, 1, store.Len())

	assert.ErrorIs(t, revoker.Revoke(ctx, "", now.Add(time.Hour)), ErrInvalidToken)
}

func TestCacheTokenRevoker_StoreFailure(t *testing.T) {
	t.Parallel()

	revoker := NewCacheTokenRevoker(brokenStore{cache.NewMemoryStore()})
	_, err := revoker.IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
}
