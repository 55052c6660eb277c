package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/cache"
)

const revokedKeyPrefix = "revoked_token_"

// revocationGrace covers the clock skew leeway accepted by token validation.
const revocationGrace = 2 * time.Minute

// TokenRevoker records revoked token IDs until the tokens would have expired.
type TokenRevoker interface {
	// Revoke marks the token ID as revoked until expiresAt.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked reports whether the token ID has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// CacheTokenRevoker stores revocations in a cache.Store.
type CacheTokenRevoker struct {
	store    cache.Store
	timeFunc func() time.Time
}

var _ TokenRevoker = (*CacheTokenRevoker)(nil)

// NewCacheTokenRevoker creates a TokenRevoker backed by store.
func NewCacheTokenRevoker(store cache.Store) *CacheTokenRevoker {
	return &CacheTokenRevoker{store: store, timeFunc: time.Now}
}

// Revoke implements TokenRevoker. A token past its expiry and leeway needs no entry.
func (r *CacheTokenRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return ErrInvalidToken
	}
	ttl := expiresAt.Add(revocationGrace).Sub(r.timeFunc())
	if ttl <= 0 {
		return nil
	}
	if err := r.store.Set(ctx, revokedKeyPrefix+tokenID, []byte("1"), ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements TokenRevoker.
func (r *CacheTokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	_, err := r.store.Get(ctx, revokedKeyPrefix+tokenID)
	if errors.Is(err, cache.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return true, nil
}
