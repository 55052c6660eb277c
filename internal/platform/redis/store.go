package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/tasktrack-api/internal/cache"
)

// scanBatchSize is the COUNT hint for SCAN and the number of keys per DEL.
const scanBatchSize = 100

// Store implements cache.Store on a Redis client.
type Store struct {
	client goredis.UniversalClient
}

var _ cache.Store = (*Store)(nil)

// NewStore creates a Store using client.
func NewStore(client goredis.UniversalClient) *Store {
	return &Store{client: client}
}

// Get implements cache.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, cache.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set implements cache.Store.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Delete implements cache.Store.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// DeletePrefix implements cache.Store with SCAN and batched DEL.
// Matching keys are collected over the full scan before any is deleted, so
// the deletes cannot disturb the cursor. Keys written while the scan runs
// may survive until their TTL.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) error {
	var keys []string
	iter := s.client.Scan(ctx, 0, escapeGlob(prefix)+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan keys: %w", err)
	}

	for start := 0; start < len(keys); start += scanBatchSize {
		end := min(start+scanBatchSize, len(keys))
		if err := s.client.Del(ctx, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("delete keys: %w", err)
		}
	}
	return nil
}

// escapeGlob quotes the characters Redis MATCH patterns treat specially.
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
