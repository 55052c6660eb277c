package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// DefaultTaskListTTL is how long a memoized listing stays valid.
const DefaultTaskListTTL = 60 * time.Second

// TaskListCache memoizes task listings as JSON in a Store.
type TaskListCache struct {
	store Store
	ttl   time.Duration
}

// NewTaskListCache wraps store. A non-positive ttl uses DefaultTaskListTTL.
func NewTaskListCache(store Store, ttl time.Duration) *TaskListCache {
	if ttl <= 0 {
		ttl = DefaultTaskListTTL
	}
	return &TaskListCache{store: store, ttl: ttl}
}

// TTL returns the lifetime applied to new entries.
func (c *TaskListCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the listing stored under key. The boolean is false on a miss.
// A corrupt entry is reported as an error so the caller can log it and recompute.
func (c *TaskListCache) Get(ctx context.Context, key string) ([]domain.Task, bool, error) {
	data, err := c.store.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %q: %w", key, err)
	}

	var tasks []domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, false, fmt.Errorf("cache decode %q: %w", key, err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, true, nil
}

// Set stores tasks under key.
func (c *TaskListCache) Set(ctx context.Context, key string, tasks []domain.Task) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("cache encode %q: %w", key, err)
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Invalidate removes every entry under each prefix. All prefixes are attempted
// even if one fails; the failures are joined.
func (c *TaskListCache) Invalidate(ctx context.Context, prefixes ...string) error {
	var errs []error
	seen := make(map[string]struct{}, len(prefixes))
	for _, prefix := range prefixes {
		if _, dup := seen[prefix]; dup {
			continue
		}
		seen[prefix] = struct{}{}
		if err := c.store.DeletePrefix(ctx, prefix); err != nil {
			errs = append(errs, fmt.Errorf("cache invalidate %q: %w", prefix, err))
		}
	}
	return errors.Join(errs...)
}
