package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/cache"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/platform/redis"
)

// setupCacheStore builds the key-value store behind the task listing cache
// and token revocation. The returned close function is never nil.
func setupCacheStore(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (cache.Store, func() error, error) {
	switch cfg.Driver {
	case config.CacheDriverRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("redis cache connected", "ttl_seconds", cfg.TTLSeconds)
		return redis.NewStore(client), client.Close, nil

	case config.CacheDriverMemory:
		logger.Info("in-memory cache enabled", "ttl_seconds", cfg.TTLSeconds)
		return cache.NewMemoryStore(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
