package cache

import (
	"context"
	"fmt"

	"nutrition-chat/internal/infrastructure/config"
	"nutrition-chat/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore backs the LLM response cache with Redis so the dedup window
// holds across multiple server instances.
type RedisStore struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewRedisStore connects to Redis at cfg.RedisAddr.
func NewRedisStore(cfg *config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis cache connected", zap.String("addr", cfg.RedisAddr))
	return &RedisStore{client: client, config: cfg}, nil
}

// Get returns the cached value for (model, text) if present.
func (s *RedisStore) Get(ctx context.Context, model, text string) (string, bool) {
	data, err := s.client.Get(ctx, cacheKey(model, text)).Result()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("Redis cache get failed", zap.Error(err))
		}
		return "", false
	}
	return data, true
}

// Set stores value with the configured TTL. Write failures are logged,
// not returned; a cold cache only costs an extra LLM call.
func (s *RedisStore) Set(ctx context.Context, model, text, value string) {
	if err := s.client.Set(ctx, cacheKey(model, text), value, s.config.TTL).Err(); err != nil {
		common.LogWarn("Redis cache set failed", zap.Error(err))
	}
}

// NewStore picks the Redis store when an address is configured, falling
// back to the in-memory manager. Returns nil when caching is disabled.
func NewStore(cfg *config.Config) Store {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.RedisAddr != "" {
		store, err := NewRedisStore(&cfg.Cache)
		if err == nil {
			return store
		}
		common.LogWarn("Redis cache unavailable, using in-memory cache", zap.Error(err))
	}
	return NewManager(cfg)
}
