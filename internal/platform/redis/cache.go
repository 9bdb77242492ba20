package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/wordstone/internal/config"
	"github.com/phrazzld/wordstone/internal/platform/logger"
	"github.com/phrazzld/wordstone/internal/store"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheConnection is returned when Redis cannot be reached at startup.
	ErrCacheConnection = errors.New("cache: connection failed")

	// ErrCacheSerialization is returned when a snapshot cannot be encoded or decoded.
	ErrCacheSerialization = errors.New("cache: serialization failed")

	// ErrCacheKeyEmpty is returned when an empty key or field is provided.
	ErrCacheKeyEmpty = errors.New("cache: key cannot be empty")
)

// DefaultTTL applies when the configured TTL is not positive.
const DefaultTTL = 10 * time.Minute

// dialTimeout bounds the startup ping.
const dialTimeout = 5 * time.Second

// Cache is a Redis-backed store.SnapshotCache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ store.SnapshotCache = (*Cache)(nil)

// NewCache connects to Redis and verifies the connection with a ping.
func NewCache(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}

	return NewCacheWithClient(client, cfg.CacheTTL, log), nil
}

// NewCacheWithClient wraps an existing client.
func NewCacheWithClient(client *redis.Client, ttl time.Duration, log *slog.Logger) *Cache {
	if client == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = slog.Default()
	}

	return &Cache{
		client: client,
		ttl:    ttl,
		logger: log.With(slog.String("component", "snapshot_cache")),
	}
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping checks that Redis answers.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get implements store.SnapshotCache.Get.
func (c *Cache) Get(ctx context.Context, key, field string, dest any) error {
	if key == "" || field == "" {
		return ErrCacheKeyEmpty
	}

	data, err := c.client.HGet(ctx, key, field).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return store.ErrCacheMiss
		}
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}

	logger.FromContextOrDefault(ctx, c.logger).Debug("cache hit",
		slog.String("key", key),
		slog.String("field", field))
	return nil
}

// Set implements store.SnapshotCache.Set.
func (c *Cache) Set(ctx context.Context, key, field string, value any) error {
	if key == "" || field == "" {
		return ErrCacheKeyEmpty
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field, data)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	return err
}

// Delete implements store.SnapshotCache.Delete.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// NoopCache is used when Redis is disabled. Every Get misses.
type NoopCache struct{}

var _ store.SnapshotCache = NoopCache{}

// Get implements store.SnapshotCache.Get.
func (NoopCache) Get(context.Context, string, string, any) error { return store.ErrCacheMiss }

// Set implements store.SnapshotCache.Set.
func (NoopCache) Set(context.Context, string, string, any) error { return nil }

// Delete implements store.SnapshotCache.Delete.
func (NoopCache) Delete(context.Context, ...string) error { return nil }
