// Package cache caches public widget config lookups so the demo
// surface does not hit the database on every page load. Entries are
// invalidated whenever a publish or tenant management operation
// changes what the public surface would serve.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/luminahq/lumina/internal/common/config"
)

const defaultTTL = 5 * time.Minute

// Cache is a small byte-blob cache keyed by tenant slug.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// NewCache creates a cache backend based on configuration. An empty
// type defaults to the in-process memory cache.
func NewCache(logger *zap.Logger, cfg *config.CacheConfig) (Cache, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	switch cfg.Type {
	case "", "memory":
		return NewMemoryCache(ttl), nil
	case "redis":
		return NewRedisCache(logger, &cfg.Redis, ttl), nil
	default:
		return nil, fmt.Errorf("unknown cache type: %s", cfg.Type)
	}
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a TTL map cache for single-process deployments.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates an in-process cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// RedisCache shares cached lookups across apiserver replicas.
type RedisCache struct {
	logger *zap.Logger
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(logger *zap.Logger, cfg *config.CacheRedisConfig, ttl time.Duration) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "lumina:widget:"
	}
	return &RedisCache{
		logger: logger.Named("cache.redis"),
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, c.prefix+key, value, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}
