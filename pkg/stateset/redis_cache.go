package stateset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "stateset:cache:"

// RedisCache stores entries in Redis so that multiple processes share
// one response cache. Entries are stored as JSON with a Redis TTL
// matching the entry expiry, so Redis evicts them on its own.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisCache builds a Redis-backed cache.
func NewRedisCache(config *RedisCacheConfig) *RedisCache {
	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = defaultRedisKeyPrefix
	}

	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     config.Addr,
			Password: config.Password,
			DB:       config.DB,
		}),
		keyPrefix: prefix,
	}
}

func (c *RedisCache) redisKey(key string) string {
	return c.keyPrefix + key
}

// Get retrieves an entry.
func (c *RedisCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	raw, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheKeyNotFound
		}

		return nil, fmt.Errorf("reading cache entry from redis: %w", err)
	}

	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}

	// Redis TTL normally evicts first; this covers clock skew.
	if entry.Expired() {
		_ = c.client.Del(ctx, c.redisKey(key)).Err()

		return nil, ErrCacheEntryExpired
	}

	return &entry, nil
}

// Set stores an entry with a Redis TTL matching its expiry.
func (c *RedisCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := c.client.Set(ctx, c.redisKey(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("writing cache entry to redis: %w", err)
	}

	return nil
}

// Delete removes an entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("deleting cache entry from redis: %w", err)
	}

	return nil
}

// DeletePrefix removes every entry whose key starts with prefix.
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	return c.deleteMatching(ctx, c.redisKey(prefix)+"*")
}

// Clear removes every entry this cache owns. Other keys in the same
// Redis database are untouched.
func (c *RedisCache) Clear(ctx context.Context) error {
	return c.deleteMatching(ctx, c.keyPrefix+"*")
}

func (c *RedisCache) deleteMatching(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("deleting cache entries from redis: %w", err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning redis cache keys: %w", err)
	}

	return nil
}

// Has reports whether a live entry exists for key.
func (c *RedisCache) Has(ctx context.Context, key string) bool {
	entry, err := c.Get(ctx, key)

	return err == nil && entry != nil
}

// Close releases the underlying Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
