package stateset

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedCacheType = errors.New("unsupported cache type")
	ErrNATSConfigRequired   = errors.New("nats cache requires a NATS configuration")
	ErrRedisConfigRequired  = errors.New("redis cache requires a Redis configuration")
)

// CacheType selects a cache backend.
type CacheType string

const (
	// CacheTypeMemory is the in-process cache.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeRedis stores entries in Redis, shared across processes.
	CacheTypeRedis CacheType = "redis"

	// CacheTypeNATS stores entries in a NATS JetStream key-value
	// bucket, shared across processes.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone disables storage; every lookup misses.
	CacheTypeNone CacheType = "none"
)

// CacheConfig selects and configures a cache backend.
type CacheConfig struct {
	Type   CacheType          `json:"type" yaml:"type"`
	Memory *MemoryCacheConfig `json:"memory,omitempty" yaml:"memory,omitempty"`
	Redis  *RedisCacheConfig  `json:"redis,omitempty" yaml:"redis,omitempty"`
	NATS   *NATSCacheConfig   `json:"nats,omitempty" yaml:"nats,omitempty"`
}

// MemoryCacheConfig configures the in-process backend.
type MemoryCacheConfig struct {
	MaxSize int `json:"max_size" yaml:"max_size"`
}

// RedisCacheConfig configures the Redis backend.
type RedisCacheConfig struct {
	Addr      string `json:"addr" yaml:"addr"`
	Password  string `json:"password,omitempty" yaml:"password,omitempty"`
	DB        int    `json:"db,omitempty" yaml:"db,omitempty"`
	KeyPrefix string `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty"`
}

// NATSCacheConfig configures the NATS key-value backend.
type NATSCacheConfig struct {
	URL    string        `json:"url" yaml:"url"`
	Bucket string        `json:"bucket" yaml:"bucket"`
	TTL    time.Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// NewCacheFromConfig builds the backend the config selects. A nil
// config yields the no-op cache.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		return NewNoOpCache(), nil
	}

	switch config.Type {
	case CacheTypeMemory:
		maxSize := 1000
		if config.Memory != nil && config.Memory.MaxSize > 0 {
			maxSize = config.Memory.MaxSize
		}

		return NewMemoryCache(maxSize), nil

	case CacheTypeRedis:
		if config.Redis == nil {
			return nil, ErrRedisConfigRequired
		}

		return NewRedisCache(config.Redis), nil

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		cache, err := NewNATSCache(config.NATS)
		if err != nil {
			return nil, fmt.Errorf("creating NATS cache: %w", err)
		}

		return cache, nil

	case CacheTypeNone:
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

// NoOpCache satisfies Cache without storing anything.
type NoOpCache struct{}

// NewNoOpCache returns a cache that never stores.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(_ context.Context, _ string) (*CacheEntry, error) {
	return nil, ErrCacheKeyNotFound
}

func (c *NoOpCache) Set(_ context.Context, _ string, _ *CacheEntry) error { return nil }
func (c *NoOpCache) Delete(_ context.Context, _ string) error            { return nil }
func (c *NoOpCache) Clear(_ context.Context) error                       { return nil }
func (c *NoOpCache) Has(_ context.Context, _ string) bool                { return false }

// CacheBuilder assembles a cache configuration fluently.
type CacheBuilder struct {
	config *CacheConfig
}

// NewCacheBuilder starts a builder with the memory backend selected.
func NewCacheBuilder() *CacheBuilder {
	return &CacheBuilder{
		config: &CacheConfig{Type: CacheTypeMemory},
	}
}

// WithMemory selects the in-process backend.
func (b *CacheBuilder) WithMemory(maxSize int) *CacheBuilder {
	b.config.Type = CacheTypeMemory
	b.config.Memory = &MemoryCacheConfig{MaxSize: maxSize}

	return b
}

// WithRedis selects the Redis backend.
func (b *CacheBuilder) WithRedis(addr, password string, db int) *CacheBuilder {
	b.config.Type = CacheTypeRedis
	b.config.Redis = &RedisCacheConfig{Addr: addr, Password: password, DB: db}

	return b
}

// WithNATS selects the NATS key-value backend.
func (b *CacheBuilder) WithNATS(url, bucket string, ttl time.Duration) *CacheBuilder {
	b.config.Type = CacheTypeNATS
	b.config.NATS = &NATSCacheConfig{URL: url, Bucket: bucket, TTL: ttl}

	return b
}

// WithNone disables caching.
func (b *CacheBuilder) WithNone() *CacheBuilder {
	b.config.Type = CacheTypeNone

	return b
}

// Config returns the assembled configuration.
func (b *CacheBuilder) Config() *CacheConfig {
	return b.config
}

// Build constructs the configured backend.
func (b *CacheBuilder) Build() (Cache, error) {
	return NewCacheFromConfig(b.config)
}
