package stateset

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrCacheKeyNotFound  = errors.New("key not found in cache")
	ErrCacheEntryExpired = errors.New("cache entry expired")
)

// CacheEntry is a stored response body with its expiry metadata.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ETag      string    `json:"etag,omitempty"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry's TTL has elapsed.
func (e *CacheEntry) Expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Cache is the storage backend contract. Implementations must be safe
// for concurrent use. Get returns ErrCacheKeyNotFound for a missing key
// and ErrCacheEntryExpired for one whose TTL has elapsed.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// PrefixDeleter is implemented by backends that can invalidate every
// key sharing a prefix in one call.
type PrefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

// MemoryCache is an in-process Cache with a bounded entry count. When
// full, the entry closest to expiry is evicted. Reads never see a
// partially written entry: entries are replaced atomically under the
// lock and never mutated in place.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	maxSize int
}

// NewMemoryCache builds a memory cache holding at most maxSize entries.
// maxSize <= 0 means unbounded.
func NewMemoryCache(maxSize int) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get retrieves an entry. Expired entries are removed lazily.
func (c *MemoryCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrCacheKeyNotFound
	}

	if entry.Expired() {
		c.mu.Lock()
		// The key may have been replaced with a fresh entry between
		// the read and write locks; only remove the one we saw.
		if c.entries[key] == entry {
			delete(c.entries, key)
		}
		c.mu.Unlock()

		return nil, ErrCacheEntryExpired
	}

	return entry, nil
}

// Set stores an entry, evicting the entry closest to expiry when the
// cache is full.
func (c *MemoryCache) Set(_ context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		if _, exists := c.entries[key]; !exists {
			c.evictOldest()
		}
	}

	c.entries[key] = entry

	return nil
}

// evictOldest removes the entry with the earliest expiry. Caller holds
// the write lock.
func (c *MemoryCache) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
	)

	for key, entry := range c.entries {
		if oldestKey == "" || entry.ExpiresAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Delete removes an entry. Deleting a missing key is not an error.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	return nil
}

// DeletePrefix removes every entry whose key starts with prefix.
func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}

	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]*CacheEntry)
	c.mu.Unlock()

	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(_ context.Context, key string) bool {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	return ok && !entry.Expired()
}

// Cleanup removes every expired entry. Call it periodically when using
// long-lived caches without a sweeper goroutine.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if entry.Expired() {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of stored entries, expired ones included.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// CacheStats counts cache traffic.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Sets    int64 `json:"sets"`
	Deletes int64 `json:"deletes"`
}

// GetHitRate returns hits as a fraction of lookups, 0 when no lookups
// have happened.
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CacheManager wraps a Cache backend with key construction, TTL policy
// application and hit/miss accounting.
type CacheManager struct {
	cache      Cache
	logger     Logger
	defaultTTL time.Duration

	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	deletes atomic.Int64
}

// NewCacheManager builds a manager over the given backend. logger may
// be nil.
func NewCacheManager(cache Cache, logger Logger) *CacheManager {
	return &CacheManager{
		cache:      cache,
		logger:     logger,
		defaultTTL: 5 * time.Minute,
	}
}

// SetDefaultTTL changes the TTL applied when Set is called with ttl 0.
func (m *CacheManager) SetDefaultTTL(ttl time.Duration) {
	if ttl > 0 {
		m.defaultTTL = ttl
	}
}

// GetCacheKey builds the canonical cache key for a request: the method,
// the path, and the query parameters serialized in sorted key order so
// that equal requests always map to the same key.
func (m *CacheManager) GetCacheKey(method, path string, params map[string]string) string {
	if len(params) == 0 {
		return method + ":" + path
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	return method + ":" + path + ":" + strings.Join(pairs, "&")
}

// Get retrieves a cached response body, counting the hit or miss.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := m.GetEntry(ctx, key)
	if err != nil {
		return nil, err
	}

	return entry.Data, nil
}

// GetEntry retrieves a full cache entry, ETag included.
func (m *CacheManager) GetEntry(ctx context.Context, key string) (*CacheEntry, error) {
	entry, err := m.cache.Get(ctx, key)
	if err != nil {
		m.misses.Add(1)
		cacheMisses.Inc()

		return nil, err
	}

	m.hits.Add(1)
	cacheHits.Inc()

	if m.logger != nil {
		m.logger.Debug("cache hit", map[string]interface{}{"key": key})
	}

	return entry, nil
}

// Set stores a response body under key. ttl 0 applies the default TTL.
func (m *CacheManager) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return m.SetWithETag(ctx, key, data, "", ttl)
}

// SetWithETag stores a response body along with its ETag.
func (m *CacheManager) SetWithETag(ctx context.Context, key string, data []byte, etag string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	now := time.Now()

	entry := &CacheEntry{
		Data:      data,
		ETag:      etag,
		StoredAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	if err := m.cache.Set(ctx, key, entry); err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}

	m.sets.Add(1)

	return nil
}

// Delete removes a single entry.
func (m *CacheManager) Delete(ctx context.Context, key string) error {
	if err := m.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}

	m.deletes.Add(1)

	return nil
}

// InvalidatePrefix removes every entry whose key starts with prefix.
// Backends without prefix support fall back to deleting the exact key.
func (m *CacheManager) InvalidatePrefix(ctx context.Context, prefix string) error {
	if pd, ok := m.cache.(PrefixDeleter); ok {
		if err := pd.DeletePrefix(ctx, prefix); err != nil {
			return fmt.Errorf("invalidating cache prefix: %w", err)
		}

		m.deletes.Add(1)

		return nil
	}

	return m.Delete(ctx, prefix)
}

// Clear removes every entry from the backend.
func (m *CacheManager) Clear(ctx context.Context) error {
	if err := m.cache.Clear(ctx); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	return nil
}

// GetStats returns a snapshot of the traffic counters.
func (m *CacheManager) GetStats() *CacheStats {
	return &CacheStats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Sets:    m.sets.Load(),
		Deletes: m.deletes.Load(),
	}
}

// CachingPolicy decides which responses are eligible for storage and
// what TTL each path gets.
type CachingPolicy struct {
	CacheGET     bool                     `json:"cache_get" yaml:"cache_get"`
	CacheErrors  bool                     `json:"cache_errors" yaml:"cache_errors"`
	ExcludePaths []string                 `json:"exclude_paths,omitempty" yaml:"exclude_paths,omitempty"`
	DefaultTTL   time.Duration            `json:"default_ttl" yaml:"default_ttl"`
	ResourceTTLs map[string]time.Duration `json:"resource_ttls,omitempty" yaml:"resource_ttls,omitempty"`
}

// DefaultCachingPolicy caches successful GET responses for five
// minutes, with longer TTLs for slow-changing catalog data.
func DefaultCachingPolicy() *CachingPolicy {
	return &CachingPolicy{
		CacheGET:    true,
		CacheErrors: false,
		DefaultTTL:  5 * time.Minute,
		ResourceTTLs: map[string]time.Duration{
			"/v1/products":  15 * time.Minute,
			"/v1/workflows": 15 * time.Minute,
			"/v1/inventory": 1 * time.Minute,
		},
	}
}

// ShouldCache reports whether a response is eligible for storage.
func (p *CachingPolicy) ShouldCache(method, path string, statusCode int) bool {
	if method != "GET" || !p.CacheGET {
		return false
	}

	if !p.CacheErrors && (statusCode < 200 || statusCode >= 300) {
		return false
	}

	for _, excluded := range p.ExcludePaths {
		if strings.HasPrefix(path, excluded) {
			return false
		}
	}

	return true
}

// TTLFor returns the TTL for a path, falling back to the default.
func (p *CachingPolicy) TTLFor(path string) time.Duration {
	for prefix, ttl := range p.ResourceTTLs {
		if strings.HasPrefix(path, prefix) {
			return ttl
		}
	}

	return p.DefaultTTL
}
