package stateset_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateset-io/stateset-client/pkg/stateset"
)

func liveEntry(data string) *stateset.CacheEntry {
	now := time.Now()

	return &stateset.CacheEntry{
		Data:      []byte(data),
		StoredAt:  now,
		ExpiresAt: now.Add(time.Minute),
	}
}

func expiredEntry(data string) *stateset.CacheEntry {
	now := time.Now()

	return &stateset.CacheEntry{
		Data:      []byte(data),
		StoredAt:  now.Add(-2 * time.Minute),
		ExpiresAt: now.Add(-time.Minute),
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := stateset.NewMemoryCache(10)

	require.NoError(t, cache.Set(ctx, "key1", liveEntry("value1")))

	entry, err := cache.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value1"), entry.Data)
}

func TestMemoryCacheMissingKey(t *testing.T) {
	t.Parallel()

	cache := stateset.NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, stateset.ErrCacheKeyNotFound)
}

func TestMemoryCacheExpiredEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := stateset.NewMemoryCache(10)

	require.NoError(t, cache.Set(ctx, "key1", expiredEntry("old")))

	_, err := cache.Get(ctx, "key1")
	assert.ErrorIs(t, err, stateset.ErrCacheEntryExpired)

	// the expired entry is removed lazily
	_, err = cache.Get(ctx, "key1")
	assert.ErrorIs(t, err, stateset.ErrCacheKeyNotFound)
}

func TestMemoryCacheExpiredCleanupKeepsFreshEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := stateset.NewMemoryCache(10)

	// A reader observing an expired entry must not remove a fresh one
	// written for the same key while it waited for the write lock.
	for i := 0; i < 500; i++ {
		require.NoError(t, cache.Set(ctx, "key1", expiredEntry("stale")))

		done := make(chan struct{})

		go func() {
			_, _ = cache.Get(ctx, "key1")
			close(done)
		}()

		require.NoError(t, cache.Set(ctx, "key1", liveEntry("fresh")))
		<-done

		entry, err := cache.Get(ctx, "key1")
		require.NoError(t, err)
		assert.Equal(t, []byte("fresh"), entry.Data)
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := stateset.NewMemoryCache(2)

	now := time.Now()

	require.NoError(t, cache.Set(ctx, "oldest", &stateset.CacheEntry{
		Data: []byte("1"), StoredAt: now, ExpiresAt: now.Add(time.Minute),
	}))
	require.NoError(t, cache.Set(ctx, "newer", &stateset.CacheEntry{
		Data: []byte("2"), StoredAt: now, ExpiresAt: now.Add(2 * time.Minute),
	}))
	require.NoError(t, cache.Set(ctx, "newest", &stateset.CacheEntry{
		Data: []byte("3"), StoredAt: now, ExpiresAt: now.Add(3 * time.Minute),
	}))

	assert.Equal(t, 2, cache.Size())
	assert.False(t, cache.Has(ctx, "oldest"))
	assert.True(t, cache.Has(ctx, "newer"))
	assert.True(t, cache.Has(ctx, "newest"))
}

func TestMemoryCacheDeleteAndClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := stateset.NewMemoryCache(10)

	require.NoError(t, cache.Set(ctx, "key1", liveEntry("a")))
	require.NoError(t, cache.Set(ctx, "key2", liveEntry("b")))

	require.NoError(t, cache.Delete(ctx, "key1"))
	assert.False(t, cache.Has(ctx, "key1"))
	assert.True(t, cache.Has(ctx, "key2"))

	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, 0, cache.Size())
}

func TestMemoryCacheDeletePrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := stateset.NewMemoryCache(10)

	require.NoError(t, cache.Set(ctx, "GET:/v1/orders", liveEntry("list")))
	require.NoError(t, cache.Set(ctx, "GET:/v1/orders/ord_1", liveEntry("one")))
	require.NoError(t, cache.Set(ctx, "GET:/v1/products", liveEntry("other")))

	require.NoError(t, cache.DeletePrefix(ctx, "GET:/v1/orders"))

	assert.False(t, cache.Has(ctx, "GET:/v1/orders"))
	assert.False(t, cache.Has(ctx, "GET:/v1/orders/ord_1"))
	assert.True(t, cache.Has(ctx, "GET:/v1/products"))
}

func TestMemoryCacheCleanup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := stateset.NewMemoryCache(10)

	require.NoError(t, cache.Set(ctx, "live", liveEntry("a")))
	require.NoError(t, cache.Set(ctx, "dead", expiredEntry("b")))

	cache.Cleanup()

	assert.Equal(t, 1, cache.Size())
	assert.True(t, cache.Has(ctx, "live"))
}

func TestCacheManagerKeyConstruction(t *testing.T) {
	t.Parallel()

	manager := stateset.NewCacheManager(stateset.NewMemoryCache(10), nil)

	key := manager.GetCacheKey("GET", "/v1/orders", map[string]string{
		"page":   "1",
		"status": "pending",
	})

	assert.Equal(t, "GET:/v1/orders:page=1&status=pending", key)

	// parameter order must not matter
	same := manager.GetCacheKey("GET", "/v1/orders", map[string]string{
		"status": "pending",
		"page":   "1",
	})
	assert.Equal(t, key, same)

	bare := manager.GetCacheKey("GET", "/v1/orders", nil)
	assert.Equal(t, "GET:/v1/orders", bare)
}

func TestCacheManagerStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager := stateset.NewCacheManager(stateset.NewMemoryCache(10), nil)

	require.NoError(t, manager.Set(ctx, "key1", []byte("data"), time.Minute))

	_, err := manager.Get(ctx, "key1")
	require.NoError(t, err)

	_, err = manager.Get(ctx, "missing")
	require.Error(t, err)

	stats := manager.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.InDelta(t, 0.5, stats.GetHitRate(), 0.01)
}

func TestCacheManagerHitRateNoTraffic(t *testing.T) {
	t.Parallel()

	stats := &stateset.CacheStats{}
	assert.Zero(t, stats.GetHitRate())
}

func TestCacheManagerTTLExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager := stateset.NewCacheManager(stateset.NewMemoryCache(10), nil)

	require.NoError(t, manager.Set(ctx, "short", []byte("data"), 10*time.Millisecond))

	_, err := manager.Get(ctx, "short")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = manager.Get(ctx, "short")
	assert.ErrorIs(t, err, stateset.ErrCacheEntryExpired)
}

func TestCacheManagerSetWithETag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager := stateset.NewCacheManager(stateset.NewMemoryCache(10), nil)

	require.NoError(t, manager.SetWithETag(ctx, "key1", []byte("data"), `"v1"`, time.Minute))

	entry, err := manager.GetEntry(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, `"v1"`, entry.ETag)
}

func TestCacheManagerInvalidatePrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager := stateset.NewCacheManager(stateset.NewMemoryCache(10), nil)

	require.NoError(t, manager.Set(ctx, "GET:/v1/orders:page=1", []byte("a"), time.Minute))
	require.NoError(t, manager.Set(ctx, "GET:/v1/orders/ord_1", []byte("b"), time.Minute))

	require.NoError(t, manager.InvalidatePrefix(ctx, "GET:/v1/orders"))

	_, err := manager.Get(ctx, "GET:/v1/orders:page=1")
	assert.ErrorIs(t, err, stateset.ErrCacheKeyNotFound)
}

func TestDefaultCachingPolicy(t *testing.T) {
	t.Parallel()

	policy := stateset.DefaultCachingPolicy()

	assert.True(t, policy.ShouldCache("GET", "/v1/orders", 200))
	assert.False(t, policy.ShouldCache("POST", "/v1/orders", 201))
	assert.False(t, policy.ShouldCache("GET", "/v1/orders", 500))
	assert.False(t, policy.ShouldCache("GET", "/v1/orders", 404))
}

func TestCachingPolicyExcludePaths(t *testing.T) {
	t.Parallel()

	policy := stateset.DefaultCachingPolicy()
	policy.ExcludePaths = []string{"/v1/events"}

	assert.False(t, policy.ShouldCache("GET", "/v1/events/recent", 200))
	assert.True(t, policy.ShouldCache("GET", "/v1/orders", 200))
}

func TestCachingPolicyTTLFor(t *testing.T) {
	t.Parallel()

	policy := stateset.DefaultCachingPolicy()

	assert.Equal(t, 15*time.Minute, policy.TTLFor("/v1/products/prod_1"))
	assert.Equal(t, time.Minute, policy.TTLFor("/v1/inventory"))
	assert.Equal(t, 5*time.Minute, policy.TTLFor("/v1/orders"))
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := stateset.NewNoOpCache()

	require.NoError(t, cache.Set(ctx, "key1", liveEntry("a")))

	_, err := cache.Get(ctx, "key1")
	assert.ErrorIs(t, err, stateset.ErrCacheKeyNotFound)
	assert.False(t, cache.Has(ctx, "key1"))
}
