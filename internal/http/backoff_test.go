package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffGrowsExponentially(t *testing.T) {
	t.Parallel()

	c := NewClient("http://example.com", nil)

	minWait := 100 * time.Millisecond
	maxWait := time.Hour

	// factor 0.5: attempts 1..4 target 1s, 2s, 4s, 8s before jitter
	for attempt, want := range map[int]time.Duration{
		1: time.Second,
		2: 2 * time.Second,
		3: 4 * time.Second,
		4: 8 * time.Second,
	} {
		got := c.backoff(minWait, maxWait, attempt, nil)

		assert.GreaterOrEqual(t, got, want-want/8, "attempt %d", attempt)
		assert.LessOrEqual(t, got, want+want/8, "attempt %d", attempt)
	}
}

func TestBackoffRespectsBounds(t *testing.T) {
	t.Parallel()

	c := NewClient("http://example.com", nil)

	// attempt 0 targets 0.5s, raised to the floor
	low := c.backoff(2*time.Second, time.Hour, 0, nil)
	assert.GreaterOrEqual(t, low, 2*time.Second-250*time.Millisecond)

	// attempt 10 targets 512s, clamped to the ceiling
	high := c.backoff(time.Millisecond, 3*time.Second, 10, nil)
	assert.LessOrEqual(t, high, 3*time.Second+400*time.Millisecond)
}

func TestBackoffHonorsRetryAfterWhenLarger(t *testing.T) {
	t.Parallel()

	c := NewClient("http://example.com", nil)

	resp := &http.Response{Header: http.Header{"Retry-After": []string{"30"}}}

	got := c.backoff(time.Millisecond, time.Second, 0, resp)
	assert.Equal(t, 30*time.Second, got)
}

func TestBackoffIgnoresRetryAfterWhenSmaller(t *testing.T) {
	t.Parallel()

	c := NewClient("http://example.com", nil)

	resp := &http.Response{Header: http.Header{"Retry-After": []string{"1"}}}

	// attempt 4 targets 8s, well past the 1s hint
	got := c.backoff(time.Millisecond, time.Hour, 4, resp)
	assert.Greater(t, got, 6*time.Second)
}

func TestCollectionPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/v1/orders", collectionPrefix("/v1/orders"))
	assert.Equal(t, "/v1/orders", collectionPrefix("/v1/orders/ord_1"))
	assert.Equal(t, "/v1/orders", collectionPrefix("/v1/orders/ord_1/cancel"))
	assert.Equal(t, "/health", collectionPrefix("/health"))
}
