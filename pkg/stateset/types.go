package stateset

import "time"

// Resource is the base set of fields present on every API record.
type Resource struct {
	ID        string            `json:"id" yaml:"id"`
	Object    string            `json:"object,omitempty" yaml:"object,omitempty"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" yaml:"updated_at"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Page is a single page of list results together with the pagination
// descriptor the server returned with it. HasNext is authoritative: a
// short page with HasNext set still has pages behind it.
type Page[T any] struct {
	Data       []T    `json:"data" yaml:"data"`
	Total      int    `json:"total" yaml:"total"`
	Page       int    `json:"page" yaml:"page"`
	PerPage    int    `json:"per_page" yaml:"per_page"`
	TotalPages int    `json:"total_pages" yaml:"total_pages"`
	HasNext    bool   `json:"has_next" yaml:"has_next"`
	HasPrev    bool   `json:"has_prev" yaml:"has_prev"`
	NextCursor string `json:"next_cursor,omitempty" yaml:"next_cursor,omitempty"`
}

// RequestOptions carry per-call behavior that is not part of the request
// payload: cache participation, idempotency, and extra headers. A nil
// *RequestOptions means all defaults (no caching, no idempotency key).
type RequestOptions struct {
	// UseCache opts this call into the response cache. Only GET
	// responses are ever stored.
	UseCache bool `json:"use_cache,omitempty" yaml:"use_cache,omitempty"`

	// ForceRefresh skips the cache lookup but still stores the fresh
	// response for subsequent callers.
	ForceRefresh bool `json:"force_refresh,omitempty" yaml:"force_refresh,omitempty"`

	// CacheTTL overrides the configured TTL for this call's entry.
	CacheTTL time.Duration `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"`

	// IdempotencyKey is sent as the Idempotency-Key header on mutating
	// requests. When empty, one is generated for creates so that
	// retried requests are safe to replay.
	IdempotencyKey string `json:"idempotency_key,omitempty" yaml:"idempotency_key,omitempty"`

	// Headers are merged into the request, overriding defaults on
	// conflict.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}
