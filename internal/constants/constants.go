// Package constants provides shared constants used across the client.
package constants

import "time"

// HTTP client defaults.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultRetryMax is the default maximum number of retries
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the default minimum wait between retries
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the default maximum wait between retries
	DefaultRetryWaitMax = 10 * time.Second

	// DefaultBackoffFactor scales the exponential retry delay
	DefaultBackoffFactor = 0.5

	// DefaultUserAgent identifies the client on the wire
	DefaultUserAgent = "stateset-client-go/1.0"
)

// Pagination defaults.
const (
	// DefaultPageSize is the page size used when none is requested
	DefaultPageSize = 25

	// StandardPageSize is the page size used for bulk listing helpers
	StandardPageSize = 50

	// MaxPageSize is the largest page size the API accepts
	MaxPageSize = 100
)

// Cache defaults.
const (
	// DefaultCacheSize is the default number of entries held in memory
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default time-to-live for cached responses
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCacheCleanupInterval is how often expired entries are swept
	DefaultCacheCleanupInterval = 1 * time.Minute
)

// Bulk operation defaults.
const (
	// DefaultBatchSize is the number of items per bulk batch
	DefaultBatchSize = 50

	// DefaultConcurrencyLimit bounds parallel operations within a batch
	DefaultConcurrencyLimit = 8
)

// Circuit breaker defaults.
const (
	// DefaultCircuitBreakerThreshold is the failure count that opens the breaker
	DefaultCircuitBreakerThreshold = 5

	// DefaultCircuitBreakerTimeout is how long the breaker stays open
	DefaultCircuitBreakerTimeout = 30 * time.Second
)

// Circuit breaker states.
const (
	StatusClosed   = "closed"
	StatusOpen     = "open"
	StatusHalfOpen = "half-open"
)
