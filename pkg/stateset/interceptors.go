package stateset

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
	ErrRateLimitExceeded  = errors.New("client-side rate limit exceeded")
)

// RequestInterceptor inspects or mutates an outgoing request before it
// is sent. Returning an error aborts the request.
type RequestInterceptor interface {
	InterceptRequest(ctx context.Context, req *http.Request) error
}

// ResponseInterceptor inspects a response after it arrives.
type ResponseInterceptor interface {
	InterceptResponse(ctx context.Context, resp *http.Response) error
}

// InterceptorChain runs interceptors in registration order around each
// request. The chain is safe for concurrent use once assembled.
type InterceptorChain struct {
	request  []RequestInterceptor
	response []ResponseInterceptor
}

// NewInterceptorChain returns an empty chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{}
}

// AddRequestInterceptor appends a request interceptor.
func (c *InterceptorChain) AddRequestInterceptor(i RequestInterceptor) *InterceptorChain {
	c.request = append(c.request, i)

	return c
}

// AddResponseInterceptor appends a response interceptor.
func (c *InterceptorChain) AddResponseInterceptor(i ResponseInterceptor) *InterceptorChain {
	c.response = append(c.response, i)

	return c
}

// ProcessRequest runs every request interceptor in order, stopping at
// the first error.
func (c *InterceptorChain) ProcessRequest(ctx context.Context, req *http.Request) error {
	for _, i := range c.request {
		if err := i.InterceptRequest(ctx, req); err != nil {
			return err
		}
	}

	return nil
}

// ProcessResponse runs every response interceptor in order.
func (c *InterceptorChain) ProcessResponse(ctx context.Context, resp *http.Response) error {
	for _, i := range c.response {
		if err := i.InterceptResponse(ctx, resp); err != nil {
			return err
		}
	}

	return nil
}

// HeaderInterceptor adds fixed headers to every request.
type HeaderInterceptor struct {
	headers map[string]string
}

// NewHeaderInterceptor builds an interceptor that sets the given
// headers, overriding any already present.
func NewHeaderInterceptor(headers map[string]string) *HeaderInterceptor {
	return &HeaderInterceptor{headers: headers}
}

func (i *HeaderInterceptor) InterceptRequest(_ context.Context, req *http.Request) error {
	for k, v := range i.headers {
		req.Header.Set(k, v)
	}

	return nil
}

// LoggingInterceptor logs each request and response at debug level.
type LoggingInterceptor struct {
	logger Logger
}

// NewLoggingInterceptor builds a logging interceptor.
func NewLoggingInterceptor(logger Logger) *LoggingInterceptor {
	return &LoggingInterceptor{logger: logger}
}

func (i *LoggingInterceptor) InterceptRequest(_ context.Context, req *http.Request) error {
	if i.logger != nil {
		i.logger.Debug("sending request", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL.String(),
		})
	}

	return nil
}

func (i *LoggingInterceptor) InterceptResponse(_ context.Context, resp *http.Response) error {
	if i.logger != nil {
		fields := map[string]interface{}{"status": resp.StatusCode}
		if resp.Request != nil {
			fields["url"] = resp.Request.URL.String()
		}

		i.logger.Debug("received response", fields)
	}

	return nil
}

// RateLimitInterceptor applies a client-side token bucket so that
// bursts are smoothed before the server has to reject them.
type RateLimitInterceptor struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time
}

// NewRateLimitInterceptor builds a bucket holding maxTokens tokens that
// refills at ratePerSecond.
func NewRateLimitInterceptor(maxTokens int, ratePerSecond float64) *RateLimitInterceptor {
	return &RateLimitInterceptor{
		tokens:     float64(maxTokens),
		maxTokens:  float64(maxTokens),
		refillRate: ratePerSecond,
		lastRefill: time.Now(),
	}
}

func (i *RateLimitInterceptor) InterceptRequest(_ context.Context, _ *http.Request) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := time.Now()
	i.tokens += now.Sub(i.lastRefill).Seconds() * i.refillRate

	if i.tokens > i.maxTokens {
		i.tokens = i.maxTokens
	}

	i.lastRefill = now

	if i.tokens < 1 {
		return ErrRateLimitExceeded
	}

	i.tokens--

	return nil
}

// CircuitBreaker trips after a run of failures and rejects requests
// until a cooldown elapses, then allows a probe through half-open
// state.
type CircuitBreaker struct {
	mu          sync.Mutex
	state       string
	failures    int
	threshold   int
	timeout     time.Duration
	lastFailure time.Time
}

// NewCircuitBreaker builds a breaker that opens after threshold
// consecutive failures and stays open for timeout.
func NewCircuitBreaker(threshold int, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:     "closed",
		threshold: threshold,
		timeout:   timeout,
	}
}

// Allow reports whether a request may proceed.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == "open" {
		if time.Since(cb.lastFailure) < cb.timeout {
			return ErrCircuitBreakerOpen
		}

		cb.state = "half-open"
	}

	return nil
}

// RecordSuccess closes the breaker.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.state = "closed"
}

// RecordFailure counts a failure, opening the breaker at the threshold.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = time.Now()

	if cb.failures >= cb.threshold || cb.state == "half-open" {
		cb.state = "open"
	}
}

// State returns the breaker's current state.
func (cb *CircuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

func (cb *CircuitBreaker) InterceptRequest(_ context.Context, _ *http.Request) error {
	return cb.Allow()
}

func (cb *CircuitBreaker) InterceptResponse(_ context.Context, resp *http.Response) error {
	if resp.StatusCode >= http.StatusInternalServerError {
		cb.RecordFailure()
	} else {
		cb.RecordSuccess()
	}

	return nil
}
