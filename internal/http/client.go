// Package http implements the HTTP transport for the Stateset client:
// request building, authentication, retries with backoff, response
// caching, and error mapping.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/stateset-io/stateset-client/internal/auth"
	"github.com/stateset-io/stateset-client/internal/constants"
	"github.com/stateset-io/stateset-client/pkg/stateset"
)

// Request describes one API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
	Options *stateset.RequestOptions
}

// Response is the outcome of one API call. The body is fully read and
// the connection released before Response is returned.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	FromCache  bool
	Duration   time.Duration
}

// Client is the transport shared by every resource client.
type Client struct {
	baseURL         string
	tokenManager    auth.TokenManager
	retryClient     *retryablehttp.Client
	logger          stateset.Logger
	debug           bool
	userAgent       string
	defaultHeaders  map[string]string
	cache           *stateset.CacheManager
	policy          *stateset.CachingPolicy
	interceptors    *stateset.InterceptorChain
	extraRetryCodes map[int]struct{}
	backoffFactor   float64
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for transport-level events.
func WithLogger(logger stateset.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithDefaultHeaders sets headers sent with every request.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) { c.defaultHeaders = headers }
}

// WithRetryConfig overrides the retry limits.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryClient.RetryMax = retryMax
		c.retryClient.RetryWaitMin = waitMin
		c.retryClient.RetryWaitMax = waitMax
	}
}

// WithRetryStatusCodes adds status codes to the retryable set.
func WithRetryStatusCodes(codes []int) Option {
	return func(c *Client) {
		for _, code := range codes {
			c.extraRetryCodes[code] = struct{}{}
		}
	}
}

// WithHTTPTimeout bounds each attempt.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.retryClient.HTTPClient.Timeout = timeout }
}

// WithCache enables response caching through the given manager and
// policy.
func WithCache(manager *stateset.CacheManager, policy *stateset.CachingPolicy) Option {
	return func(c *Client) {
		c.cache = manager

		if policy != nil {
			c.policy = policy
		}
	}
}

// WithInterceptors installs an interceptor chain around each request.
func WithInterceptors(chain *stateset.InterceptorChain) Option {
	return func(c *Client) { c.interceptors = chain }
}

// NewClient builds a transport for the given base URL. tokenManager may
// be nil for unauthenticated endpoints.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	c := &Client{
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		tokenManager:    tokenManager,
		retryClient:     retryClient,
		userAgent:       constants.DefaultUserAgent,
		policy:          stateset.DefaultCachingPolicy(),
		extraRetryCodes: make(map[int]struct{}),
		backoffFactor:   constants.DefaultBackoffFactor,
	}

	for _, opt := range opts {
		opt(c)
	}

	retryClient.CheckRetry = c.checkRetry
	retryClient.Backoff = c.backoff
	retryClient.ErrorHandler = func(resp *http.Response, err error, numTries int) (*http.Response, error) {
		retriesExhaustedTotal.Inc()

		return resp, &exhaustedError{err: err, attempts: numTries}
	}

	if c.logger != nil && c.debug {
		retryClient.Logger = &leveledLogger{logger: c.logger}
	}

	return c
}

// exhaustedError marks a request that failed after its last allowed
// attempt, carrying the attempt count for error annotation.
type exhaustedError struct {
	err      error
	attempts int
}

func (e *exhaustedError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("giving up after %d attempts", e.attempts)
	}

	return fmt.Sprintf("giving up after %d attempts: %v", e.attempts, e.err)
}

func (e *exhaustedError) Unwrap() error { return e.err }

// attemptCount rides the request context so a terminal error status
// reached after retryable attempts still reports the true attempt
// count. Exhaustion reports through the ErrorHandler instead.
type attemptCount struct{ n atomic.Int32 }

type attemptCountKey struct{}

// checkRetry decides whether an attempt's outcome warrants a retry.
// Context cancellation always wins; otherwise the error classifier
// decides, extended by any configured extra status codes.
func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if a, ok := ctx.Value(attemptCountKey{}).(*attemptCount); ok {
		a.n.Add(1)
	}

	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return stateset.Classify(0, err).Retryable, nil
	}

	if resp == nil {
		return false, nil
	}

	if _, ok := c.extraRetryCodes[resp.StatusCode]; ok {
		return true, nil
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return stateset.Classify(resp.StatusCode, nil).Retryable, nil
	}

	return false, nil
}

// backoff computes the wait before retry attemptNum (0-based): an
// exponential delay with jitter, raised to the server's Retry-After
// hint when that is longer.
func (c *Client) backoff(minWait, maxWait time.Duration, attemptNum int, resp *http.Response) time.Duration {
	retriesTotal.Inc()

	delay := time.Duration(c.backoffFactor * float64(uint(1)<<uint(attemptNum)) * float64(time.Second))
	if delay < minWait {
		delay = minWait
	}

	if delay > maxWait {
		delay = maxWait
	}

	// ±10% jitter to avoid synchronized retries
	jitter := time.Duration(rand.Int63n(int64(delay)/5+1)) - time.Duration(int64(delay)/10)
	delay += jitter

	if resp != nil {
		if hint := stateset.ParseRetryAfter(resp.Header.Get("Retry-After")); hint > delay {
			delay = hint
		}
	}

	if c.logger != nil && c.debug {
		c.logger.Debug("retrying request", map[string]interface{}{
			"attempt": attemptNum + 1,
			"wait":    delay.String(),
		})
	}

	return delay
}

// Do executes a request: cache lookup, network call with retries,
// error mapping, cache store and invalidation. On an HTTP error status
// both the response and a *stateset.Error are returned.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	attempts := &attemptCount{}
	ctx = context.WithValue(ctx, attemptCountKey{}, attempts)

	opts := req.Options
	if opts == nil {
		opts = &stateset.RequestOptions{}
	}

	cacheKey := ""
	cacheable := req.Method == http.MethodGet && opts.UseCache && c.cache != nil

	if cacheable {
		cacheKey = c.cache.GetCacheKey(req.Method, req.Path, flattenQuery(req.Query))

		if !opts.ForceRefresh {
			if entry, err := c.cache.GetEntry(ctx, cacheKey); err == nil {
				if c.debug && c.logger != nil {
					c.logger.Debug("serving from cache", map[string]interface{}{"key": cacheKey})
				}

				return &Response{
					StatusCode: http.StatusOK,
					Headers:    http.Header{},
					Body:       entry.Data,
					FromCache:  true,
				}, nil
			}
		}
	}

	httpReq, err := c.buildRequest(ctx, req, opts, fullURL)
	if err != nil {
		return nil, err
	}

	if c.interceptors != nil {
		if err := c.interceptors.ProcessRequest(ctx, httpReq.Request); err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
	}

	start := time.Now()

	resp, err := c.retryClient.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		return nil, c.mapTransportError(resp, err, req, duration)
	}

	defer func() { _ = resp.Body.Close() }()

	if c.interceptors != nil {
		if err := c.interceptors.ProcessResponse(ctx, resp); err != nil {
			return nil, fmt.Errorf("response interceptor: %w", err)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, stateset.NewTransportError(fmt.Errorf("reading response body: %w", err))
	}

	requestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	requestDuration.WithLabelValues(req.Method).Observe(duration.Seconds())

	if c.debug && c.logger != nil {
		c.logger.Debug("request completed", map[string]interface{}{
			"method":   req.Method,
			"path":     req.Path,
			"status":   resp.StatusCode,
			"duration": duration.String(),
		})
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
		Duration:   duration,
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := stateset.NewErrorFromResponse(resp.StatusCode, body, stateset.ParseRetryAfter(resp.Header.Get("Retry-After")))

		apiErr.Attempts = 1
		if n := int(attempts.n.Load()); n > 0 {
			apiErr.Attempts = n
		}

		return out, apiErr
	}

	c.storeAndInvalidate(ctx, req, opts, cacheable, cacheKey, resp, body)

	return out, nil
}

// buildRequest assembles the retryable request with auth, content and
// idempotency headers. Headers are set once so every retry of the same
// request carries identical values.
func (c *Client) buildRequest(ctx context.Context, req *Request, opts *stateset.RequestOptions, fullURL string) (*retryablehttp.Request, error) {
	var bodyBytes []byte

	if req.Body != nil {
		switch b := req.Body.(type) {
		case []byte:
			bodyBytes = b
		default:
			encoded, err := json.Marshal(req.Body)
			if err != nil {
				return nil, fmt.Errorf("encoding request body: %w", err)
			}

			bodyBytes = encoded
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyBytes)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if bodyBytes != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting auth token: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	if req.Method == http.MethodPost {
		key := opts.IdempotencyKey
		if key == "" {
			key = uuid.NewString()
		}

		httpReq.Header.Set("Idempotency-Key", key)
	} else if opts.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", opts.IdempotencyKey)
	}

	for k, v := range c.defaultHeaders {
		httpReq.Header.Set(k, v)
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	for k, v := range opts.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// mapTransportError converts a retryablehttp failure into the client's
// error taxonomy, annotating the attempt count when retries were
// exhausted.
func (c *Client) mapTransportError(resp *http.Response, err error, req *Request, duration time.Duration) error {
	requestDuration.WithLabelValues(req.Method).Observe(duration.Seconds())

	var exhausted *exhaustedError
	if errors.As(err, &exhausted) {
		if resp != nil {
			defer func() { _ = resp.Body.Close() }()

			body, _ := io.ReadAll(resp.Body)

			requestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()

			apiErr := stateset.NewErrorFromResponse(resp.StatusCode, body, stateset.ParseRetryAfter(resp.Header.Get("Retry-After")))
			apiErr.Attempts = exhausted.attempts

			return apiErr
		}

		apiErr := stateset.NewTransportError(exhausted.err)
		apiErr.Attempts = exhausted.attempts

		return apiErr
	}

	return stateset.NewTransportError(err)
}

// storeAndInvalidate applies the caching policy after a successful
// response: GET bodies are stored (including on ForceRefresh, which
// skips only the lookup), and successful mutations invalidate the
// collection's cached reads.
func (c *Client) storeAndInvalidate(ctx context.Context, req *Request, opts *stateset.RequestOptions, cacheable bool, cacheKey string, resp *http.Response, body []byte) {
	if c.cache == nil {
		return
	}

	if cacheable && c.policy.ShouldCache(req.Method, req.Path, resp.StatusCode) {
		ttl := opts.CacheTTL
		if ttl <= 0 {
			ttl = c.policy.TTLFor(req.Path)
		}

		if err := c.cache.SetWithETag(ctx, cacheKey, body, resp.Header.Get("ETag"), ttl); err != nil && c.logger != nil {
			c.logger.Warn("failed to store cache entry", map[string]interface{}{"error": err.Error()})
		}

		return
	}

	if req.Method != http.MethodGet {
		prefix := "GET:" + collectionPrefix(req.Path)
		if err := c.cache.InvalidatePrefix(ctx, prefix); err != nil && c.logger != nil {
			c.logger.Warn("failed to invalidate cache", map[string]interface{}{"error": err.Error()})
		}
	}
}

// collectionPrefix reduces a path to its collection root, e.g.
// "/v1/orders/123/cancel" to "/v1/orders".
func collectionPrefix(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 3)
	if len(parts) >= 2 {
		return "/" + parts[0] + "/" + parts[1]
	}

	return path
}

func flattenQuery(query url.Values) map[string]string {
	if len(query) == 0 {
		return nil
	}

	out := make(map[string]string, len(query))
	for k, vals := range query {
		out[k] = strings.Join(vals, ",")
	}

	return out
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// GetWithOptions performs a GET request with per-call options.
func (c *Client) GetWithOptions(ctx context.Context, path string, query url.Values, opts *stateset.RequestOptions) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query, Options: opts})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// PostWithOptions performs a POST request with per-call options.
func (c *Client) PostWithOptions(ctx context.Context, path string, body interface{}, opts *stateset.RequestOptions) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body, Options: opts})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// PutWithOptions performs a PUT request with per-call options.
func (c *Client) PutWithOptions(ctx context.Context, path string, body interface{}, opts *stateset.RequestOptions) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body, Options: opts})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// DeleteWithOptions performs a DELETE request with per-call options.
func (c *Client) DeleteWithOptions(ctx context.Context, path string, opts *stateset.RequestOptions) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Options: opts})
}

// leveledLogger adapts the client Logger to retryablehttp's logging
// interface.
type leveledLogger struct {
	logger stateset.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, kvToMap(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, kvToMap(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, kvToMap(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, kvToMap(keysAndValues))
}

func kvToMap(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}

		fields[key] = keysAndValues[i+1]
	}

	return fields
}
