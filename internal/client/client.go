// Package client wires the transport, authentication and per-resource
// clients into the top-level Stateset client.
package client

import (
	"fmt"
	"sync"

	"github.com/stateset-io/stateset-client/internal/auth"
	"github.com/stateset-io/stateset-client/internal/constants"
	internalhttp "github.com/stateset-io/stateset-client/internal/http"
	"github.com/stateset-io/stateset-client/pkg/stateset"
)

// Client implements stateset.Client.
type Client struct {
	config       *stateset.Config
	httpClient   *internalhttp.Client
	cacheManager *stateset.CacheManager

	orders     *OrdersClient
	returns    *ReturnsClient
	warranties *WarrantiesClient
	inventory  *InventoryClient
	products   *ProductsClient
	customers  *CustomersClient
	shipments  *ShipmentsClient
	workflows  *WorkflowsClient

	mu       sync.RWMutex
	registry map[string]string
}

// New builds a client from the given configuration. The configuration
// must carry an endpoint; authentication is optional so that local
// development servers work without credentials.
func New(config *stateset.Config) (*Client, error) {
	if config == nil {
		return nil, stateset.ErrConfigRequired
	}

	if config.APIEndpoint == "" {
		return nil, stateset.ErrAPIEndpointRequired
	}

	tokenManager := createTokenManager(config)

	cacheManager, err := createCacheManager(config)
	if err != nil {
		return nil, err
	}

	httpClient := internalhttp.NewClient(config.APIEndpoint, tokenManager, createHTTPClientOptions(config, cacheManager)...)

	c := &Client{
		config:       config,
		httpClient:   httpClient,
		cacheManager: cacheManager,
		registry: map[string]string{
			"orders":     "/v1/orders",
			"returns":    "/v1/returns",
			"warranties": "/v1/warranties",
			"inventory":  "/v1/inventory",
			"products":   "/v1/products",
			"customers":  "/v1/customers",
			"shipments":  "/v1/shipments",
			"workflows":  "/v1/workflows",
		},
	}

	c.initializeResourceClients()

	return c, nil
}

func createTokenManager(config *stateset.Config) auth.TokenManager {
	switch {
	case config.APIKey != "":
		return auth.NewStaticTokenManager(config.APIKey)
	case config.TokenFunc != nil:
		return auth.NewFuncTokenManager(config.TokenFunc)
	case config.ClientID != "" && config.ClientSecret != "":
		tokenURL := config.TokenURL
		if tokenURL == "" {
			tokenURL = config.APIEndpoint + "/oauth/token"
		}

		return auth.NewOAuth2TokenManager(tokenURL, config.ClientID, config.ClientSecret, nil)
	default:
		return nil
	}
}

func createCacheManager(config *stateset.Config) (*stateset.CacheManager, error) {
	if config.Cache == nil {
		return nil, nil
	}

	cache, err := stateset.NewCacheFromConfig(config.Cache)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	manager := stateset.NewCacheManager(cache, config.Logger)
	if config.CacheTTL > 0 {
		manager.SetDefaultTTL(config.CacheTTL)
	}

	return manager, nil
}

func createHTTPClientOptions(config *stateset.Config, cacheManager *stateset.CacheManager) []internalhttp.Option {
	var opts []internalhttp.Option

	if config.Logger != nil {
		opts = append(opts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if len(config.DefaultHeaders) > 0 {
		opts = append(opts, internalhttp.WithDefaultHeaders(config.DefaultHeaders))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, internalhttp.WithHTTPTimeout(config.HTTPTimeout))
	}

	retryMax := config.RetryMax
	if retryMax == 0 {
		retryMax = constants.DefaultRetryMax
	}

	waitMin := config.RetryWaitMin
	if waitMin <= 0 {
		waitMin = constants.DefaultRetryWaitMin
	}

	waitMax := config.RetryWaitMax
	if waitMax <= 0 {
		waitMax = constants.DefaultRetryWaitMax
	}

	opts = append(opts, internalhttp.WithRetryConfig(retryMax, waitMin, waitMax))

	if len(config.RetryStatusCodes) > 0 {
		opts = append(opts, internalhttp.WithRetryStatusCodes(config.RetryStatusCodes))
	}

	if cacheManager != nil {
		policy := stateset.DefaultCachingPolicy()
		if config.CacheTTL > 0 {
			policy.DefaultTTL = config.CacheTTL
		}

		opts = append(opts, internalhttp.WithCache(cacheManager, policy))
	}

	return opts
}

func (c *Client) initializeResourceClients() {
	c.orders = NewOrdersClient(c.httpClient)
	c.returns = NewReturnsClient(c.httpClient)
	c.warranties = NewWarrantiesClient(c.httpClient)
	c.inventory = NewInventoryClient(c.httpClient)
	c.products = NewProductsClient(c.httpClient)
	c.customers = NewCustomersClient(c.httpClient)
	c.shipments = NewShipmentsClient(c.httpClient)
	c.workflows = NewWorkflowsClient(c.httpClient)
}

// HTTPClient exposes the shared transport for advanced use.
func (c *Client) HTTPClient() *internalhttp.Client {
	return c.httpClient
}

func (c *Client) Orders() stateset.OrdersClient         { return c.orders }
func (c *Client) Returns() stateset.ReturnsClient       { return c.returns }
func (c *Client) Warranties() stateset.WarrantiesClient { return c.warranties }
func (c *Client) Inventory() stateset.InventoryClient   { return c.inventory }
func (c *Client) Products() stateset.ProductsClient     { return c.products }
func (c *Client) Customers() stateset.CustomersClient   { return c.customers }
func (c *Client) Shipments() stateset.ShipmentsClient   { return c.shipments }
func (c *Client) Workflows() stateset.WorkflowsClient   { return c.workflows }

// Resource returns a generic client for any collection name. Names
// without a registration map to "/v1/<name>".
func (c *Client) Resource(name string) stateset.GenericClient {
	c.mu.RLock()
	path, ok := c.registry[name]
	c.mu.RUnlock()

	if !ok {
		path = "/v1/" + name
	}

	return NewGenericClient(c.httpClient, path)
}

// RegisterResource maps a collection name to a custom path.
func (c *Client) RegisterResource(name, path string) {
	c.mu.Lock()
	c.registry[name] = path
	c.mu.Unlock()
}

// CacheStats returns cache traffic counters, or nil when caching is
// disabled.
func (c *Client) CacheStats() *stateset.CacheStats {
	if c.cacheManager == nil {
		return nil
	}

	return c.cacheManager.GetStats()
}
