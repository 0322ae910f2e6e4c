package stateset

import (
	"context"
	"time"
)

// Logger is the logging interface the client writes to. Implementations
// adapt whatever logging library the host application uses; the logging
// package ships a zerolog adapter.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TokenFunc supplies a bearer token and its expiry on demand. A zero
// expiry means the token never expires; the client caches the token
// and calls the function again shortly before expiry.
type TokenFunc func(ctx context.Context) (token string, expiresAt time.Time, err error)

// Config holds everything needed to construct a client.
type Config struct {
	// APIEndpoint is the base URL of the Stateset API, e.g.
	// "https://api.stateset.com". Required.
	APIEndpoint string `json:"api_endpoint" yaml:"api_endpoint"`

	// APIKey authenticates with a static bearer token.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// TokenFunc authenticates with caller-supplied tokens, for hosts
	// that manage credentials themselves. Used when APIKey is empty.
	TokenFunc TokenFunc `json:"-" yaml:"-"`

	// ClientID, ClientSecret and TokenURL authenticate with the OAuth2
	// client credentials flow. Used when APIKey and TokenFunc are
	// empty.
	ClientID     string `json:"client_id,omitempty" yaml:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	TokenURL     string `json:"token_url,omitempty" yaml:"token_url,omitempty"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`

	// HTTPTimeout bounds each HTTP request. Default 30s.
	HTTPTimeout time.Duration `json:"http_timeout,omitempty" yaml:"http_timeout,omitempty"`

	// RetryMax is the maximum number of retries after the first
	// attempt. Default 3.
	RetryMax int `json:"retry_max,omitempty" yaml:"retry_max,omitempty"`

	// RetryWaitMin and RetryWaitMax bound the backoff delay.
	RetryWaitMin time.Duration `json:"retry_wait_min,omitempty" yaml:"retry_wait_min,omitempty"`
	RetryWaitMax time.Duration `json:"retry_wait_max,omitempty" yaml:"retry_wait_max,omitempty"`

	// RetryStatusCodes adds status codes to the retryable set beyond
	// the built-in classification.
	RetryStatusCodes []int `json:"retry_status_codes,omitempty" yaml:"retry_status_codes,omitempty"`

	// Cache selects and configures the response cache backend. Nil
	// disables caching entirely.
	Cache *CacheConfig `json:"cache,omitempty" yaml:"cache,omitempty"`

	// CacheTTL overrides the default TTL for cached responses.
	CacheTTL time.Duration `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"`

	// DefaultHeaders are sent with every request.
	DefaultHeaders map[string]string `json:"default_headers,omitempty" yaml:"default_headers,omitempty"`

	// Debug enables request/response logging.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`

	// Logger receives client log output. Nil discards it.
	Logger Logger `json:"-" yaml:"-"`
}

// Client is the top-level API surface: one façade per collection, plus
// a generic escape hatch for collections without a typed client.
type Client interface {
	Orders() OrdersClient
	Returns() ReturnsClient
	Warranties() WarrantiesClient
	Inventory() InventoryClient
	Products() ProductsClient
	Customers() CustomersClient
	Shipments() ShipmentsClient
	Workflows() WorkflowsClient

	// Resource returns a generic client for any collection name,
	// registered or not. Unregistered names map to "/v1/<name>".
	Resource(name string) GenericClient

	// RegisterResource maps a collection name to a custom path for
	// subsequent Resource calls.
	RegisterResource(name, path string)

	// CacheStats returns cache traffic counters, or nil when caching
	// is disabled.
	CacheStats() *CacheStats
}

// CrudClient is the operation set shared by every typed resource
// client.
type CrudClient[T, C, U any] interface {
	Create(ctx context.Context, request *C, opts *RequestOptions) (*T, error)
	Get(ctx context.Context, id string, opts *RequestOptions) (*T, error)
	Update(ctx context.Context, id string, request *U, opts *RequestOptions) (*T, error)
	Delete(ctx context.Context, id string, opts *RequestOptions) error
	List(ctx context.Context, query Query) (*Page[T], error)

	// Query returns an executor bound to this collection's List.
	Query() Executor[T]

	// BulkCreate creates items in batches of batchSize, isolating
	// per-item failures. Indices in the result refer to the original
	// slice.
	BulkCreate(ctx context.Context, items []C, batchSize int) (*BulkResult, error)
}

// OrdersClient manages orders.
type OrdersClient interface {
	CrudClient[Order, OrderCreateRequest, OrderUpdateRequest]

	// Cancel cancels an order, recording the reason.
	Cancel(ctx context.Context, id, reason string, opts *RequestOptions) (*Order, error)

	// MarkAsShipped transitions an order to shipped with its tracking
	// details.
	MarkAsShipped(ctx context.Context, id string, request *ShipOrderRequest, opts *RequestOptions) (*Order, error)

	// Refund issues a refund against an order.
	Refund(ctx context.Context, id string, request *RefundRequest, opts *RequestOptions) (*Refund, error)

	// ForCustomer queries orders belonging to a single customer.
	ForCustomer(customerID string) Executor[Order]

	// WithStatus queries orders in the given status.
	WithStatus(status OrderStatus) Executor[Order]

	// CreatedSince queries orders created at or after t.
	CreatedSince(t time.Time) Executor[Order]

	// HighValue queries orders whose total meets or exceeds minAmount.
	HighValue(minAmount float64) Executor[Order]
}

// ReturnsClient manages returns.
type ReturnsClient interface {
	CrudClient[Return, ReturnCreateRequest, ReturnUpdateRequest]

	// Approve approves a requested return.
	Approve(ctx context.Context, id string, opts *RequestOptions) (*Return, error)

	// Reject rejects a requested return, recording the reason.
	Reject(ctx context.Context, id, reason string, opts *RequestOptions) (*Return, error)
}

// WarrantiesClient manages warranty claims.
type WarrantiesClient interface {
	CrudClient[Warranty, WarrantyCreateRequest, WarrantyUpdateRequest]
}

// InventoryClient manages inventory records.
type InventoryClient interface {
	CrudClient[InventoryItem, InventoryCreateRequest, InventoryUpdateRequest]

	// Adjust applies a relative quantity change to an inventory record.
	Adjust(ctx context.Context, id string, delta int, opts *RequestOptions) (*InventoryItem, error)
}

// ProductsClient manages products.
type ProductsClient interface {
	CrudClient[Product, ProductCreateRequest, ProductUpdateRequest]
}

// CustomersClient manages customers.
type CustomersClient interface {
	CrudClient[Customer, CustomerCreateRequest, CustomerUpdateRequest]
}

// ShipmentsClient manages shipments.
type ShipmentsClient interface {
	CrudClient[Shipment, ShipmentCreateRequest, ShipmentUpdateRequest]
}

// WorkflowsClient manages workflow definitions.
type WorkflowsClient interface {
	CrudClient[Workflow, WorkflowCreateRequest, WorkflowUpdateRequest]
}

// GenericClient provides untyped CRUD access to any collection.
type GenericClient interface {
	Create(ctx context.Context, record GenericRecord, opts *RequestOptions) (GenericRecord, error)
	Get(ctx context.Context, id string, opts *RequestOptions) (GenericRecord, error)
	Update(ctx context.Context, id string, record GenericRecord, opts *RequestOptions) (GenericRecord, error)
	Delete(ctx context.Context, id string, opts *RequestOptions) error
	List(ctx context.Context, query Query) (*Page[GenericRecord], error)
	Query() Executor[GenericRecord]
}
