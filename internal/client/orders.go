package client

import (
	"context"
	"strconv"
	"time"

	internalhttp "github.com/stateset-io/stateset-client/internal/http"
	"github.com/stateset-io/stateset-client/pkg/stateset"
)

// OrdersClient implements stateset.OrdersClient.
type OrdersClient struct {
	crudClient[stateset.Order, stateset.OrderCreateRequest, stateset.OrderUpdateRequest]
}

// NewOrdersClient builds an orders client over the shared transport.
func NewOrdersClient(hc *internalhttp.Client) *OrdersClient {
	return &OrdersClient{
		crudClient: crudClient[stateset.Order, stateset.OrderCreateRequest, stateset.OrderUpdateRequest]{
			http: hc,
			path: "/v1/orders",
		},
	}
}

// ForCustomer queries orders belonging to a single customer.
func (c *OrdersClient) ForCustomer(customerID string) stateset.Executor[stateset.Order] {
	return c.Query().Where("customer_id", customerID)
}

// WithStatus queries orders in the given status.
func (c *OrdersClient) WithStatus(status stateset.OrderStatus) stateset.Executor[stateset.Order] {
	return c.Query().Where("status", string(status))
}

// CreatedSince queries orders created at or after t.
func (c *OrdersClient) CreatedSince(t time.Time) stateset.Executor[stateset.Order] {
	return c.Query().CreatedAfter(t)
}

// HighValue queries orders whose total meets or exceeds minAmount.
func (c *OrdersClient) HighValue(minAmount float64) stateset.Executor[stateset.Order] {
	return c.Query().Filter("total_amount", stateset.OpGreaterThanOrEqual,
		strconv.FormatFloat(minAmount, 'f', -1, 64))
}

// Cancel cancels an order, recording the reason.
func (c *OrdersClient) Cancel(ctx context.Context, id, reason string, opts *stateset.RequestOptions) (*stateset.Order, error) {
	body := map[string]string{"reason": reason}

	return postAction[stateset.Order](ctx, c.http, c.path+"/"+id+"/cancel", body, opts)
}

// MarkAsShipped transitions an order to shipped with its tracking
// details.
func (c *OrdersClient) MarkAsShipped(ctx context.Context, id string, request *stateset.ShipOrderRequest, opts *stateset.RequestOptions) (*stateset.Order, error) {
	return postAction[stateset.Order](ctx, c.http, c.path+"/"+id+"/ship", request, opts)
}

// Refund issues a refund against an order.
func (c *OrdersClient) Refund(ctx context.Context, id string, request *stateset.RefundRequest, opts *stateset.RequestOptions) (*stateset.Refund, error) {
	return postAction[stateset.Refund](ctx, c.http, c.path+"/"+id+"/refund", request, opts)
}
