package stateset

import "time"

// OrderStatus enumerates the lifecycle states of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusOnHold     OrderStatus = "on_hold"
	OrderStatusFailed     OrderStatus = "failed"
)

// ReturnStatus enumerates the lifecycle states of a return.
type ReturnStatus string

const (
	ReturnStatusRequested ReturnStatus = "requested"
	ReturnStatusApproved  ReturnStatus = "approved"
	ReturnStatusRejected  ReturnStatus = "rejected"
	ReturnStatusReceived  ReturnStatus = "received"
	ReturnStatusInspected ReturnStatus = "inspected"
	ReturnStatusCompleted ReturnStatus = "completed"
)

// WarrantyStatus enumerates the lifecycle states of a warranty claim.
type WarrantyStatus string

const (
	WarrantyStatusFiled      WarrantyStatus = "filed"
	WarrantyStatusProcessing WarrantyStatus = "processing"
	WarrantyStatusApproved   WarrantyStatus = "approved"
	WarrantyStatusDenied     WarrantyStatus = "denied"
	WarrantyStatusCompleted  WarrantyStatus = "completed"
)

// ShipmentStatus enumerates the lifecycle states of a shipment.
type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusReturned  ShipmentStatus = "returned"
)

// OrderItem is a single line item on an order.
type OrderItem struct {
	ProductID string  `json:"product_id" yaml:"product_id"`
	SKU       string  `json:"sku,omitempty" yaml:"sku,omitempty"`
	Quantity  int     `json:"quantity" yaml:"quantity"`
	UnitPrice float64 `json:"unit_price" yaml:"unit_price"`
}

// Order represents a customer order.
type Order struct {
	Resource       `yaml:",inline"`
	CustomerID     string      `json:"customer_id" yaml:"customer_id"`
	Status         OrderStatus `json:"status" yaml:"status"`
	Currency       string      `json:"currency" yaml:"currency"`
	TotalAmount    float64     `json:"total_amount" yaml:"total_amount"`
	Items          []OrderItem `json:"items,omitempty" yaml:"items,omitempty"`
	Carrier        string      `json:"carrier,omitempty" yaml:"carrier,omitempty"`
	TrackingNumber string      `json:"tracking_number,omitempty" yaml:"tracking_number,omitempty"`
	ShippedAt      *time.Time  `json:"shipped_at,omitempty" yaml:"shipped_at,omitempty"`
	Notes          string      `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// OrderCreateRequest is the payload for creating an order.
type OrderCreateRequest struct {
	CustomerID string            `json:"customer_id" yaml:"customer_id"`
	Currency   string            `json:"currency,omitempty" yaml:"currency,omitempty"`
	Items      []OrderItem       `json:"items" yaml:"items"`
	Notes      string            `json:"notes,omitempty" yaml:"notes,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// OrderUpdateRequest is the payload for updating an order. Nil fields
// are left untouched.
type OrderUpdateRequest struct {
	Status   *OrderStatus      `json:"status,omitempty" yaml:"status,omitempty"`
	Notes    *string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ShipOrderRequest is the payload for marking an order as shipped.
type ShipOrderRequest struct {
	Carrier        string `json:"carrier" yaml:"carrier"`
	TrackingNumber string `json:"tracking_number" yaml:"tracking_number"`
}

// RefundRequest is the payload for refunding an order.
type RefundRequest struct {
	Amount float64 `json:"amount,omitempty" yaml:"amount,omitempty"`
	Reason string  `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Refund represents a refund issued against an order.
type Refund struct {
	Resource `yaml:",inline"`
	OrderID  string  `json:"order_id" yaml:"order_id"`
	Amount   float64 `json:"amount" yaml:"amount"`
	Reason   string  `json:"reason,omitempty" yaml:"reason,omitempty"`
	Status   string  `json:"status" yaml:"status"`
}

// ReturnItem is a single line item on a return.
type ReturnItem struct {
	ProductID string `json:"product_id" yaml:"product_id"`
	Quantity  int    `json:"quantity" yaml:"quantity"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Return represents a merchandise return.
type Return struct {
	Resource     `yaml:",inline"`
	OrderID      string       `json:"order_id" yaml:"order_id"`
	Status       ReturnStatus `json:"status" yaml:"status"`
	Reason       string       `json:"reason,omitempty" yaml:"reason,omitempty"`
	Items        []ReturnItem `json:"items,omitempty" yaml:"items,omitempty"`
	RefundAmount float64      `json:"refund_amount,omitempty" yaml:"refund_amount,omitempty"`
}

// ReturnCreateRequest is the payload for creating a return.
type ReturnCreateRequest struct {
	OrderID  string            `json:"order_id" yaml:"order_id"`
	Reason   string            `json:"reason,omitempty" yaml:"reason,omitempty"`
	Items    []ReturnItem      `json:"items" yaml:"items"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ReturnUpdateRequest is the payload for updating a return.
type ReturnUpdateRequest struct {
	Status       *ReturnStatus     `json:"status,omitempty" yaml:"status,omitempty"`
	Reason       *string           `json:"reason,omitempty" yaml:"reason,omitempty"`
	RefundAmount *float64          `json:"refund_amount,omitempty" yaml:"refund_amount,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Warranty represents a warranty claim.
type Warranty struct {
	Resource  `yaml:",inline"`
	OrderID   string         `json:"order_id" yaml:"order_id"`
	ProductID string         `json:"product_id" yaml:"product_id"`
	Status    WarrantyStatus `json:"status" yaml:"status"`
	Issue     string         `json:"issue,omitempty" yaml:"issue,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// WarrantyCreateRequest is the payload for filing a warranty claim.
type WarrantyCreateRequest struct {
	OrderID   string            `json:"order_id" yaml:"order_id"`
	ProductID string            `json:"product_id" yaml:"product_id"`
	Issue     string            `json:"issue,omitempty" yaml:"issue,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// WarrantyUpdateRequest is the payload for updating a warranty claim.
type WarrantyUpdateRequest struct {
	Status   *WarrantyStatus   `json:"status,omitempty" yaml:"status,omitempty"`
	Issue    *string           `json:"issue,omitempty" yaml:"issue,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// InventoryItem represents stock on hand for a SKU at a location.
type InventoryItem struct {
	Resource    `yaml:",inline"`
	SKU         string `json:"sku" yaml:"sku"`
	WarehouseID string `json:"warehouse_id,omitempty" yaml:"warehouse_id,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	Quantity    int    `json:"quantity" yaml:"quantity"`
	Reserved    int    `json:"reserved,omitempty" yaml:"reserved,omitempty"`
}

// InventoryCreateRequest is the payload for registering inventory.
type InventoryCreateRequest struct {
	SKU         string            `json:"sku" yaml:"sku"`
	WarehouseID string            `json:"warehouse_id,omitempty" yaml:"warehouse_id,omitempty"`
	Location    string            `json:"location,omitempty" yaml:"location,omitempty"`
	Quantity    int               `json:"quantity" yaml:"quantity"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// InventoryUpdateRequest is the payload for adjusting inventory.
type InventoryUpdateRequest struct {
	Quantity *int              `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Reserved *int              `json:"reserved,omitempty" yaml:"reserved,omitempty"`
	Location *string           `json:"location,omitempty" yaml:"location,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Product represents a sellable product.
type Product struct {
	Resource    `yaml:",inline"`
	Name        string  `json:"name" yaml:"name"`
	SKU         string  `json:"sku" yaml:"sku"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Price       float64 `json:"price" yaml:"price"`
	Currency    string  `json:"currency,omitempty" yaml:"currency,omitempty"`
	Active      bool    `json:"active" yaml:"active"`
}

// ProductCreateRequest is the payload for creating a product.
type ProductCreateRequest struct {
	Name        string            `json:"name" yaml:"name"`
	SKU         string            `json:"sku" yaml:"sku"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Price       float64           `json:"price" yaml:"price"`
	Currency    string            `json:"currency,omitempty" yaml:"currency,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ProductUpdateRequest is the payload for updating a product.
type ProductUpdateRequest struct {
	Name        *string           `json:"name,omitempty" yaml:"name,omitempty"`
	Description *string           `json:"description,omitempty" yaml:"description,omitempty"`
	Price       *float64          `json:"price,omitempty" yaml:"price,omitempty"`
	Active      *bool             `json:"active,omitempty" yaml:"active,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Customer represents a customer account.
type Customer struct {
	Resource  `yaml:",inline"`
	Email     string `json:"email" yaml:"email"`
	FirstName string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// CustomerCreateRequest is the payload for creating a customer.
type CustomerCreateRequest struct {
	Email     string            `json:"email" yaml:"email"`
	FirstName string            `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName  string            `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Phone     string            `json:"phone,omitempty" yaml:"phone,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// CustomerUpdateRequest is the payload for updating a customer.
type CustomerUpdateRequest struct {
	Email     *string           `json:"email,omitempty" yaml:"email,omitempty"`
	FirstName *string           `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName  *string           `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Phone     *string           `json:"phone,omitempty" yaml:"phone,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Shipment represents an outbound shipment for an order.
type Shipment struct {
	Resource       `yaml:",inline"`
	OrderID        string         `json:"order_id" yaml:"order_id"`
	Status         ShipmentStatus `json:"status" yaml:"status"`
	Carrier        string         `json:"carrier,omitempty" yaml:"carrier,omitempty"`
	TrackingNumber string         `json:"tracking_number,omitempty" yaml:"tracking_number,omitempty"`
	EstimatedAt    *time.Time     `json:"estimated_at,omitempty" yaml:"estimated_at,omitempty"`
	DeliveredAt    *time.Time     `json:"delivered_at,omitempty" yaml:"delivered_at,omitempty"`
}

// ShipmentCreateRequest is the payload for creating a shipment.
type ShipmentCreateRequest struct {
	OrderID        string            `json:"order_id" yaml:"order_id"`
	Carrier        string            `json:"carrier,omitempty" yaml:"carrier,omitempty"`
	TrackingNumber string            `json:"tracking_number,omitempty" yaml:"tracking_number,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ShipmentUpdateRequest is the payload for updating a shipment.
type ShipmentUpdateRequest struct {
	Status         *ShipmentStatus   `json:"status,omitempty" yaml:"status,omitempty"`
	Carrier        *string           `json:"carrier,omitempty" yaml:"carrier,omitempty"`
	TrackingNumber *string           `json:"tracking_number,omitempty" yaml:"tracking_number,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Workflow represents an automation workflow definition.
type Workflow struct {
	Resource `yaml:",inline"`
	Name     string   `json:"name" yaml:"name"`
	Trigger  string   `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	States   []string `json:"states,omitempty" yaml:"states,omitempty"`
	Enabled  bool     `json:"enabled" yaml:"enabled"`
}

// WorkflowCreateRequest is the payload for creating a workflow.
type WorkflowCreateRequest struct {
	Name     string            `json:"name" yaml:"name"`
	Trigger  string            `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	States   []string          `json:"states,omitempty" yaml:"states,omitempty"`
	Enabled  bool              `json:"enabled" yaml:"enabled"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// WorkflowUpdateRequest is the payload for updating a workflow.
type WorkflowUpdateRequest struct {
	Name     *string           `json:"name,omitempty" yaml:"name,omitempty"`
	Trigger  *string           `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	States   []string          `json:"states,omitempty" yaml:"states,omitempty"`
	Enabled  *bool             `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// GenericRecord is the representation used by the generic resource
// client for collections without a typed client.
type GenericRecord map[string]interface{}

// ID returns the record's id field, or the empty string.
func (r GenericRecord) ID() string {
	if id, ok := r["id"].(string); ok {
		return id
	}

	return ""
}
