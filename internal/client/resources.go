package client

import (
	"context"

	internalhttp "github.com/stateset-io/stateset-client/internal/http"
	"github.com/stateset-io/stateset-client/pkg/stateset"
)

// WarrantiesClient implements stateset.WarrantiesClient.
type WarrantiesClient struct {
	crudClient[stateset.Warranty, stateset.WarrantyCreateRequest, stateset.WarrantyUpdateRequest]
}

// NewWarrantiesClient builds a warranties client over the shared
// transport.
func NewWarrantiesClient(hc *internalhttp.Client) *WarrantiesClient {
	return &WarrantiesClient{
		crudClient: crudClient[stateset.Warranty, stateset.WarrantyCreateRequest, stateset.WarrantyUpdateRequest]{
			http: hc,
			path: "/v1/warranties",
		},
	}
}

// InventoryClient implements stateset.InventoryClient.
type InventoryClient struct {
	crudClient[stateset.InventoryItem, stateset.InventoryCreateRequest, stateset.InventoryUpdateRequest]
}

// NewInventoryClient builds an inventory client over the shared
// transport.
func NewInventoryClient(hc *internalhttp.Client) *InventoryClient {
	return &InventoryClient{
		crudClient: crudClient[stateset.InventoryItem, stateset.InventoryCreateRequest, stateset.InventoryUpdateRequest]{
			http: hc,
			path: "/v1/inventory",
		},
	}
}

// Adjust applies a relative quantity change to an inventory record.
func (c *InventoryClient) Adjust(ctx context.Context, id string, delta int, opts *stateset.RequestOptions) (*stateset.InventoryItem, error) {
	body := map[string]int{"delta": delta}

	return postAction[stateset.InventoryItem](ctx, c.http, c.path+"/"+id+"/adjust", body, opts)
}

// ProductsClient implements stateset.ProductsClient.
type ProductsClient struct {
	crudClient[stateset.Product, stateset.ProductCreateRequest, stateset.ProductUpdateRequest]
}

// NewProductsClient builds a products client over the shared transport.
func NewProductsClient(hc *internalhttp.Client) *ProductsClient {
	return &ProductsClient{
		crudClient: crudClient[stateset.Product, stateset.ProductCreateRequest, stateset.ProductUpdateRequest]{
			http: hc,
			path: "/v1/products",
		},
	}
}

// CustomersClient implements stateset.CustomersClient.
type CustomersClient struct {
	crudClient[stateset.Customer, stateset.CustomerCreateRequest, stateset.CustomerUpdateRequest]
}

// NewCustomersClient builds a customers client over the shared
// transport.
func NewCustomersClient(hc *internalhttp.Client) *CustomersClient {
	return &CustomersClient{
		crudClient: crudClient[stateset.Customer, stateset.CustomerCreateRequest, stateset.CustomerUpdateRequest]{
			http: hc,
			path: "/v1/customers",
		},
	}
}

// ShipmentsClient implements stateset.ShipmentsClient.
type ShipmentsClient struct {
	crudClient[stateset.Shipment, stateset.ShipmentCreateRequest, stateset.ShipmentUpdateRequest]
}

// NewShipmentsClient builds a shipments client over the shared
// transport.
func NewShipmentsClient(hc *internalhttp.Client) *ShipmentsClient {
	return &ShipmentsClient{
		crudClient: crudClient[stateset.Shipment, stateset.ShipmentCreateRequest, stateset.ShipmentUpdateRequest]{
			http: hc,
			path: "/v1/shipments",
		},
	}
}

// WorkflowsClient implements stateset.WorkflowsClient.
type WorkflowsClient struct {
	crudClient[stateset.Workflow, stateset.WorkflowCreateRequest, stateset.WorkflowUpdateRequest]
}

// NewWorkflowsClient builds a workflows client over the shared
// transport.
func NewWorkflowsClient(hc *internalhttp.Client) *WorkflowsClient {
	return &WorkflowsClient{
		crudClient: crudClient[stateset.Workflow, stateset.WorkflowCreateRequest, stateset.WorkflowUpdateRequest]{
			http: hc,
			path: "/v1/workflows",
		},
	}
}
