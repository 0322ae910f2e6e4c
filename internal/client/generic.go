package client

import (
	"context"

	internalhttp "github.com/stateset-io/stateset-client/internal/http"
	"github.com/stateset-io/stateset-client/pkg/stateset"
)

// GenericClient provides untyped CRUD access to a collection, used for
// resources without a dedicated typed client.
type GenericClient struct {
	http *internalhttp.Client
	path string
}

// NewGenericClient builds a generic client for the given collection
// path.
func NewGenericClient(hc *internalhttp.Client, path string) *GenericClient {
	return &GenericClient{http: hc, path: path}
}

// Create posts a new record to the collection.
func (c *GenericClient) Create(ctx context.Context, record stateset.GenericRecord, opts *stateset.RequestOptions) (stateset.GenericRecord, error) {
	out, err := createResource[stateset.GenericRecord](ctx, c.http, c.path, record, opts)
	if err != nil {
		return nil, err
	}

	return *out, nil
}

// Get fetches one record by id.
func (c *GenericClient) Get(ctx context.Context, id string, opts *stateset.RequestOptions) (stateset.GenericRecord, error) {
	out, err := getResource[stateset.GenericRecord](ctx, c.http, c.path+"/"+id, opts)
	if err != nil {
		return nil, err
	}

	return *out, nil
}

// Update replaces a record's mutable fields.
func (c *GenericClient) Update(ctx context.Context, id string, record stateset.GenericRecord, opts *stateset.RequestOptions) (stateset.GenericRecord, error) {
	out, err := updateResource[stateset.GenericRecord](ctx, c.http, c.path+"/"+id, record, opts)
	if err != nil {
		return nil, err
	}

	return *out, nil
}

// Delete removes a record.
func (c *GenericClient) Delete(ctx context.Context, id string, opts *stateset.RequestOptions) error {
	return deleteResource(ctx, c.http, c.path+"/"+id, opts)
}

// List fetches one page of the collection.
func (c *GenericClient) List(ctx context.Context, query stateset.Query) (*stateset.Page[stateset.GenericRecord], error) {
	return listResource[stateset.GenericRecord](ctx, c.http, c.path, query)
}

// Query returns an executor bound to this collection's List.
func (c *GenericClient) Query() stateset.Executor[stateset.GenericRecord] {
	return stateset.NewExecutor(stateset.NewQuery(), c.List)
}
