package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/stateset-io/stateset-client/internal/constants"
	internalhttp "github.com/stateset-io/stateset-client/internal/http"
	"github.com/stateset-io/stateset-client/pkg/stateset"
)

// getResource fetches one record by path.
func getResource[T any](ctx context.Context, hc *internalhttp.Client, path string, opts *stateset.RequestOptions) (*T, error) {
	resp, err := hc.GetWithOptions(ctx, path, nil, opts)
	if err != nil {
		return nil, err
	}

	return decode[T](resp.Body)
}

// listResource fetches one page of a collection.
func listResource[T any](ctx context.Context, hc *internalhttp.Client, path string, query stateset.Query) (*stateset.Page[T], error) {
	resp, err := hc.Get(ctx, path, query.ToValues())
	if err != nil {
		return nil, err
	}

	var page stateset.Page[T]
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("parsing list response: %w", err)
	}

	return &page, nil
}

// createResource posts a new record to the collection.
func createResource[T any](ctx context.Context, hc *internalhttp.Client, path string, body interface{}, opts *stateset.RequestOptions) (*T, error) {
	resp, err := hc.PostWithOptions(ctx, path, body, opts)
	if err != nil {
		return nil, err
	}

	return decode[T](resp.Body)
}

// updateResource replaces a record's mutable fields.
func updateResource[T any](ctx context.Context, hc *internalhttp.Client, path string, body interface{}, opts *stateset.RequestOptions) (*T, error) {
	resp, err := hc.Do(ctx, &internalhttp.Request{
		Method:  http.MethodPut,
		Path:    path,
		Body:    body,
		Options: opts,
	})
	if err != nil {
		return nil, err
	}

	return decode[T](resp.Body)
}

// postAction invokes a non-CRUD action endpoint, e.g. an order cancel.
func postAction[T any](ctx context.Context, hc *internalhttp.Client, path string, body interface{}, opts *stateset.RequestOptions) (*T, error) {
	resp, err := hc.PostWithOptions(ctx, path, body, opts)
	if err != nil {
		return nil, err
	}

	return decode[T](resp.Body)
}

// deleteResource removes a record.
func deleteResource(ctx context.Context, hc *internalhttp.Client, path string, opts *stateset.RequestOptions) error {
	_, err := hc.DeleteWithOptions(ctx, path, opts)

	return err
}

func decode[T any](body []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return &out, nil
}

// crudClient implements the operation set shared by every typed
// resource client against one collection path.
type crudClient[T, C, U any] struct {
	http *internalhttp.Client
	path string
}

func (c *crudClient[T, C, U]) Create(ctx context.Context, request *C, opts *stateset.RequestOptions) (*T, error) {
	return createResource[T](ctx, c.http, c.path, request, opts)
}

func (c *crudClient[T, C, U]) Get(ctx context.Context, id string, opts *stateset.RequestOptions) (*T, error) {
	return getResource[T](ctx, c.http, c.path+"/"+id, opts)
}

func (c *crudClient[T, C, U]) Update(ctx context.Context, id string, request *U, opts *stateset.RequestOptions) (*T, error) {
	return updateResource[T](ctx, c.http, c.path+"/"+id, request, opts)
}

func (c *crudClient[T, C, U]) Delete(ctx context.Context, id string, opts *stateset.RequestOptions) error {
	return deleteResource(ctx, c.http, c.path+"/"+id, opts)
}

func (c *crudClient[T, C, U]) List(ctx context.Context, query stateset.Query) (*stateset.Page[T], error) {
	return listResource[T](ctx, c.http, c.path, query)
}

func (c *crudClient[T, C, U]) Query() stateset.Executor[T] {
	return stateset.NewExecutor(stateset.NewQuery(), c.List)
}

func (c *crudClient[T, C, U]) BulkCreate(ctx context.Context, items []C, batchSize int) (*stateset.BulkResult, error) {
	if batchSize <= 0 {
		batchSize = constants.DefaultBatchSize
	}

	return stateset.RunBulk(ctx, items, batchSize, constants.DefaultConcurrencyLimit,
		func(ctx context.Context, item C) error {
			_, err := c.Create(ctx, &item, nil)

			return err
		})
}
