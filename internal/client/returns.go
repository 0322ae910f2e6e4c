package client

import (
	"context"

	internalhttp "github.com/stateset-io/stateset-client/internal/http"
	"github.com/stateset-io/stateset-client/pkg/stateset"
)

// ReturnsClient implements stateset.ReturnsClient.
type ReturnsClient struct {
	crudClient[stateset.Return, stateset.ReturnCreateRequest, stateset.ReturnUpdateRequest]
}

// NewReturnsClient builds a returns client over the shared transport.
func NewReturnsClient(hc *internalhttp.Client) *ReturnsClient {
	return &ReturnsClient{
		crudClient: crudClient[stateset.Return, stateset.ReturnCreateRequest, stateset.ReturnUpdateRequest]{
			http: hc,
			path: "/v1/returns",
		},
	}
}

// Approve approves a requested return.
func (c *ReturnsClient) Approve(ctx context.Context, id string, opts *stateset.RequestOptions) (*stateset.Return, error) {
	return postAction[stateset.Return](ctx, c.http, c.path+"/"+id+"/approve", nil, opts)
}

// Reject rejects a requested return, recording the reason.
func (c *ReturnsClient) Reject(ctx context.Context, id, reason string, opts *stateset.RequestOptions) (*stateset.Return, error) {
	body := map[string]string{"reason": reason}

	return postAction[stateset.Return](ctx, c.http, c.path+"/"+id+"/reject", body, opts)
}
