package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateset-io/stateset-client/internal/client"
	"github.com/stateset-io/stateset-client/pkg/stateset"
)

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := client.New(nil)
	assert.ErrorIs(t, err, stateset.ErrConfigRequired)

	_, err = client.New(&stateset.Config{})
	assert.ErrorIs(t, err, stateset.ErrAPIEndpointRequired)
}

func TestNewWithoutCredentials(t *testing.T) {
	t.Parallel()

	// local development servers work unauthenticated
	c, err := client.New(&stateset.Config{APIEndpoint: "http://localhost:8080"})

	require.NoError(t, err)
	assert.NotNil(t, c.Orders())
	assert.Nil(t, c.CacheStats())
}

func TestResourceAccessors(t *testing.T) {
	t.Parallel()

	c, err := client.New(&stateset.Config{APIEndpoint: "http://localhost:8080", APIKey: "k"})
	require.NoError(t, err)

	assert.NotNil(t, c.Orders())
	assert.NotNil(t, c.Returns())
	assert.NotNil(t, c.Warranties())
	assert.NotNil(t, c.Inventory())
	assert.NotNil(t, c.Products())
	assert.NotNil(t, c.Customers())
	assert.NotNil(t, c.Shipments())
	assert.NotNil(t, c.Workflows())
}

func TestGenericResourceFallbackPath(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/invoices/inv_1", r.URL.Path)

		_, _ = w.Write([]byte(`{"id":"inv_1","amount":12.5}`))
	}))

	record, err := c.Resource("invoices").Get(context.Background(), "inv_1", nil)

	require.NoError(t, err)
	assert.Equal(t, "inv_1", record.ID())
	assert.InDelta(t, 12.5, record["amount"].(float64), 0.001)
}

func TestGenericResourceRegisteredPath(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/billing/invoices", r.URL.Path)

		_, _ = w.Write([]byte(`{"data":[{"id":"inv_1"}],"total":1,"page":1,"has_next":false}`))
	}))

	c.RegisterResource("invoices", "/v2/billing/invoices")

	page, err := c.Resource("invoices").List(context.Background(), stateset.NewQuery())

	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "inv_1", page.Data[0].ID())
}

func TestGenericResourceCrud(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"n_1","note":"hello"}`))
		case r.Method == http.MethodPut:
			_, _ = w.Write([]byte(`{"id":"n_1","note":"updated"}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = w.Write([]byte(`{"id":"n_1","note":"hello"}`))
		}
	}))

	notes := c.Resource("notes")
	ctx := context.Background()

	created, err := notes.Create(ctx, stateset.GenericRecord{"note": "hello"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "n_1", created.ID())

	updated, err := notes.Update(ctx, "n_1", stateset.GenericRecord{"note": "updated"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "updated", updated["note"])

	require.NoError(t, notes.Delete(ctx, "n_1", nil))
}

func TestClientCacheStats(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"ord_1"}`))
	}))
	t.Cleanup(server.Close)

	c, err := client.New(&stateset.Config{
		APIEndpoint: server.URL,
		APIKey:      "k",
		Cache: &stateset.CacheConfig{
			Type:   stateset.CacheTypeMemory,
			Memory: &stateset.MemoryCacheConfig{MaxSize: 10},
		},
	})
	require.NoError(t, err)

	opts := &stateset.RequestOptions{UseCache: true}

	_, err = c.Orders().Get(context.Background(), "ord_1", opts)
	require.NoError(t, err)

	_, err = c.Orders().Get(context.Background(), "ord_1", opts)
	require.NoError(t, err)

	stats := c.CacheStats()
	require.NotNil(t, stats)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}
