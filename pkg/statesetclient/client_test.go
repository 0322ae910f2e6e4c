package statesetclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateset-io/stateset-client/pkg/stateset"
	"github.com/stateset-io/stateset-client/pkg/statesetclient"
)

func TestNewRequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := statesetclient.New(nil)
	assert.ErrorIs(t, err, stateset.ErrConfigRequired)
}

func TestNewRequiresEndpoint(t *testing.T) {
	t.Parallel()

	_, err := statesetclient.New(&stateset.Config{})
	assert.ErrorIs(t, err, stateset.ErrAPIEndpointRequired)
}

func TestNewWithAPIKey(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"id":"ord_1"}`))
	}))
	t.Cleanup(server.Close)

	client, err := statesetclient.NewWithAPIKey(server.URL, "sk_test")
	require.NoError(t, err)

	order, err := client.Orders().Get(context.Background(), "ord_1", nil)
	require.NoError(t, err)
	assert.Equal(t, "ord_1", order.ID)
}

func TestNewDefaultsSchemeToHTTPS(t *testing.T) {
	t.Parallel()

	// construction succeeds; the endpoint is normalized without
	// contacting it
	client, err := statesetclient.NewWithAPIKey("api.stateset.com", "sk_test")

	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewRejectsUnparseableEndpoint(t *testing.T) {
	t.Parallel()

	_, err := statesetclient.NewWithAPIKey("https://", "sk_test")
	require.Error(t, err)
	assert.ErrorIs(t, err, stateset.ErrAPIEndpointRequired)
}

func TestNewWithTokenFunc(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok_live", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"id":"ord_1"}`))
	}))
	t.Cleanup(server.Close)

	client, err := statesetclient.NewWithTokenFunc(server.URL, func(_ context.Context) (string, time.Time, error) {
		calls.Add(1)

		return "tok_live", time.Now().Add(time.Hour), nil
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := client.Orders().Get(context.Background(), "ord_1", nil)
		require.NoError(t, err)
	}

	// the token is cached until expiry, so the supplier runs once
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewWithTokenFuncError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"ord_1"}`))
	}))
	t.Cleanup(server.Close)

	client, err := statesetclient.NewWithTokenFunc(server.URL, func(_ context.Context) (string, time.Time, error) {
		return "", time.Time{}, errTokenUnavailable
	})
	require.NoError(t, err)

	_, err = client.Orders().Get(context.Background(), "ord_1", nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "auth token")
}

var errTokenUnavailable = errors.New("token service unavailable")

func TestNewWithClientCredentialsDefaultsTokenURL(t *testing.T) {
	t.Parallel()

	client, err := statesetclient.NewWithClientCredentials("https://api.stateset.com", "id", "secret", "")

	require.NoError(t, err)
	assert.NotNil(t, client)
}
