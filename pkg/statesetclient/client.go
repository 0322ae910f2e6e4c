// Package statesetclient constructs Stateset API clients.
package statesetclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/stateset-io/stateset-client/internal/client"
	"github.com/stateset-io/stateset-client/pkg/stateset"
)

// New creates a client from a full configuration.
func New(config *stateset.Config) (stateset.Client, error) {
	if config == nil {
		return nil, stateset.ErrConfigRequired
	}

	endpoint, err := normalizeEndpoint(config.APIEndpoint)
	if err != nil {
		return nil, err
	}

	cfg := *config
	cfg.APIEndpoint = endpoint

	c, err := client.New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return c, nil
}

// NewWithAPIKey creates a client authenticated with a static API key.
func NewWithAPIKey(endpoint, apiKey string) (stateset.Client, error) {
	return New(&stateset.Config{
		APIEndpoint: endpoint,
		APIKey:      apiKey,
	})
}

// NewWithTokenFunc creates a client that obtains bearer tokens from
// the given function, caching each token until its reported expiry.
func NewWithTokenFunc(endpoint string, tokenFunc stateset.TokenFunc) (stateset.Client, error) {
	return New(&stateset.Config{
		APIEndpoint: endpoint,
		TokenFunc:   tokenFunc,
	})
}

// NewWithClientCredentials creates a client authenticated with the
// OAuth2 client credentials flow. tokenURL may be empty, in which case
// the endpoint's /oauth/token is used.
func NewWithClientCredentials(endpoint, clientID, clientSecret, tokenURL string) (stateset.Client, error) {
	return New(&stateset.Config{
		APIEndpoint:  endpoint,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	})
}

// normalizeEndpoint validates the endpoint URL, defaulting the scheme
// to https and stripping any trailing slash.
func normalizeEndpoint(endpoint string) (string, error) {
	if endpoint == "" {
		return "", stateset.ErrAPIEndpointRequired
	}

	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parsing API endpoint: %w", err)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("%w: missing host in %q", stateset.ErrAPIEndpointRequired, endpoint)
	}

	return strings.TrimSuffix(parsed.String(), "/"), nil
}
