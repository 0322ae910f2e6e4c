package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// OAuth2TokenManager obtains tokens via the OAuth2 client credentials
// flow. The underlying token source caches tokens and refreshes them
// before expiry.
type OAuth2TokenManager struct {
	mu     sync.Mutex
	config *clientcredentials.Config
	source oauth2.TokenSource
}

// NewOAuth2TokenManager builds a manager for the given client
// credentials.
func NewOAuth2TokenManager(tokenURL, clientID, clientSecret string, scopes []string) *OAuth2TokenManager {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       scopes,
	}

	return &OAuth2TokenManager{config: config}
}

func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()

	if m.source == nil {
		m.source = m.config.TokenSource(ctx)
	}

	source := m.source
	m.mu.Unlock()

	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("fetching OAuth2 token: %w", err)
	}

	return token.AccessToken, nil
}

// RefreshToken drops the cached token source so the next GetToken
// fetches a fresh token.
func (m *OAuth2TokenManager) RefreshToken(_ context.Context) error {
	m.mu.Lock()
	m.source = nil
	m.mu.Unlock()

	return nil
}
