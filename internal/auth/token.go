// Package auth provides token managers for the supported
// authentication schemes: static API keys, caller-supplied token
// functions, and the OAuth2 client credentials flow.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoToken          = errors.New("no token available")
	ErrRefreshingStatic = errors.New("static tokens cannot be refreshed")
)

// TokenManager supplies bearer tokens for outgoing requests.
type TokenManager interface {
	// GetToken returns a valid token, refreshing when needed.
	GetToken(ctx context.Context) (string, error)

	// RefreshToken forces a refresh regardless of expiry.
	RefreshToken(ctx context.Context) error
}

// StaticTokenManager returns a fixed token, the scheme used with API
// keys.
type StaticTokenManager struct {
	token string
}

// NewStaticTokenManager wraps a fixed token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

func (m *StaticTokenManager) GetToken(_ context.Context) (string, error) {
	if m.token == "" {
		return "", ErrNoToken
	}

	return m.token, nil
}

func (m *StaticTokenManager) RefreshToken(_ context.Context) error {
	return ErrRefreshingStatic
}

// FuncTokenManager obtains tokens from a caller-supplied function and
// caches them until their expiry.
type FuncTokenManager struct {
	mu        sync.Mutex
	fetch     func(ctx context.Context) (string, time.Time, error)
	token     string
	expiresAt time.Time
}

// NewFuncTokenManager wraps a token-fetching function. The function
// returns the token and its expiry; a zero expiry means the token never
// expires.
func NewFuncTokenManager(fetch func(ctx context.Context) (string, time.Time, error)) *FuncTokenManager {
	return &FuncTokenManager{fetch: fetch}
}

func (m *FuncTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && (m.expiresAt.IsZero() || time.Now().Before(m.expiresAt.Add(-30*time.Second))) {
		return m.token, nil
	}

	return m.refreshLocked(ctx)
}

func (m *FuncTokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.refreshLocked(ctx)

	return err
}

func (m *FuncTokenManager) refreshLocked(ctx context.Context) (string, error) {
	token, expiresAt, err := m.fetch(ctx)
	if err != nil {
		return "", err
	}

	m.token = token
	m.expiresAt = expiresAt

	return token, nil
}
