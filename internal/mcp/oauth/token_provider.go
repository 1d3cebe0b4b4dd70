package oauth

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenProvider exposes the token store through the google.TokenProvider
// interface, so Google API clients created during an authenticated request
// pick up the caller's Bearer token instead of reading tokens from disk.
type TokenProvider struct {
	store *Store
}

// NewTokenProvider creates a token provider backed by the given store.
func NewTokenProvider(store *Store) *TokenProvider {
	return &TokenProvider{store: store}
}

// GetTokenForAccount retrieves a Google OAuth token for the specified account
// (typically an email address).
func (p *TokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	return p.store.GetToken(account)
}

// HasTokenForAccount checks if a token exists for the specified account.
func (p *TokenProvider) HasTokenForAccount(account string) bool {
	_, err := p.store.GetToken(account)
	return err == nil
}
