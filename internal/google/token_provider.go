package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// TokenProvider supplies OAuth tokens per account. The account key is either
// a local account name (stdio) or the authenticated user's email (HTTP).
type TokenProvider interface {
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)
	HasTokenForAccount(account string) bool
}

// FileTokenProvider reads tokens from the per-account files written by the
// interactive authorization flow. It is the default source on stdio, where
// no Bearer token accompanies requests.
type FileTokenProvider struct{}

func NewFileTokenProvider() *FileTokenProvider {
	return &FileTokenProvider{}
}

func (p *FileTokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	// The token source refreshes transparently, so an expired file token
	// still yields a usable access token here.
	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("reading token for account %s: %w", account, err)
	}
	return token, nil
}

func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	return HasTokenForAccount(account)
}
