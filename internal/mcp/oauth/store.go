package oauth

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/workspacemcp/workspacemcp/internal/logging"
)

// Store caches validated Google OAuth tokens in memory, keyed by account
// (the user's email address). Tokens arrive through the Bearer middleware and
// are handed out to Google API clients via the TokenProvider bridge.
type Store struct {
	mu       sync.RWMutex
	tokens   map[string]*oauth2.Token
	userInfo map[string]*GoogleUserInfo
	logger   *slog.Logger
}

// NewStore creates an in-memory token store with the default cleanup interval.
func NewStore() *Store {
	return NewStoreWithInterval(DefaultCleanupInterval)
}

// NewStoreWithInterval creates an in-memory token store that evicts expired
// tokens every cleanupInterval.
func NewStoreWithInterval(cleanupInterval time.Duration) *Store {
	s := &Store{
		tokens:   make(map[string]*oauth2.Token),
		userInfo: make(map[string]*GoogleUserInfo),
		logger:   slog.Default(),
	}

	go s.cleanupExpiredTokens(cleanupInterval)

	return s
}

// SetLogger sets a custom logger for the store.
func (s *Store) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// SaveToken caches a Google OAuth token for an account.
func (s *Store) SaveToken(account string, token *oauth2.Token) error {
	if account == "" {
		return fmt.Errorf("account cannot be empty")
	}
	if token == nil {
		return fmt.Errorf("token cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[account] = token
	s.logger.Debug("Cached Google token", logging.UserHash(account), "expiry", token.Expiry)
	return nil
}

// GetToken retrieves the cached Google OAuth token for an account.
// Expired tokens are treated as absent.
func (s *Store) GetToken(account string) (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[account]
	if !ok {
		return nil, fmt.Errorf("no token cached for account: %s", account)
	}

	if !token.Expiry.IsZero() && token.Expiry.Before(time.Now()) {
		return nil, fmt.Errorf("token expired for account: %s", account)
	}

	return token, nil
}

// DeleteToken removes the cached token and user info for an account.
func (s *Store) DeleteToken(account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, account)
	delete(s.userInfo, account)

	s.logger.Info("Deleted cached Google token", logging.UserHash(account))
	return nil
}

// SaveUserInfo caches the Google user info for an account.
func (s *Store) SaveUserInfo(account string, userInfo *GoogleUserInfo) error {
	if account == "" {
		return fmt.Errorf("account cannot be empty")
	}
	if userInfo == nil {
		return fmt.Errorf("userInfo cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.userInfo[account] = userInfo
	return nil
}

// GetUserInfo retrieves the cached Google user info for an account.
func (s *Store) GetUserInfo(account string) (*GoogleUserInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userInfo, ok := s.userInfo[account]
	if !ok {
		return nil, fmt.Errorf("no user info cached for account: %s", account)
	}

	return userInfo, nil
}

// Stats returns the number of cached tokens and user info entries.
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]int{
		"tokens":    len(s.tokens),
		"user_info": len(s.userInfo),
	}
}

// cleanupExpiredTokens periodically removes expired tokens. Expired entries
// are collected under the read lock and re-checked under the write lock, so
// a token refreshed in between is not lost.
func (s *Store) cleanupExpiredTokens(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		now := time.Now()
		var expired []string
		for account, token := range s.tokens {
			if !token.Expiry.IsZero() && token.Expiry.Before(now) {
				expired = append(expired, account)
			}
		}
		s.mu.RUnlock()

		if len(expired) == 0 {
			continue
		}

		s.mu.Lock()
		now = time.Now()
		for _, account := range expired {
			token, ok := s.tokens[account]
			if ok && !token.Expiry.IsZero() && token.Expiry.Before(now) {
				delete(s.tokens, account)
				delete(s.userInfo, account)
				s.logger.Debug("Evicted expired Google token", logging.UserHash(account))
			}
		}
		s.mu.Unlock()
	}
}
