package oauth

import (
	"log/slog"
	"time"
)

// DefaultCleanupInterval is how often the token store evicts expired tokens.
const DefaultCleanupInterval = 1 * time.Minute

// Config holds the resource-server configuration.
type Config struct {
	// Resource is the canonical URL of this server, used as the RFC 9728
	// resource identifier and in WWW-Authenticate challenges.
	Resource string

	// SupportedScopes lists the Google OAuth scopes this server understands.
	// Defaults to google.DefaultOAuthScopes when empty.
	SupportedScopes []string

	// RateLimitRate is the allowed requests per second per client IP.
	// Zero disables rate limiting.
	RateLimitRate int

	// RateLimitBurst is the maximum burst size per client IP.
	// Defaults to twice RateLimitRate.
	RateLimitBurst int

	// TrustProxy controls whether X-Forwarded-For and X-Real-IP headers are
	// trusted when extracting the client IP. Enable only behind a proxy that
	// sets them.
	TrustProxy bool

	// CleanupInterval is how often the token store evicts expired tokens.
	// Defaults to DefaultCleanupInterval.
	CleanupInterval time.Duration

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}
