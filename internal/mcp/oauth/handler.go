package oauth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/workspacemcp/workspacemcp/internal/google"
	"github.com/workspacemcp/workspacemcp/internal/logging"
)

// defaultUserinfoURL is Google's OpenID Connect userinfo endpoint, used to
// validate Bearer tokens.
const defaultUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Handler is the OAuth resource server for the MCP HTTP transports. It serves
// Protected Resource Metadata, validates Bearer tokens against Google, and
// applies per-IP rate limiting.
type Handler struct {
	config      *Config
	store       *Store
	rateLimiter *RateLimiter
	userinfoURL string
	logger      *slog.Logger
}

// NewHandler creates a resource-server handler from config. The Resource URL
// must use HTTPS unless it points at a loopback address.
func NewHandler(config *Config) (*Handler, error) {
	if config.Resource == "" {
		return nil, fmt.Errorf("resource is required")
	}

	parsedURL, err := url.Parse(config.Resource)
	if err != nil {
		return nil, fmt.Errorf("invalid resource URL: %w", err)
	}
	if parsedURL.Scheme != "https" && !isLoopbackHost(parsedURL.Hostname()) {
		return nil, fmt.Errorf("resource must use HTTPS in production (got %s://)", parsedURL.Scheme)
	}

	if len(config.SupportedScopes) == 0 {
		config.SupportedScopes = google.DefaultOAuthScopes
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = DefaultCleanupInterval
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var rateLimiter *RateLimiter
	if config.RateLimitRate > 0 {
		burst := config.RateLimitBurst
		if burst == 0 {
			burst = config.RateLimitRate * 2
		}
		rateLimiter = NewRateLimiter(config.RateLimitRate, burst, config.TrustProxy)
		logger.Info("IP-based rate limiting enabled",
			"rate", config.RateLimitRate,
			"burst", burst)
	}

	store := NewStoreWithInterval(config.CleanupInterval)
	store.SetLogger(logger)

	return &Handler{
		config:      config,
		store:       store,
		rateLimiter: rateLimiter,
		userinfoURL: defaultUserinfoURL,
		logger:      logger,
	}, nil
}

// GetStore returns the token store backing this handler.
func (h *Handler) GetStore() *Store {
	return h.store
}

// GetConfig returns the handler configuration.
func (h *Handler) GetConfig() *Config {
	return h.config
}

// ServeProtectedResourceMetadata serves RFC 9728 Protected Resource Metadata.
//
// The MCP client flow is:
//  1. Make an unauthenticated request to the MCP endpoint.
//  2. Receive a 401 with a WWW-Authenticate header pointing here.
//  3. Fetch this metadata to discover the authorization servers and scopes.
//  4. Obtain a Google access token and retry with it as a Bearer credential.
func (h *Handler) ServeProtectedResourceMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	metadata := ProtectedResourceMetadata{
		Resource: h.config.Resource,
		AuthorizationServers: []string{
			"https://accounts.google.com",
		},
		BearerMethodsSupported: []string{"header"},
		ScopesSupported:        h.config.SupportedScopes,
	}

	h.setSecurityHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(metadata); err != nil {
		h.logger.Error("Failed to encode resource metadata", logging.Err(err))
	}
}

// setSecurityHeaders sets security headers on HTTP responses.
func (h *Handler) setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
	w.Header().Set("Referrer-Policy", "no-referrer")

	if parsedURL, err := url.Parse(h.config.Resource); err == nil && parsedURL.Scheme == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}
}

// writeError writes an OAuth error response.
func (h *Handler) writeError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	h.logger.Debug("OAuth error", "code", errorCode, "description", description, "status", statusCode)
	h.setSecurityHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:            errorCode,
		ErrorDescription: description,
	})
}

// isLoopbackHost reports whether host is a loopback address where plain HTTP
// is acceptable for development.
func isLoopbackHost(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1", "[::1]":
		return true
	}
	return false
}
