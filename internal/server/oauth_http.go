package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspacemcp/workspacemcp/internal/google"
	"github.com/workspacemcp/workspacemcp/internal/instrumentation"
	"github.com/workspacemcp/workspacemcp/internal/mcp/oauth"
)

// OAuthHTTPServer wraps an MCP server with OAuth 2.1 authentication.
// It serves RFC 9728 Protected Resource Metadata so MCP clients can discover
// how to obtain Google tokens, and validates Bearer tokens on every MCP
// request.
type OAuthHTTPServer struct {
	mcpServer     *mcpserver.MCPServer
	oauthHandler  *oauth.Handler
	httpServer    *http.Server
	serverType    string // "sse" or "streamable-http"
	metrics       *instrumentation.Metrics
	healthChecker *HealthChecker
}

// NewOAuthHTTPServer creates an OAuth-enabled HTTP server for MCP.
// The validated tokens are installed as the process-wide token provider, so
// Google API clients created for an authenticated account reuse the caller's
// Bearer token.
func NewOAuthHTTPServer(mcpServer *mcpserver.MCPServer, serverType string, baseURL string) (*OAuthHTTPServer, error) {
	oauthConfig := &oauth.Config{
		Resource:        baseURL,
		SupportedScopes: google.DefaultOAuthScopes,
		RateLimitRate:   10, // requests per second per IP
		RateLimitBurst:  20,
		CleanupInterval: 1 * time.Minute,
	}

	oauthHandler, err := oauth.NewHandler(oauthConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth handler: %w", err)
	}

	// Route token lookups for Google API clients through the OAuth store
	google.SetTokenProvider(oauth.NewTokenProvider(oauthHandler.GetStore()))

	return &OAuthHTTPServer{
		mcpServer:    mcpServer,
		oauthHandler: oauthHandler,
		serverType:   serverType,
	}, nil
}

// SetMetrics enables HTTP and OAuth metrics recording for this server.
func (s *OAuthHTTPServer) SetMetrics(metrics *instrumentation.Metrics) {
	s.metrics = metrics
}

// SetHealthChecker mounts Kubernetes probe endpoints (/healthz, /readyz)
// on the server. Health endpoints are unauthenticated.
func (s *OAuthHTTPServer) SetHealthChecker(hc *HealthChecker) {
	s.healthChecker = hc
}

// Start starts the OAuth-enabled HTTP server on addr.
func (s *OAuthHTTPServer) Start(addr string) error {
	baseURL := s.oauthHandler.GetConfig().Resource
	if err := validateHTTPSRequirement(baseURL); err != nil {
		return err
	}

	mux := http.NewServeMux()

	if s.healthChecker != nil {
		s.healthChecker.RegisterHealthEndpoints(mux)
	}

	// Protected Resource Metadata endpoint (RFC 9728)
	metadataHandler := http.HandlerFunc(s.oauthHandler.ServeProtectedResourceMetadata)
	mux.Handle("/.well-known/oauth-protected-resource", s.instrumentationMiddleware(
		s.oauthHandler.RateLimitMiddleware(metadataHandler)))

	// Rate limit first, then record OAuth outcomes, then validate the token
	protect := func(next http.Handler) http.Handler {
		return s.instrumentationMiddleware(
			s.oauthHandler.RateLimitMiddleware(
				s.oauthInstrumentationWrapper(
					s.oauthHandler.ValidateGoogleToken(next))))
	}

	switch s.serverType {
	case "sse":
		sseServer := mcpserver.NewSSEServer(s.mcpServer,
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
		)

		mux.Handle("/sse", protect(sseServer))
		mux.Handle("/message", protect(sseServer))

	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath("/mcp"),
		)

		mux.Handle("/mcp", protect(httpServer))

	default:
		return fmt.Errorf("unsupported server type: %s", s.serverType)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *OAuthHTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// responseWriter captures the status code written by a handler so middleware
// can record it.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// instrumentationMiddleware records request count and latency for every HTTP
// request. It is a no-op when metrics are not configured.
func (s *OAuthHTTPServer) instrumentationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	})
}

// oauthInstrumentationWrapper records whether Bearer token validation
// succeeded for a request, keyed off the status code the chain produced.
func (s *OAuthHTTPServer) oauthInstrumentationWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		result := instrumentation.OAuthResultSuccess
		if rw.statusCode == http.StatusUnauthorized {
			result = instrumentation.OAuthResultFailure
		}
		s.metrics.RecordOAuthAuth(r.Context(), result)
	})
}

// GetOAuthHandler returns the OAuth handler for testing or direct access.
func (s *OAuthHTTPServer) GetOAuthHandler() *oauth.Handler {
	return s.oauthHandler
}

// validateHTTPSRequirement ensures OAuth 2.1 HTTPS compliance.
// HTTP is allowed only for loopback addresses (localhost, 127.0.0.1, ::1).
func validateHTTPSRequirement(baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	switch u.Scheme {
	case "https":
		return nil
	case "http":
		host := u.Hostname()
		if host != "localhost" && host != "127.0.0.1" && host != "::1" {
			return fmt.Errorf("OAuth 2.1 requires HTTPS for production (got: %s). Use HTTPS or localhost for development", baseURL)
		}
		return nil
	default:
		return fmt.Errorf("invalid URL scheme: %s. Must be http (localhost only) or https", u.Scheme)
	}
}
