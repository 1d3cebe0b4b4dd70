// Package server provides the MCP server context and the OAuth-enabled
// HTTP server for the workspace MCP application.
//
// # Key Components
//
// ServerContext manages Google API clients (Chat, Forms, Drive) with lazy
// initialization and per-account caching, and owns the adapter registry that
// backs the dynamic workspace tools. It supports multiple accounts and can
// use different token providers:
//   - FileTokenProvider: For STDIO transport, reads tokens from disk
//   - OAuth TokenProvider: For HTTP/SSE transport, uses validated Bearer tokens
//
// OAuthHTTPServer wraps an MCP server with OAuth 2.1 resource-server
// behavior:
//   - Protected Resource Metadata (RFC 9728) for client discovery
//   - Bearer token validation against Google's userinfo endpoint
//   - Per-IP rate limiting and security headers on all responses
//
// MetricsServer and HealthChecker expose Prometheus metrics and Kubernetes
// probe endpoints on a dedicated port, isolated from MCP traffic.
package server
