// Package oauth implements the OAuth 2.1 resource-server side of the MCP
// HTTP transports.
//
// The server does not run its own authorization flow. MCP clients obtain
// Google access tokens themselves, discover this server through RFC 9728
// Protected Resource Metadata, and present the tokens as Bearer credentials.
// The middleware validates each token against Google's userinfo endpoint,
// caches it per account so Google API clients can reuse it, and rate limits
// requests per client IP.
package oauth
