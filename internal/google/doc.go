// Package google manages the OAuth2 credentials behind every Google API
// client in the server.
//
// Tokens come from one of two sources depending on the transport. On stdio
// the server owns the browser-based authorization flow and caches refresh
// tokens on disk, one file per named account. On the HTTP transports the
// client already holds a Google access token, validated by the OAuth
// middleware, and the TokenProvider installed via SetTokenProvider serves
// those tokens keyed by the authenticated user's email.
package google
