package oauth

// ProtectedResourceMetadata is OAuth 2.0 Protected Resource Metadata (RFC 9728).
// MCP clients fetch it from /.well-known/oauth-protected-resource to discover
// where to obtain tokens for this server.
type ProtectedResourceMetadata struct {
	// Resource is the identifier for the protected resource
	Resource string `json:"resource"`

	// AuthorizationServers lists the servers that can issue tokens for this resource
	AuthorizationServers []string `json:"authorization_servers"`

	// BearerMethodsSupported lists the ways Bearer tokens can be sent (RFC 6750)
	BearerMethodsSupported []string `json:"bearer_methods_supported,omitempty"`

	// ScopesSupported lists the scopes understood by this resource
	ScopesSupported []string `json:"scopes_supported,omitempty"`
}

// GoogleUserInfo is the response from Google's userinfo endpoint.
type GoogleUserInfo struct {
	// Sub is the unique Google user ID
	Sub string `json:"sub"`

	// Email is the user's email address
	Email string `json:"email"`

	// EmailVerified indicates if the email is verified
	EmailVerified bool `json:"email_verified"`

	// Name is the user's full name
	Name string `json:"name"`

	// Picture is the URL of the user's profile picture
	Picture string `json:"picture"`
}

// ErrorResponse is an OAuth error response body (RFC 6749 section 5.2).
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
