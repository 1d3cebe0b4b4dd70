package google

// DefaultOAuthScopes are the Google OAuth scopes required for full MCP functionality.
// These scopes are used consistently across the application for OAuth configurations.
//
// The scopes provide access to:
//   - Google Chat: spaces, messages (read and write), memberships
//   - Google Forms: form body (read and write), responses (read-only)
//   - Google Drive: file-level access for publishing forms
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Chat scopes
	"https://www.googleapis.com/auth/chat.spaces",
	"https://www.googleapis.com/auth/chat.spaces.readonly",
	"https://www.googleapis.com/auth/chat.messages",
	"https://www.googleapis.com/auth/chat.messages.readonly",
	"https://www.googleapis.com/auth/chat.memberships.readonly",

	// Google Forms scopes
	"https://www.googleapis.com/auth/forms.body",
	"https://www.googleapis.com/auth/forms.body.readonly",
	"https://www.googleapis.com/auth/forms.responses.readonly",

	// Google Drive scope (sharing forms publicly)
	"https://www.googleapis.com/auth/drive.file",
}
