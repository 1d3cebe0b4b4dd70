// Package google_tools registers the MCP tools that drive the Google OAuth
// authorization flow on stdio, where no Bearer token identifies the caller.
//
// A single token per account covers every service this server touches: Chat,
// Forms, and Drive. The flow an assistant walks through:
//
//  1. google_check_auth reports whether an account already holds a token
//  2. google_get_auth_url returns the consent URL for the user to visit
//  3. the user pastes the authorization code back to the assistant
//  4. google_save_auth_code exchanges the code and stores the refresh token
//
// After that, the token refreshes itself and the Chat and Forms tools work
// without further interaction.
package google_tools
