package common

import (
	"context"

	"github.com/workspacemcp/workspacemcp/internal/mcp/oauth"
)

// DefaultAccount is the account name used when a request neither carries an
// authenticated OAuth identity nor an explicit "account" argument.
const DefaultAccount = "default"

// GetAccountFromArgs resolves which Google account a tool call should run as.
//
// When the request arrived over an OAuth-protected transport, the middleware
// has already validated the Bearer token and stashed the user's identity in
// the context; that identity wins over anything in the arguments, so a caller
// cannot impersonate another account by passing "account" explicitly. On
// stdio there is no token, and the "account" argument selects between the
// locally stored credentials, falling back to DefaultAccount.
func GetAccountFromArgs(ctx context.Context, args map[string]interface{}) string {
	if user, ok := oauth.GetUserFromContext(ctx); ok && user != nil && user.Email != "" {
		return user.Email
	}
	if account, ok := args["account"].(string); ok && account != "" {
		return account
	}
	return DefaultAccount
}
