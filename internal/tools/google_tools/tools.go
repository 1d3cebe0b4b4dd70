package google_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspacemcp/workspacemcp/internal/google"
	"github.com/workspacemcp/workspacemcp/internal/server"
)

// accountOption is the shared "account" argument on every auth tool.
var accountOption = mcp.WithString("account",
	mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
)

// RegisterGoogleTools registers the OAuth flow tools. They are not wrapped
// with instrumentation: they run before any token exists, and authorization
// codes must never reach the audit stream.
func RegisterGoogleTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	s.AddTool(
		mcp.NewTool("google_get_auth_url",
			mcp.WithDescription("Get the OAuth URL to authorize Google services access (Chat, Forms, Drive) for a specific account"),
			accountOption,
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetAuthURL(request)
		},
	)

	s.AddTool(
		mcp.NewTool("google_save_auth_code",
			mcp.WithDescription("Save the OAuth authorization code to complete Google services authentication (Chat, Forms, Drive) for a specific account"),
			accountOption,
			mcp.WithString("authCode",
				mcp.Required(),
				mcp.Description("The authorization code from Google OAuth"),
			),
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSaveAuthCode(ctx, request)
		},
	)

	s.AddTool(
		mcp.NewTool("google_check_auth",
			mcp.WithDescription("Check whether a Google account is authorized for Chat, Forms and Drive access"),
			accountOption,
		),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckAuth(request)
		},
	)

	return nil
}

// accountArg reads the account argument directly rather than going through
// the OAuth context: these tools authorize local accounts, so an explicit
// argument always wins.
func accountArg(request mcp.CallToolRequest) string {
	if account, ok := request.GetArguments()["account"].(string); ok && account != "" {
		return account
	}
	return "default"
}

func handleGetAuthURL(request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	account := accountArg(request)

	result := fmt.Sprintf(`To authorize Google services access (Chat, Forms, Drive) for account "%s":

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google services
4. Copy the authorization code

5. Call the google_save_auth_code tool with the code and account name to complete authentication`,
		account, google.GetAuthURLForAccount(account))

	return mcp.NewToolResultText(result), nil
}

func handleSaveAuthCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	account := accountArg(request)

	authCode, ok := request.GetArguments()["authCode"].(string)
	if !ok || authCode == "" {
		return mcp.NewToolResultError("authCode is required"), nil
	}

	if err := google.SaveTokenForAccount(ctx, account, authCode); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to save authorization code for account %s: %v", account, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Authorization successful for account '%s'. Google services token saved. You can now use all Chat and Forms tools with this account.", account)), nil
}

func handleCheckAuth(request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	account := accountArg(request)

	if !google.HasTokenForAccount(account) {
		return mcp.NewToolResultText(fmt.Sprintf("Account '%s' is not authorized. Call google_get_auth_url to start the OAuth flow.", account)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Account '%s' is authorized for Chat, Forms and Drive access.", account)), nil
}
