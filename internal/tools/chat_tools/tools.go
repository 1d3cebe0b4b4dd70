package chat_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspacemcp/workspacemcp/internal/chat"
	"github.com/workspacemcp/workspacemcp/internal/google"
	"github.com/workspacemcp/workspacemcp/internal/instrumentation"
	"github.com/workspacemcp/workspacemcp/internal/server"
	"github.com/workspacemcp/workspacemcp/internal/tools/batch"
	"github.com/workspacemcp/workspacemcp/internal/tools/common"
)

// RegisterChatTools registers all Google Chat tools with the MCP server.
// Write operations (sending messages and cards) are skipped when readOnly
// is set.
func RegisterChatTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List spaces tool
	listSpacesTool := mcp.NewTool("chat_list_spaces",
		mcp.WithDescription("List Google Chat spaces (rooms and direct messages) the account is a member of"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("pageSize",
			mcp.Description("Maximum number of spaces to return (default: 100, max: 1000)"),
		),
		mcp.WithString("spaceType",
			mcp.Description("Filter by space type: 'all', 'room' or 'dm' (default: 'all')"),
		),
	)

	s.AddTool(listSpacesTool, common.InstrumentedToolHandlerWithService(
		"chat_list_spaces", instrumentation.ServiceChat, "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListSpaces(ctx, request, sc)
		}))

	// Get messages tool
	getMessagesTool := mcp.NewTool("chat_get_messages",
		mcp.WithDescription("Get recent messages from a Google Chat space"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("space",
			mcp.Required(),
			mcp.Description("Space ID or resource name (e.g., 'AAAA1234' or 'spaces/AAAA1234')"),
		),
		mcp.WithNumber("pageSize",
			mcp.Description("Maximum number of messages to return (default: 25)"),
		),
		mcp.WithString("orderBy",
			mcp.Description("Sort order: 'createTime desc' (default) or 'createTime asc'"),
		),
	)

	s.AddTool(getMessagesTool, common.InstrumentedToolHandlerWithService(
		"chat_get_messages", instrumentation.ServiceChat, "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetMessages(ctx, request, sc)
		}))

	// Search messages tool
	searchMessagesTool := mcp.NewTool("chat_search_messages",
		mcp.WithDescription("Search for messages containing a text query, in one space or across all spaces"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to search for (case-insensitive substring match)"),
		),
		mcp.WithString("space",
			mcp.Description("Space ID to search in. When omitted, all joined spaces are searched."),
		),
		mcp.WithNumber("pageSize",
			mcp.Description("Maximum number of matches to return (default: 25)"),
		),
	)

	s.AddTool(searchMessagesTool, common.InstrumentedToolHandlerWithService(
		"chat_search_messages", instrumentation.ServiceChat, "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchMessages(ctx, request, sc)
		}))

	if !readOnly {
		// Send message tool (supports single or multiple spaces)
		sendMessageTool := mcp.NewTool("chat_send_message",
			mcp.WithDescription("Send a text message to one or more Google Chat spaces"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("space",
				mcp.Required(),
				mcp.Description("Space ID (string) or array of space IDs to send the message to"),
			),
			mcp.WithString("text",
				mcp.Required(),
				mcp.Description("Message text to send"),
			),
			mcp.WithString("threadKey",
				mcp.Description("Thread key for replying to an existing thread"),
			),
		)

		s.AddTool(sendMessageTool, common.InstrumentedToolHandlerWithService(
			"chat_send_message", instrumentation.ServiceChat, "send", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleSendMessage(ctx, request, sc)
			}))
	}

	return RegisterCardTools(s, sc, readOnly)
}

// chatClient returns the Chat client for the account. A non-nil result
// means the account is not authorized and the caller should return it as
// the tool outcome.
func chatClient(_ context.Context, sc *server.ServerContext, account string) (*chat.Client, *mcp.CallToolResult) {
	client := sc.ChatClientForAccount(account)
	if client == nil {
		return nil, mcp.NewToolResultError(google.GetAuthenticationErrorMessage(account))
	}
	return client, nil
}

func handleListSpaces(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	pageSize := int64(100)
	if v, ok := args["pageSize"].(float64); ok && v > 0 {
		pageSize = int64(v)
	}

	spaceType := "all"
	if v, ok := args["spaceType"].(string); ok && v != "" {
		spaceType = v
	}
	if _, err := chat.SpaceTypeFilter(spaceType); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	account := common.GetAccountFromArgs(ctx, args)
	client, errResult := chatClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	spaces, err := client.ListSpaces(pageSize, spaceType)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list spaces: %v", err)), nil
	}

	if len(spaces) == 0 {
		return mcp.NewToolResultText("No spaces found"), nil
	}

	result := fmt.Sprintf("Found %d space(s):\n\n", len(spaces))
	for i, space := range spaces {
		result += fmt.Sprintf("%d. %s\n   ID: %s\n   Type: %s\n", i+1, space.DisplayName, space.Name, space.Type)
		if space.Threaded {
			result += "   Threaded: yes\n"
		}
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func handleGetMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	space, ok := args["space"].(string)
	if !ok || space == "" {
		return mcp.NewToolResultError("space is required"), nil
	}

	pageSize := int64(25)
	if v, ok := args["pageSize"].(float64); ok && v > 0 {
		pageSize = int64(v)
	}

	orderBy := "createTime desc"
	if v, ok := args["orderBy"].(string); ok && v != "" {
		orderBy = v
	}

	account := common.GetAccountFromArgs(ctx, args)
	client, errResult := chatClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	messages, err := client.ListMessages(space, pageSize, orderBy)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get messages: %v", err)), nil
	}

	if len(messages) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No messages found in space %s", chat.NormalizeSpaceID(space))), nil
	}

	result := fmt.Sprintf("Found %d message(s) in %s:\n\n", len(messages), chat.NormalizeSpaceID(space))
	for i, msg := range messages {
		result += formatMessage(i+1, msg)
	}

	return mcp.NewToolResultText(result), nil
}

func handleSearchMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	space := ""
	if v, ok := args["space"].(string); ok {
		space = v
	}

	pageSize := int64(25)
	if v, ok := args["pageSize"].(float64); ok && v > 0 {
		pageSize = int64(v)
	}

	account := common.GetAccountFromArgs(ctx, args)
	client, errResult := chatClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	messages, err := client.SearchMessages(query, space, pageSize)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search messages: %v", err)), nil
	}

	if len(messages) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No messages found matching: %s", query)), nil
	}

	result := fmt.Sprintf("Found %d message(s) matching %q:\n\n", len(messages), query)
	for i, msg := range messages {
		result += formatMessage(i+1, msg)
	}

	return mcp.NewToolResultText(result), nil
}

func handleSendMessage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	spaces, err := batch.Targets(args["space"], "space")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, ok := args["text"].(string)
	if !ok || text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	threadKey := ""
	if v, ok := args["threadKey"].(string); ok {
		threadKey = v
	}

	account := common.GetAccountFromArgs(ctx, args)
	client, errResult := chatClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	// Single space: keep the simple confirmation output
	if len(spaces) == 1 {
		msg, err := client.SendMessage(spaces[0], text, threadKey)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to send message: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Message sent to %s (message: %s)", chat.NormalizeSpaceID(spaces[0]), msg.Name)), nil
	}

	summary := batch.Deliver(spaces, func(space string) (string, error) {
		msg, err := client.SendMessage(space, text, threadKey)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("sent as %s", msg.Name), nil
	})

	return mcp.NewToolResultText(summary.JSON()), nil
}

func formatMessage(index int, msg chat.Message) string {
	result := fmt.Sprintf("%d. %s (%s)\n   %s\n", index, msg.Sender, msg.CreateTime, msg.Text)
	if msg.SpaceName != "" {
		result += fmt.Sprintf("   Space: %s\n", msg.SpaceName)
	}
	if msg.Name != "" {
		result += fmt.Sprintf("   ID: %s\n", msg.Name)
	}
	return result + "\n"
}
