package forms_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspacemcp/workspacemcp/internal/instrumentation"
	"github.com/workspacemcp/workspacemcp/internal/server"
	"github.com/workspacemcp/workspacemcp/internal/tools/common"
)

// RegisterResponseTools registers the form response tools with the MCP
// server. Responses are read-only, so these are always available.
func RegisterResponseTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Get response tool
	getResponseTool := mcp.NewTool("forms_get_response",
		mcp.WithDescription("Get a single response to a Google Form"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("formId",
			mcp.Required(),
			mcp.Description("ID of the form"),
		),
		mcp.WithString("responseId",
			mcp.Required(),
			mcp.Description("ID of the response"),
		),
	)

	s.AddTool(getResponseTool, common.InstrumentedToolHandlerWithService(
		"forms_get_response", instrumentation.ServiceForms, "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetResponse(ctx, request, sc)
		}))

	// List responses tool
	listResponsesTool := mcp.NewTool("forms_list_responses",
		mcp.WithDescription("List responses to a Google Form"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("formId",
			mcp.Required(),
			mcp.Description("ID of the form"),
		),
		mcp.WithNumber("pageSize",
			mcp.Description("Maximum number of responses to return (default: 100)"),
		),
		mcp.WithString("pageToken",
			mcp.Description("Page token from a previous listing"),
		),
	)

	s.AddTool(listResponsesTool, common.InstrumentedToolHandlerWithService(
		"forms_list_responses", instrumentation.ServiceForms, "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListResponses(ctx, request, sc)
		}))

	return nil
}

func handleGetResponse(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	formID, ok := args["formId"].(string)
	if !ok || formID == "" {
		return mcp.NewToolResultError("formId is required"), nil
	}
	responseID, ok := args["responseId"].(string)
	if !ok || responseID == "" {
		return mcp.NewToolResultError("responseId is required"), nil
	}

	account := common.GetAccountFromArgs(ctx, args)
	client, errResult := formsClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	response, err := client.GetResponse(formID, responseID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get response: %v", err)), nil
	}

	data, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleListResponses(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	formID, ok := args["formId"].(string)
	if !ok || formID == "" {
		return mcp.NewToolResultError("formId is required"), nil
	}

	pageSize := int64(100)
	if v, ok := args["pageSize"].(float64); ok && v > 0 {
		pageSize = int64(v)
	}
	pageToken, _ := args["pageToken"].(string)

	account := common.GetAccountFromArgs(ctx, args)
	client, errResult := formsClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	responses, nextPageToken, err := client.ListResponses(formID, pageSize, pageToken)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list responses: %v", err)), nil
	}

	if len(responses) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No responses found for form %s", formID)), nil
	}

	payload := map[string]interface{}{
		"responses": responses,
	}
	if nextPageToken != "" {
		payload["nextPageToken"] = nextPageToken
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format responses: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
