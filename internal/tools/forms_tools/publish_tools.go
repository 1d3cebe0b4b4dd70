package forms_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspacemcp/workspacemcp/internal/drive"
	"github.com/workspacemcp/workspacemcp/internal/google"
	"github.com/workspacemcp/workspacemcp/internal/instrumentation"
	"github.com/workspacemcp/workspacemcp/internal/server"
	"github.com/workspacemcp/workspacemcp/internal/tools/common"
)

// RegisterPublishTools registers the form publish-state tools with the MCP
// server. Both tools change form state, so neither is registered when
// readOnly is set.
func RegisterPublishTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	// Set publish state tool
	setPublishStateTool := mcp.NewTool("forms_set_publish_state",
		mcp.WithDescription("Publish or unpublish a Google Form and control whether it accepts responses"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("formId",
			mcp.Required(),
			mcp.Description("ID of the form"),
		),
		mcp.WithBoolean("published",
			mcp.Required(),
			mcp.Description("Whether the form is published"),
		),
		mcp.WithBoolean("acceptingResponses",
			mcp.Description("Whether the form accepts responses (default: same as published)"),
		),
		mcp.WithBoolean("removePublicAccess",
			mcp.Description("Also remove the public Drive permission, if one exists (default: false)"),
		),
	)

	s.AddTool(setPublishStateTool, common.InstrumentedToolHandlerWithService(
		"forms_set_publish_state", instrumentation.ServiceForms, "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSetPublishState(ctx, request, sc)
		}))

	// Publish publicly tool
	publishPubliclyTool := mcp.NewTool("forms_publish_publicly",
		mcp.WithDescription("Publish a Google Form and share it so anyone with the link can respond"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("formId",
			mcp.Required(),
			mcp.Description("ID of the form"),
		),
	)

	s.AddTool(publishPubliclyTool, common.InstrumentedToolHandlerWithService(
		"forms_publish_publicly", instrumentation.ServiceForms, "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handlePublishPublicly(ctx, request, sc)
		}))

	return nil
}

// driveClient returns the Drive client for the account. A non-nil result
// means the account is not authorized and the caller should return it as
// the tool outcome.
func driveClient(_ context.Context, sc *server.ServerContext, account string) (*drive.Client, *mcp.CallToolResult) {
	client := sc.DriveClientForAccount(account)
	if client == nil {
		return nil, mcp.NewToolResultError(google.GetAuthenticationErrorMessage(account))
	}
	return client, nil
}

func handleSetPublishState(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	formID, ok := args["formId"].(string)
	if !ok || formID == "" {
		return mcp.NewToolResultError("formId is required"), nil
	}
	published, ok := args["published"].(bool)
	if !ok {
		return mcp.NewToolResultError("published is required"), nil
	}

	acceptingResponses := published
	if v, ok := args["acceptingResponses"].(bool); ok {
		acceptingResponses = v
	}
	removePublicAccess, _ := args["removePublicAccess"].(bool)

	account := common.GetAccountFromArgs(ctx, args)
	client, errResult := formsClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	if err := client.SetPublishSettings(formID, published, acceptingResponses); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to set publish state: %v", err)), nil
	}

	result := fmt.Sprintf("Form %s publish state updated (published: %t, accepting responses: %t)", formID, published, acceptingResponses)

	if removePublicAccess {
		dc, errResult := driveClient(ctx, sc, account)
		if errResult != nil {
			return errResult, nil
		}
		removed, err := dc.RemovePublicAccess(ctx, formID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Publish state updated but removing public access failed: %v", err)), nil
		}
		if removed {
			result += "\nPublic Drive access removed"
		} else {
			result += "\nNo public Drive access to remove"
		}
	}

	return mcp.NewToolResultText(result), nil
}

func handlePublishPublicly(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	formID, ok := args["formId"].(string)
	if !ok || formID == "" {
		return mcp.NewToolResultError("formId is required"), nil
	}

	account := common.GetAccountFromArgs(ctx, args)
	client, errResult := formsClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}
	dc, errResult := driveClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	if err := client.SetPublishSettings(formID, true, true); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to publish form: %v", err)), nil
	}

	if err := dc.ShareAnyoneReader(ctx, formID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Form published but public sharing failed: %v", err)), nil
	}

	form, err := client.GetForm(formID)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Form %s published publicly", formID)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Form %s published publicly\nResponder URL: %s", formID, form.ResponderUri)), nil
}
