package chat_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	chat_v1 "google.golang.org/api/chat/v1"

	"github.com/workspacemcp/workspacemcp/internal/cards"
	"github.com/workspacemcp/workspacemcp/internal/chat"
	"github.com/workspacemcp/workspacemcp/internal/instrumentation"
	"github.com/workspacemcp/workspacemcp/internal/server"
	"github.com/workspacemcp/workspacemcp/internal/tools/common"
)

// RegisterCardTools registers the Cards v2 message tools with the MCP server.
// All card tools are write operations except chat_list_card_types.
func RegisterCardTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List card types tool (read-only, no account needed)
	listCardTypesTool := mcp.NewTool("chat_list_card_types",
		mcp.WithDescription("List the supported card styles and the fields each one takes"),
	)

	s.AddTool(listCardTypesTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListCardTypes(ctx, request)
	})

	if readOnly {
		return nil
	}

	// Shared delivery parameters for every card-sending tool
	deliveryOpts := []mcp.ToolOption{
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Only used for API delivery."),
		),
		mcp.WithString("space",
			mcp.Description("Space ID to send the card to via the Chat API. Either space or webhookUrl is required."),
		),
		mcp.WithString("webhookUrl",
			mcp.Description("Incoming webhook URL to send the card to. Either space or webhookUrl is required."),
		),
		mcp.WithString("threadKey",
			mcp.Description("Thread key for replying to an existing thread"),
		),
		mcp.WithString("fallbackText",
			mcp.Description("Plain text shown by clients that cannot render cards"),
		),
	}

	// Raw card tool
	sendCardTool := mcp.NewTool("chat_send_card_message",
		append([]mcp.ToolOption{
			mcp.WithDescription("Send a pre-built Cards v2 card object to a Google Chat space or webhook"),
			mcp.WithObject("card",
				mcp.Required(),
				mcp.Description("A Cards v2 card object (header, sections, widgets)"),
			),
		}, deliveryOpts...)...,
	)

	s.AddTool(sendCardTool, common.InstrumentedToolHandlerWithService(
		"chat_send_card_message", instrumentation.ServiceChat, "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendCardMessage(ctx, request, sc)
		}))

	// Simple card tool
	simpleCardTool := mcp.NewTool("chat_send_simple_card",
		append([]mcp.ToolOption{
			mcp.WithDescription("Send a simple card with a header, text and optional image"),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Card header title"),
			),
			mcp.WithString("subtitle",
				mcp.Description("Card header subtitle"),
			),
			mcp.WithString("text",
				mcp.Description("Card body text (supports basic HTML formatting)"),
			),
			mcp.WithString("imageUrl",
				mcp.Description("URL of an image to include in the card"),
			),
		}, deliveryOpts...)...,
	)

	s.AddTool(simpleCardTool, common.InstrumentedToolHandlerWithService(
		"chat_send_simple_card", instrumentation.ServiceChat, "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendSimpleCard(ctx, request, sc)
		}))

	// Interactive card tool
	interactiveCardTool := mcp.NewTool("chat_send_interactive_card",
		append([]mcp.ToolOption{
			mcp.WithDescription("Send a card with clickable link buttons"),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Card header title"),
			),
			mcp.WithString("text",
				mcp.Description("Card body text"),
			),
			mcp.WithArray("buttons",
				mcp.Required(),
				mcp.Description("Array of buttons, each {text, url}"),
			),
		}, deliveryOpts...)...,
	)

	s.AddTool(interactiveCardTool, common.InstrumentedToolHandlerWithService(
		"chat_send_interactive_card", instrumentation.ServiceChat, "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendInteractiveCard(ctx, request, sc)
		}))

	// Form card tool
	formCardTool := mcp.NewTool("chat_send_form_card",
		append([]mcp.ToolOption{
			mcp.WithDescription("Send a card summarizing form fields with a submit button"),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Card header title"),
			),
			mcp.WithArray("fields",
				mcp.Required(),
				mcp.Description("Array of form fields, each {type: 'text'|'selection', name, label, options, required}. Fields render as a text summary; Chat does not honor live inputs on webhook-delivered cards."),
			),
			mcp.WithObject("submit",
				mcp.Description("Submit button {text, url}"),
			),
		}, deliveryOpts...)...,
	)

	s.AddTool(formCardTool, common.InstrumentedToolHandlerWithService(
		"chat_send_form_card", instrumentation.ServiceChat, "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendFormCard(ctx, request, sc)
		}))

	// Rich card tool
	richCardTool := mcp.NewTool("chat_send_rich_card",
		append([]mcp.ToolOption{
			mcp.WithDescription("Send a multi-section card with decorated text, images, buttons and columns"),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Card header title"),
			),
			mcp.WithString("subtitle",
				mcp.Description("Card header subtitle"),
			),
			mcp.WithString("imageUrl",
				mcp.Description("Header image URL"),
			),
			mcp.WithArray("sections",
				mcp.Required(),
				mcp.Description("Array of sections, each {header, collapsible, widgets}; widget types: text_paragraph, decorated_text, image, button_list, columns, divider"),
			),
		}, deliveryOpts...)...,
	)

	s.AddTool(richCardTool, common.InstrumentedToolHandlerWithService(
		"chat_send_rich_card", instrumentation.ServiceChat, "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendRichCard(ctx, request, sc)
		}))

	return nil
}

func handleListCardTypes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog, err := json.MarshalIndent(cards.CardTypes(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to build card type catalog: %v", err)), nil
	}
	return mcp.NewToolResultText(string(catalog)), nil
}

func handleSendCardMessage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	var card chat_v1.GoogleAppsCardV1Card
	if err := decodeArg(args, "card", &card); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return deliverCard(ctx, sc, args, &card)
}

func handleSendSimpleCard(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	subtitle, _ := args["subtitle"].(string)
	text, _ := args["text"].(string)
	imageURL, _ := args["imageUrl"].(string)

	card := cards.SimpleCard(title, subtitle, text, imageURL)
	return deliverCard(ctx, sc, args, card)
}

func handleSendInteractiveCard(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	text, _ := args["text"].(string)

	var buttons []cards.Button
	if err := decodeArg(args, "buttons", &buttons); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(buttons) == 0 {
		return mcp.NewToolResultError("at least one button is required"), nil
	}

	card := cards.InteractiveCard(title, text, buttons)
	return deliverCard(ctx, sc, args, card)
}

func handleSendFormCard(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	var fields []cards.FormField
	if err := decodeArg(args, "fields", &fields); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(fields) == 0 {
		return mcp.NewToolResultError("at least one field is required"), nil
	}

	var submit cards.SubmitAction
	if _, ok := args["submit"]; ok {
		if err := decodeArg(args, "submit", &submit); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	card := cards.FormCard(title, fields, submit)
	return deliverCard(ctx, sc, args, card)
}

func handleSendRichCard(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	subtitle, _ := args["subtitle"].(string)
	imageURL, _ := args["imageUrl"].(string)

	var sections []cards.SectionConfig
	if err := decodeArg(args, "sections", &sections); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(sections) == 0 {
		return mcp.NewToolResultError("at least one section is required"), nil
	}

	card := cards.RichCard(title, subtitle, imageURL, sections)
	return deliverCard(ctx, sc, args, card)
}

// deliverCard validates the card and sends it either through the Chat API
// (space argument) or an incoming webhook (webhookUrl argument).
func deliverCard(ctx context.Context, sc *server.ServerContext, args map[string]interface{}, card *chat_v1.GoogleAppsCardV1Card) (*mcp.CallToolResult, error) {
	if err := cards.Validate(card); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid card: %v", err)), nil
	}

	space, _ := args["space"].(string)
	webhookURL, _ := args["webhookUrl"].(string)
	threadKey, _ := args["threadKey"].(string)
	fallbackText, _ := args["fallbackText"].(string)

	if space == "" && webhookURL == "" {
		return mcp.NewToolResultError("either space or webhookUrl is required"), nil
	}
	if space != "" && webhookURL != "" {
		return mcp.NewToolResultError("space and webhookUrl are mutually exclusive"), nil
	}

	body := cards.NewCardMessage("card-"+uuid.NewString(), card, fallbackText)

	if webhookURL != "" {
		if err := chat.ValidateWebhookURL(webhookURL); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := chat.SendWebhookMessage(webhookURL, body, threadKey); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to send card via webhook: %v", err)), nil
		}
		return mcp.NewToolResultText("Card sent via webhook"), nil
	}

	account := common.GetAccountFromArgs(ctx, args)
	client, errResult := chatClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	msg, err := client.SendCardMessage(space, body, threadKey)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send card: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Card sent to %s (message: %s)", chat.NormalizeSpaceID(space), msg.Name)), nil
}

// decodeArg converts a JSON-shaped argument (map or array from the MCP
// request) into a typed value via a marshal round trip.
func decodeArg(args map[string]interface{}, key string, dst interface{}) error {
	raw, ok := args[key]
	if !ok || raw == nil {
		return fmt.Errorf("%s is required", key)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %v", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("invalid %s: %v", key, err)
	}
	return nil
}
