package forms_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	forms_v1 "google.golang.org/api/forms/v1"

	"github.com/workspacemcp/workspacemcp/internal/forms"
	"github.com/workspacemcp/workspacemcp/internal/google"
	"github.com/workspacemcp/workspacemcp/internal/instrumentation"
	"github.com/workspacemcp/workspacemcp/internal/server"
	"github.com/workspacemcp/workspacemcp/internal/tools/common"
)

// RegisterFormsTools registers all Google Forms tools with the MCP server.
// Write operations (creating forms, changing questions, publishing) are
// skipped when readOnly is set.
func RegisterFormsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := RegisterResponseTools(s, sc); err != nil {
		return fmt.Errorf("failed to register response tools: %w", err)
	}

	if err := RegisterPublishTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register publish tools: %w", err)
	}

	// Get form tool
	getFormTool := mcp.NewTool("forms_get_form",
		mcp.WithDescription("Get a Google Form's metadata and items"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("formId",
			mcp.Required(),
			mcp.Description("ID of the form"),
		),
	)

	s.AddTool(getFormTool, common.InstrumentedToolHandlerWithService(
		"forms_get_form", instrumentation.ServiceForms, "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetForm(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	// Create form tool
	createFormTool := mcp.NewTool("forms_create_form",
		mcp.WithDescription("Create a new Google Form"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Form title shown to respondents"),
		),
		mcp.WithString("description",
			mcp.Description("Form description shown below the title"),
		),
		mcp.WithString("documentTitle",
			mcp.Description("Title of the form document in Drive (defaults to the form title)"),
		),
	)

	s.AddTool(createFormTool, common.InstrumentedToolHandlerWithService(
		"forms_create_form", instrumentation.ServiceForms, "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateForm(ctx, request, sc)
		}))

	// Add questions tool
	addQuestionsTool := mcp.NewTool("forms_add_questions",
		mcp.WithDescription("Add questions and items to a Google Form"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("formId",
			mcp.Required(),
			mcp.Description("ID of the form"),
		),
		mcp.WithArray("questions",
			mcp.Required(),
			mcp.Description("Array of question specs. Types: TEXT_QUESTION, MULTIPLE_CHOICE_QUESTION, CHECKBOX_QUESTION, SCALE_QUESTION, DATE_QUESTION, TIME_QUESTION, RATING_QUESTION, IMAGE_ITEM, VIDEO_ITEM, PAGE_BREAK_ITEM, TEXT_ITEM, QUESTION_GROUP_ITEM (rows + grid columns). Gradable question types accept a grading object {point_value, correct_answers, when_right, when_wrong, general_feedback} for quiz forms."),
		),
		mcp.WithNumber("index",
			mcp.Description("Position to insert at (default: 0, the top of the form)"),
		),
	)

	s.AddTool(addQuestionsTool, common.InstrumentedToolHandlerWithService(
		"forms_add_questions", instrumentation.ServiceForms, "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAddQuestions(ctx, request, sc)
		}))

	// Update questions tool
	updateQuestionsTool := mcp.NewTool("forms_update_questions",
		mcp.WithDescription("Update existing questions and items in a Google Form"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("formId",
			mcp.Required(),
			mcp.Description("ID of the form"),
		),
		mcp.WithArray("updates",
			mcp.Required(),
			mcp.Description("Array of updates, each {item_id, title, description, required, text|choice|scale|date|time|rating|image|video|group|grading}. Only set fields are changed."),
		),
	)

	s.AddTool(updateQuestionsTool, common.InstrumentedToolHandlerWithService(
		"forms_update_questions", instrumentation.ServiceForms, "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateQuestions(ctx, request, sc)
		}))

	return nil
}

// formsClient returns the Forms client for the account. A non-nil result
// means the account is not authorized and the caller should return it as
// the tool outcome.
func formsClient(_ context.Context, sc *server.ServerContext, account string) (*forms.Client, *mcp.CallToolResult) {
	client := sc.FormsClientForAccount(account)
	if client == nil {
		return nil, mcp.NewToolResultError(google.GetAuthenticationErrorMessage(account))
	}
	return client, nil
}

func handleGetForm(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
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

	form, err := client.GetForm(formID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get form: %v", err)), nil
	}

	return mcp.NewToolResultText(formatForm(form)), nil
}

func handleCreateForm(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	description, _ := args["description"].(string)
	documentTitle, _ := args["documentTitle"].(string)

	account := common.GetAccountFromArgs(ctx, args)
	client, errResult := formsClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	created, err := client.CreateForm(title, description, documentTitle)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create form: %v", err)), nil
	}

	result := fmt.Sprintf("Form created:\n  ID: %s\n  Title: %s\n  Edit URL: %s\n  Responder URL: %s\n",
		created.FormID, created.Title, created.EditURL, created.ResponderURL)
	return mcp.NewToolResultText(result), nil
}

func handleAddQuestions(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	formID, ok := args["formId"].(string)
	if !ok || formID == "" {
		return mcp.NewToolResultError("formId is required"), nil
	}

	var questions []forms.QuestionSpec
	if err := decodeArg(args, "questions", &questions); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(questions) == 0 {
		return mcp.NewToolResultError("at least one question is required"), nil
	}

	index := int64(0)
	if v, ok := args["index"].(float64); ok && v > 0 {
		index = int64(v)
	}

	account := common.GetAccountFromArgs(ctx, args)
	client, errResult := formsClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	added, err := client.AddQuestions(formID, questions, index)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to add questions: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added %d item(s) to form %s", added, formID)), nil
}

func handleUpdateQuestions(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	formID, ok := args["formId"].(string)
	if !ok || formID == "" {
		return mcp.NewToolResultError("formId is required"), nil
	}

	var updates []forms.QuestionUpdate
	if err := decodeArg(args, "updates", &updates); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(updates) == 0 {
		return mcp.NewToolResultError("at least one update is required"), nil
	}

	account := common.GetAccountFromArgs(ctx, args)
	client, errResult := formsClient(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	updated, err := client.UpdateQuestions(formID, updates)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update questions: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Updated %d item(s) in form %s", updated, formID)), nil
}

// formatForm renders a form's metadata and item list as text.
func formatForm(form *forms_v1.Form) string {
	result := fmt.Sprintf("Form: %s (ID: %s)\n", form.Info.Title, form.FormId)
	if form.Info.Description != "" {
		result += fmt.Sprintf("Description: %s\n", form.Info.Description)
	}
	if form.ResponderUri != "" {
		result += fmt.Sprintf("Responder URL: %s\n", form.ResponderUri)
	}

	if len(form.Items) == 0 {
		return result + "\nNo items\n"
	}

	result += fmt.Sprintf("\n%d item(s):\n", len(form.Items))
	for i, item := range form.Items {
		title := item.Title
		if title == "" {
			title = "(untitled)"
		}
		result += fmt.Sprintf("%d. %s [%s] (item: %s)\n", i+1, title, itemType(item), item.ItemId)
	}
	return result
}

func itemType(item *forms_v1.Item) string {
	switch {
	case item.QuestionItem != nil:
		return "question"
	case item.QuestionGroupItem != nil:
		return "question_group"
	case item.ImageItem != nil:
		return "image"
	case item.VideoItem != nil:
		return "video"
	case item.PageBreakItem != nil:
		return "page_break"
	case item.TextItem != nil:
		return "text"
	default:
		return "unknown"
	}
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
