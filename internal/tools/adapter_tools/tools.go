package adapter_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspacemcp/workspacemcp/internal/adapter"
	"github.com/workspacemcp/workspacemcp/internal/server"
)

var chatMethodDocs = map[string]string{
	"ListSpaces":     "List Google Chat spaces (rooms and direct messages) the account is a member of",
	"GetSpace":       "Get a single Google Chat space by ID or resource name",
	"ListMessages":   "List recent messages in a Google Chat space",
	"SendMessage":    "Send a text message to a Google Chat space",
	"SearchMessages": "Search for messages in one space or across all joined spaces",
}

var formsMethodDocs = map[string]string{
	"CreateForm":      "Create a new Google Form",
	"GetForm":         "Get a Google Form's metadata and items",
	"AddQuestions":    "Add questions and items to a Google Form",
	"UpdateQuestions": "Update existing questions and items in a Google Form",
	"GetResponse":     "Get a single response to a Google Form",
	"ListResponses":   "List responses to a Google Form",
	"SetPublishState": "Publish or unpublish a Google Form",
}

// writeMethodPrefixes classifies adapter methods that mutate state so they
// can be withheld in read-only mode.
var writeMethodPrefixes = []string{"Send", "Create", "Add", "Update", "Set", "Publish", "Delete", "Remove"}

func isWriteMethod(name string) bool {
	for _, prefix := range writeMethodPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// RegisterAdapterTools registers the Workspace service adapters in the
// registry, exposes their canonical methods as dynamically generated MCP
// tools, and registers the registry management tools. When disc is non-nil,
// adapters declared in discovered config files are registered as well.
func RegisterAdapterTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool, disc *adapter.Discovery) error {
	registry := sc.Registry()

	if _, err := registry.RegisterWorkspace("google_chat", "chat", NewChatService(sc),
		adapter.WithMethodDocs(chatMethodDocs)); err != nil {
		return fmt.Errorf("failed to register chat adapter: %w", err)
	}

	if _, err := registry.RegisterWorkspace("google_forms", "forms", NewFormsService(sc),
		adapter.WithMethodDocs(formsMethodDocs)); err != nil {
		return fmt.Errorf("failed to register forms adapter: %w", err)
	}

	if disc != nil {
		if err := registerConfiguredAdapters(sc, disc); err != nil {
			return err
		}
	}

	if err := registerDynamicTools(s, sc, readOnly); err != nil {
		return err
	}

	return registerManagementTools(s, sc)
}

// registerConfiguredAdapters registers one adapter per discovered config
// file. A config names a Workspace service and can override the generated
// metadata, so one service can appear under several adapter names (for
// example a "team_chat" adapter with its own keywords).
func registerConfiguredAdapters(sc *server.ServerContext, disc *adapter.Discovery) error {
	names, err := disc.Configs()
	if err != nil {
		return fmt.Errorf("failed to discover adapter configs: %w", err)
	}

	for _, name := range names {
		cfg, err := disc.LoadConfig(name)
		if err != nil {
			return fmt.Errorf("failed to load adapter config %s: %w", name, err)
		}
		if cfg.Name == "" {
			continue
		}
		if _, ok := sc.Registry().Peek(cfg.Name); ok {
			continue
		}

		var target any
		switch cfg.Service {
		case "chat":
			target = NewChatService(sc)
		case "forms":
			target = NewFormsService(sc)
		default:
			return fmt.Errorf("adapter config %s names unknown service %q", name, cfg.Service)
		}

		var opts []adapter.Option
		if cfg.Metadata != nil {
			opts = append(opts, adapter.WithMetadata(*cfg.Metadata))
		}
		if _, err := sc.Registry().RegisterWorkspace(cfg.Name, cfg.Service, target, opts...); err != nil {
			return fmt.Errorf("failed to register configured adapter %s: %w", cfg.Name, err)
		}
	}

	return nil
}

// registerDynamicTools converts every canonical adapter method into an MCP
// tool. Write methods are withheld in read-only mode.
func registerDynamicTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registry := sc.Registry()

	for _, name := range registry.Names() {
		a, ok := registry.Peek(name)
		if !ok {
			continue
		}

		tools, err := adapter.Tools(name, a)
		if err != nil {
			return fmt.Errorf("failed to build tools for adapter %s: %w", name, err)
		}

		// Tool names are <adapter>_<snake_case method>; map the suffix back
		// to the method name for read-only gating and metrics labels.
		methodBySuffix := make(map[string]string, len(a.Methods()))
		for _, info := range a.Methods() {
			suffix := strings.TrimPrefix(adapter.ToolName(name, info.Name), name+"_")
			methodBySuffix[suffix] = info.Name
		}

		for _, tool := range tools {
			suffix := strings.TrimPrefix(tool.Tool.Name, name+"_")
			method := methodBySuffix[suffix]
			if readOnly && isWriteMethod(method) {
				continue
			}
			s.AddTool(tool.Tool, instrumentedAdapterHandler(sc, name, method, tool.Handler))
		}
	}

	return nil
}

// instrumentedAdapterHandler records adapter call metrics around a dynamic
// tool handler.
func instrumentedAdapterHandler(sc *server.ServerContext, adapterName, method string, next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		result, err := next(ctx, request)

		if m := sc.Metrics(); m != nil {
			status := "success"
			if err != nil || (result != nil && result.IsError) {
				status = "error"
			}
			m.RecordAdapterCall(ctx, adapterName, method, status, time.Since(start))
		}

		return result, err
	}
}

// registerManagementTools registers the workspace_* registry inspection
// tools. These never touch Google APIs, so they are always available.
func registerManagementTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	statusTool := mcp.NewTool("workspace_adapter_status",
		mcp.WithDescription("Show the adapter registry status: registered adapters, their methods and usage counts"),
	)

	s.AddTool(statusTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAdapterStatus(ctx, request, sc)
	})

	listTool := mcp.NewTool("workspace_list_adapters",
		mcp.WithDescription("List registered adapters, optionally filtered by category or keywords"),
		mcp.WithString("category",
			mcp.Description("Only list adapters in this category (e.g. 'google_workspace')"),
		),
		mcp.WithString("keywords",
			mcp.Description("Comma-separated keywords; adapters matching any keyword are listed"),
		),
	)

	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListAdapters(ctx, request, sc)
	})

	describeTool := mcp.NewTool("workspace_describe_adapter",
		mcp.WithDescription("Describe a registered adapter: metadata, methods and parameters"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the adapter (e.g. 'google_chat')"),
		),
	)

	s.AddTool(describeTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDescribeAdapter(ctx, request, sc)
	})

	usageTool := mcp.NewTool("workspace_adapter_usage",
		mcp.WithDescription("Show how often each registered adapter has been used"),
	)

	s.AddTool(usageTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAdapterUsage(ctx, request, sc)
	})

	return nil
}

type adapterStatus struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Methods     int    `json:"methods"`
	Usage       int64  `json:"usage"`
	Description string `json:"description,omitempty"`
}

func handleAdapterStatus(_ context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	registry := sc.Registry()
	names := registry.Names()
	usage := registry.ListUsage()

	statuses := make([]adapterStatus, 0, len(names))
	for _, name := range names {
		meta, ok := registry.Metadata(name)
		if !ok {
			continue
		}
		status := adapterStatus{
			Name:        name,
			Category:    meta.Category,
			Usage:       usage[name],
			Description: meta.Description,
		}
		if a, ok := registry.Peek(name); ok {
			status.Methods = len(a.Methods())
		}
		statuses = append(statuses, status)
	}

	payload := map[string]interface{}{
		"adapters": statuses,
		"total":    len(statuses),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleListAdapters(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	registry := sc.Registry()

	names := registry.Names()
	if category, ok := args["category"].(string); ok && category != "" {
		names = registry.FilterByCategory(category)
	}
	if raw, ok := args["keywords"].(string); ok && raw != "" {
		var keywords []string
		for _, kw := range strings.Split(raw, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		matched := registry.FilterByKeywords(keywords)
		names = intersect(names, matched)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return mcp.NewToolResultText("No adapters found"), nil
	}

	metadata := make([]adapter.Metadata, 0, len(names))
	for _, name := range names {
		if meta, ok := registry.Metadata(name); ok {
			metadata = append(metadata, meta)
		}
	}

	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format adapters: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleDescribeAdapter(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	a, ok := sc.Registry().Get(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("Adapter %s is not registered", name)), nil
	}

	payload := map[string]interface{}{
		"metadata": a.Metadata(),
		"methods":  a.Methods(),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format adapter description: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleAdapterUsage(_ context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	usage := sc.Registry().ListUsage()

	data, err := json.MarshalIndent(usage, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format usage: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func intersect(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, s := range b {
		set[s] = true
	}
	var out []string
	for _, s := range a {
		if set[s] {
			out = append(out, s)
		}
	}
	return out
}
