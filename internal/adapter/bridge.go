package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolName derives an MCP tool name from an adapter and method name,
// e.g. google_chat + ListSpaces -> google_chat_list_spaces.
func ToolName(adapterName, methodName string) string {
	return adapterName + "_" + snakeCase(methodName)
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tools converts every canonical method of the adapter into an MCP tool
// whose handler dispatches through Call. Non-canonical methods are skipped;
// they remain visible through the describe tooling but cannot be invoked.
func Tools(adapterName string, a *Adapter) ([]server.ServerTool, error) {
	var tools []server.ServerTool
	for _, info := range a.Methods() {
		if !info.Canonical {
			continue
		}

		rawSchema, err := json.Marshal(info.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("encoding schema for %s.%s: %w", adapterName, info.Name, err)
		}

		description := info.Description
		if description == "" {
			description = fmt.Sprintf("%s method of the %s adapter", info.Name, adapterName)
		}

		method := info.Name
		tools = append(tools, server.ServerTool{
			Tool:    mcp.NewToolWithRawSchema(ToolName(adapterName, method), description, rawSchema),
			Handler: callHandler(a, method),
		})
	}
	return tools, nil
}

func callHandler(a *Adapter, method string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawArgs, err := json.Marshal(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		result, err := a.Call(ctx, method, rawArgs)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(result)), nil
	}
}
