package adapter

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestToolName(t *testing.T) {
	tests := []struct {
		adapter string
		method  string
		want    string
	}{
		{"google_chat", "ListSpaces", "google_chat_list_spaces"},
		{"google_forms", "CreateForm", "google_forms_create_form"},
		{"local", "Echo", "local_echo"},
	}
	for _, tt := range tests {
		if got := ToolName(tt.adapter, tt.method); got != tt.want {
			t.Errorf("ToolName(%q, %q) = %q, want %q", tt.adapter, tt.method, got, tt.want)
		}
	}
}

func TestToolsSkipsNonCanonical(t *testing.T) {
	a := newEchoAdapter(t)

	tools, err := Tools("echo", a)
	if err != nil {
		t.Fatalf("Tools() error = %v", err)
	}
	// Echo, Fail and Ping are canonical; Concat is not
	if len(tools) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(tools))
	}

	names := make(map[string]bool)
	for _, tool := range tools {
		names[tool.Tool.Name] = true
	}
	for _, want := range []string{"echo_echo", "echo_fail", "echo_ping"} {
		if !names[want] {
			t.Errorf("missing tool %s (have %v)", want, names)
		}
	}
}

func TestToolHandlerDispatch(t *testing.T) {
	a := newEchoAdapter(t)
	tools, err := Tools("echo", a)
	if err != nil {
		t.Fatalf("Tools() error = %v", err)
	}

	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
	for _, tool := range tools {
		if tool.Tool.Name == "echo_echo" {
			handler = tool.Handler
		}
	}
	if handler == nil {
		t.Fatal("echo_echo tool not found")
	}

	request := mcp.CallToolRequest{}
	request.Params.Arguments = map[string]any{"message": "hello"}

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %+v", result.Content)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	if text.Text != `"hello"` {
		t.Errorf("text = %s", text.Text)
	}

	// Validation failures surface as tool errors, not transport errors
	request.Params.Arguments = map[string]any{"bogus": true}
	result, err = handler(context.Background(), request)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for unknown field")
	}
}
