package adapter_tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspacemcp/workspacemcp/internal/server"
)

func newTestContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background())
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func registerAdapters(t *testing.T, sc *server.ServerContext, readOnly bool) *mcpserver.MCPServer {
	t.Helper()
	s := mcpserver.NewMCPServer("test", "0.0.1")
	if err := RegisterAdapterTools(s, sc, readOnly, nil); err != nil {
		t.Fatalf("RegisterAdapterTools() error = %v", err)
	}
	return s
}

func TestIsWriteMethod(t *testing.T) {
	tests := []struct {
		method string
		want   bool
	}{
		{"SendMessage", true},
		{"CreateForm", true},
		{"AddQuestions", true},
		{"UpdateQuestions", true},
		{"SetPublishState", true},
		{"ListSpaces", false},
		{"GetForm", false},
		{"SearchMessages", false},
		{"ListResponses", false},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			if got := isWriteMethod(tt.method); got != tt.want {
				t.Errorf("isWriteMethod(%q) = %v, want %v", tt.method, got, tt.want)
			}
		})
	}
}

func TestRegisterAdapterTools(t *testing.T) {
	sc := newTestContext(t)
	registerAdapters(t, sc, false)

	names := sc.Registry().Names()
	if len(names) != 2 {
		t.Fatalf("registry has %d adapters, want 2: %v", len(names), names)
	}
	for _, want := range []string{"google_chat", "google_forms"} {
		if _, ok := sc.Registry().Peek(want); !ok {
			t.Errorf("adapter %s not registered", want)
		}
	}
}

func TestRegisterAdapterToolsReadOnly(t *testing.T) {
	sc := newTestContext(t)
	registerAdapters(t, sc, true)

	// Adapters still register; only the write tools are withheld
	if _, ok := sc.Registry().Peek("google_forms"); !ok {
		t.Fatal("google_forms not registered in read-only mode")
	}
}

func TestChatAdapterMethods(t *testing.T) {
	sc := newTestContext(t)
	registerAdapters(t, sc, false)

	a, ok := sc.Registry().Peek("google_chat")
	if !ok {
		t.Fatal("google_chat not registered")
	}

	for _, method := range []string{"ListSpaces", "GetSpace", "ListMessages", "SendMessage", "SearchMessages"} {
		info, ok := a.Method(method)
		if !ok {
			t.Errorf("method %s missing", method)
			continue
		}
		if !info.Canonical {
			t.Errorf("method %s is not canonical", method)
		}
		if info.Description == "" {
			t.Errorf("method %s has no description", method)
		}
	}
}

func TestFormsAdapterParameterTable(t *testing.T) {
	sc := newTestContext(t)
	registerAdapters(t, sc, false)

	a, ok := sc.Registry().Peek("google_forms")
	if !ok {
		t.Fatal("google_forms not registered")
	}

	info, ok := a.Method("GetForm")
	if !ok {
		t.Fatal("GetForm missing")
	}

	params := make(map[string]bool)
	for _, p := range info.Parameters {
		params[p.Name] = p.Required
	}
	if required, ok := params["formId"]; !ok || !required {
		t.Errorf("formId should be a required parameter, got %v", params)
	}
	if required, ok := params["account"]; !ok || required {
		t.Errorf("account should be an optional parameter, got %v", params)
	}
}

func TestHandleAdapterStatus(t *testing.T) {
	sc := newTestContext(t)
	registerAdapters(t, sc, false)

	result, err := handleAdapterStatus(context.Background(), mcp.CallToolRequest{}, sc)
	if err != nil {
		t.Fatalf("handleAdapterStatus() error = %v", err)
	}
	if result.IsError {
		t.Fatal("handleAdapterStatus() returned an error result")
	}

	text := resultText(t, result)
	for _, want := range []string{"google_chat", "google_forms", `"total": 2`} {
		if !strings.Contains(text, want) {
			t.Errorf("status missing %q in:\n%s", want, text)
		}
	}
}

func TestHandleListAdaptersCategoryFilter(t *testing.T) {
	sc := newTestContext(t)
	registerAdapters(t, sc, false)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"category": "google_workspace"}

	result, err := handleListAdapters(context.Background(), req, sc)
	if err != nil {
		t.Fatalf("handleListAdapters() error = %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "google_chat") || !strings.Contains(text, "google_forms") {
		t.Errorf("expected both workspace adapters, got:\n%s", text)
	}

	req.Params.Arguments = map[string]interface{}{"category": "nonexistent"}
	result, err = handleListAdapters(context.Background(), req, sc)
	if err != nil {
		t.Fatalf("handleListAdapters() error = %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "No adapters found") {
		t.Errorf("expected empty listing, got:\n%s", text)
	}
}

func TestHandleDescribeAdapter(t *testing.T) {
	sc := newTestContext(t)
	registerAdapters(t, sc, false)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"name": "google_chat"}

	result, err := handleDescribeAdapter(context.Background(), req, sc)
	if err != nil {
		t.Fatalf("handleDescribeAdapter() error = %v", err)
	}
	if result.IsError {
		t.Fatal("handleDescribeAdapter() returned an error result")
	}
	text := resultText(t, result)
	for _, want := range []string{"ListSpaces", "SendMessage", "google_chat"} {
		if !strings.Contains(text, want) {
			t.Errorf("description missing %q", want)
		}
	}

	req.Params.Arguments = map[string]interface{}{"name": "unknown"}
	result, err = handleDescribeAdapter(context.Background(), req, sc)
	if err != nil {
		t.Fatalf("handleDescribeAdapter() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result for an unknown adapter")
	}
}

func TestHandleAdapterUsageCountsGets(t *testing.T) {
	sc := newTestContext(t)
	registerAdapters(t, sc, false)

	// Describing an adapter fetches it, which counts as a use
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"name": "google_chat"}
	if _, err := handleDescribeAdapter(context.Background(), req, sc); err != nil {
		t.Fatalf("handleDescribeAdapter() error = %v", err)
	}

	if usage := sc.Registry().Usage("google_chat"); usage != 1 {
		t.Errorf("google_chat usage = %d, want 1", usage)
	}
	if usage := sc.Registry().Usage("google_forms"); usage != 0 {
		t.Errorf("google_forms usage = %d, want 0", usage)
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text
}
