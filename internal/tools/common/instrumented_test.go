package common

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/workspacemcp/workspacemcp/internal/instrumentation"
	"github.com/workspacemcp/workspacemcp/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background())
	if err != nil {
		t.Fatalf("NewServerContext() error: %v", err)
	}
	t.Cleanup(func() { sc.Shutdown() })
	return sc
}

func TestInstrumentedToolHandlerPassThrough(t *testing.T) {
	// With no metrics and no audit logger the wrapper must not get in the
	// way of either the result or the error.
	sc := newTestServerContext(t)

	called := false
	wrapped := InstrumentedToolHandler("test_tool", sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("ok"), nil
	})

	result, err := wrapped(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("wrapped() error: %v", err)
	}
	if !called {
		t.Error("handler was not called")
	}
	if result == nil {
		t.Error("expected a result")
	}
}

func TestInstrumentedToolHandlerPropagatesError(t *testing.T) {
	sc := newTestServerContext(t)

	want := errors.New("chat API unreachable")
	wrapped := InstrumentedToolHandler("test_tool", sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, want
	})

	if _, err := wrapped(context.Background(), mcp.CallToolRequest{}); !errors.Is(err, want) {
		t.Errorf("wrapped() error = %v, want %v", err, want)
	}
}

func TestInstrumentedToolHandlerKeepsErrorResult(t *testing.T) {
	sc := newTestServerContext(t)

	wrapped := InstrumentedToolHandler("test_tool", sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("space not found"), nil
	})

	result, err := wrapped(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("wrapped() error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("expected an error result")
	}
}

func TestInstrumentedToolHandlerRegistersWithMCPServer(t *testing.T) {
	// The wrapped handler must satisfy the handler type AddTool expects.
	sc := newTestServerContext(t)

	var handler mcpserver.ToolHandlerFunc = InstrumentedToolHandler("test_tool", sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})

	s := mcpserver.NewMCPServer("test", "0.0.1", mcpserver.WithToolCapabilities(false))
	s.AddTool(mcp.NewTool("test_tool"), handler)
	s.AddTool(mcp.NewTool("test_tool_with_service"),
		InstrumentedToolHandlerWithService("test_tool_with_service", "chat", "list", sc,
			func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText("ok"), nil
			}))
}

func TestInstrumentedToolHandlerWithServiceRecordsMetrics(t *testing.T) {
	sc := newTestServerContext(t)

	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := instrumentation.NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("NewMetrics() error: %v", err)
	}
	sc.SetMetrics(metrics)

	wrapped := InstrumentedToolHandlerWithService("chat_list_spaces", "chat", "list", sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})

	// The noop meter cannot surface recorded values; this exercises the
	// metrics path for panics and leaves verification to the metrics tests.
	result, err := wrapped(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("wrapped() error: %v", err)
	}
	if result == nil {
		t.Error("expected a result")
	}
}

func TestInstrumentedToolHandlerWithServiceErrorPath(t *testing.T) {
	sc := newTestServerContext(t)

	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := instrumentation.NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("NewMetrics() error: %v", err)
	}
	sc.SetMetrics(metrics)

	want := errors.New("form does not exist")
	wrapped := InstrumentedToolHandlerWithService("forms_get_form", "forms", "get", sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, want
	})

	if _, err := wrapped(context.Background(), mcp.CallToolRequest{}); !errors.Is(err, want) {
		t.Errorf("wrapped() error = %v, want %v", err, want)
	}
}
