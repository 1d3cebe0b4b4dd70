package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/workspacemcp/workspacemcp/internal/instrumentation"
	"github.com/workspacemcp/workspacemcp/internal/server"
)

// InstrumentedToolHandler wraps handler so each call runs inside a tool span
// and is timed, counted in the tool-invocation metrics, and written to the
// audit log. When neither metrics nor an audit logger is configured on the
// server context the wrapper is a pass-through.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return instrumented(toolName, "", "", sc, handler)
}

// InstrumentedToolHandlerWithService additionally attributes the call to a
// Google service and operation, so the per-service API metrics
// (google_api_operations_total and its duration histogram) are recorded
// alongside the tool-level ones.
func InstrumentedToolHandlerWithService(
	toolName, serviceName, operation string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return instrumented(toolName, serviceName, operation, sc, handler)
}

func instrumented(
	toolName, serviceName, operation string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()
		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		account := GetAccountFromArgs(ctx, request.GetArguments())

		var spanAttrs []attribute.KeyValue
		if serviceName != "" {
			spanAttrs = append(spanAttrs,
				attribute.String(instrumentation.SpanAttrService, serviceName),
				attribute.String(instrumentation.SpanAttrOperation, operation),
			)
		}
		if account != "" {
			spanAttrs = append(spanAttrs, attribute.String(instrumentation.SpanAttrAccount, account))
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, spanAttrs...)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).WithSpanContext(ctx)
		if serviceName != "" {
			invocation.WithService(serviceName, operation)
		}
		if account != "" {
			invocation.WithAccount(account)
		}

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		// A handler can fail two ways: a Go error, or a well-formed result
		// whose IsError flag is set. Both count as an error for metrics.
		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		if metrics != nil {
			metrics.RecordToolInvocation(ctx, toolName, status, account, duration)
			if serviceName != "" {
				metrics.RecordGoogleAPIOperation(ctx, serviceName, operation, status, duration)
			}
		}
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
