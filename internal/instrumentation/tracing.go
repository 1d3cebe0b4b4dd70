package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies this module's tracer.
const TracerName = "github.com/workspacemcp/workspacemcp"

// Span attribute keys.
const (
	SpanAttrTool      = "mcp.tool"
	SpanAttrAccount   = "mcp.account"
	SpanAttrService   = "google.service"
	SpanAttrOperation = "google.operation"
)

// StartToolSpan opens a server-kind span named "tool.<name>" for an MCP tool
// invocation. The caller must end the returned span.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{attribute.String(SpanAttrTool, toolName)}, attrs...)
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, "tool."+toolName,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// SetSpanError marks the span failed and records err on it.
func SetSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanSuccess marks the span OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the current trace ID, or "" outside a sampled span.
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID returns the current span ID, or "" outside a sampled span.
func GetSpanID(ctx context.Context) string {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}
