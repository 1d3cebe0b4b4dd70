package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric label keys.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrService   = "service"
	attrOperation = "operation"
	attrResult    = "result"
	attrTool      = "tool"
	attrAccount   = "account"
	attrAdapter   = "adapter"
)

// Bucket boundaries in seconds. HTTP handler work is mostly local, while
// tool and adapter calls sit on top of Google API round trips.
var (
	httpBuckets    = []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0}
	backendBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
)

// Metrics records every counter and histogram the server emits. The zero
// value is a valid no-op recorder, returned by a disabled Provider.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	oauthAuthTotal metric.Int64Counter

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	adapterCallsTotal   metric.Int64Counter
	adapterCallDuration metric.Float64Histogram

	detailedLabels bool
}

// NewMetrics registers all instruments on the given meter. With
// detailedLabels set, tool invocations additionally carry the account label.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	var errs []error

	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		return c
	}
	histogram := func(name, desc string, buckets []float64) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name,
			metric.WithDescription(desc),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(buckets...),
		)
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
		return h
	}

	m := &Metrics{
		detailedLabels: detailedLabels,

		httpRequestsTotal:   counter("http_requests_total", "Total number of HTTP requests", "{request}"),
		httpRequestDuration: histogram("http_request_duration_seconds", "HTTP request duration in seconds", httpBuckets),

		googleAPIOperationsTotal:   counter("google_api_operations_total", "Total number of Google API operations", "{operation}"),
		googleAPIOperationDuration: histogram("google_api_operation_duration_seconds", "Google API operation duration in seconds", backendBuckets),

		oauthAuthTotal: counter("oauth_auth_total", "Total number of OAuth authentication attempts", "{attempt}"),

		toolInvocationsTotal: counter("mcp_tool_invocations_total", "Total number of MCP tool invocations", "{invocation}"),
		toolDuration:         histogram("mcp_tool_duration_seconds", "MCP tool execution duration in seconds", backendBuckets),

		adapterCallsTotal:   counter("adapter_calls_total", "Total number of workspace adapter method calls", "{call}"),
		adapterCallDuration: histogram("adapter_call_duration_seconds", "Workspace adapter method call duration in seconds", backendBuckets),
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordHTTPRequest counts a request on one of the HTTP transports.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordGoogleAPIOperation counts one call into a Google service, labeled by
// service ("chat", "forms", "drive"), operation ("list", "send", ...), and
// status.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m.googleAPIOperationsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordOAuthAuth counts a Bearer-token validation outcome. The result is
// OAuthResultSuccess or OAuthResultFailure.
func (m *Metrics) RecordOAuthAuth(ctx context.Context, result string) {
	if m.oauthAuthTotal == nil {
		return
	}
	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordToolInvocation counts one MCP tool call. The account is only turned
// into a label when detailed labels are enabled; emails as label values are
// a cardinality hazard.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m.toolInvocationsTotal == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}
	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAdapterCall counts one dynamic adapter method call, labeled by the
// registered adapter name and canonical method.
func (m *Metrics) RecordAdapterCall(ctx context.Context, adapter, method, status string, duration time.Duration) {
	if m.adapterCallsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrAdapter, adapter),
		attribute.String(attrMethod, method),
		attribute.String(attrStatus, status),
	)
	m.adapterCallsTotal.Add(ctx, 1, attrs)
	m.adapterCallDuration.Record(ctx, duration.Seconds(), attrs)
}
