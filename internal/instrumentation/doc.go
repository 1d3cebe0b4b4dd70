// Package instrumentation wires OpenTelemetry metrics, tracing, and audit
// logging into the MCP server.
//
// A single Provider owns the meter and tracer providers. Metrics are exported
// through Prometheus by default (scraped from the dedicated metrics port),
// with OTLP and stdout exporters available for collector-based setups and
// local debugging. Tracing is off unless an exporter is selected.
//
// Recorded metrics:
//
//   - http_requests_total / http_request_duration_seconds, per method, path
//     and status, for the HTTP transports
//   - oauth_auth_total, per result, for Bearer-token validation
//   - mcp_tool_invocations_total / mcp_tool_duration_seconds, per tool and
//     status
//   - google_api_operations_total / google_api_operation_duration_seconds,
//     per Google service and operation
//   - adapter_calls_total / adapter_call_duration_seconds, per registered
//     adapter and method
//
// Everything is driven by environment variables with working defaults:
// INSTRUMENTATION_ENABLED, METRICS_EXPORTER, TRACING_EXPORTER,
// OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_TRACES_SAMPLER_ARG, OTEL_SERVICE_NAME,
// METRICS_DETAILED_LABELS, and the AUDIT_LOGGING_* family. See DefaultConfig.
//
// Audit logging is separate from metrics on purpose: audit records can carry
// the caller's email, so PII stays out of the metric labels and only enters
// the audit stream when AUDIT_LOGGING_INCLUDE_PII is set.
package instrumentation
