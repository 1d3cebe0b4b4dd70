package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ToolInvocation is the audit record for a single MCP tool call. It is built
// incrementally while the call runs and logged once it completes.
//
// UserEmail is PII. LogAttrs reduces it to the domain; the full address only
// appears through LogAuditAttrs, which the audit logger uses when configured
// with IncludePII.
type ToolInvocation struct {
	// InvocationID correlates this record across log streams.
	InvocationID string

	Tool      string
	UserEmail string

	// Account is the local account name the call ran as; ServiceName and
	// Operation attribute it to a Google service.
	Account     string
	ServiceName string
	Operation   string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// NewToolInvocation starts an audit record with timing running.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		InvocationID: uuid.NewString(),
		Tool:         tool,
		StartTime:    time.Now(),
	}
}

// WithUser records the authenticated caller.
func (ti *ToolInvocation) WithUser(email string) *ToolInvocation {
	ti.UserEmail = email
	return ti
}

// WithAccount records the account the call ran as.
func (ti *ToolInvocation) WithAccount(account string) *ToolInvocation {
	ti.Account = account
	return ti
}

// WithService attributes the call to a Google service and operation.
func (ti *ToolInvocation) WithService(serviceName, operation string) *ToolInvocation {
	ti.ServiceName = serviceName
	ti.Operation = operation
	return ti
}

// WithSpanContext copies the active trace and span IDs out of ctx, if any.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	ti.TraceID = GetTraceID(ctx)
	ti.SpanID = GetSpanID(ctx)
	return ti
}

// Complete stops the clock and records the outcome.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the call failed with err.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the call succeeded.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// UserDomain returns the caller's email domain for low-cardinality logging.
func (ti *ToolInvocation) UserDomain() string {
	return ExtractUserDomain(ti.UserEmail)
}

// Status maps Success onto the shared status vocabulary.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs renders the record without PII: the caller appears only as an
// email domain.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("invocation_id", ti.InvocationID),
		slog.String("tool", ti.Tool),
		slog.String("user_domain", ti.UserDomain()),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.Account != "" && ti.Account != "default" {
		attrs = append(attrs, slog.String("account", ti.Account))
	}
	return append(attrs, ti.commonAttrs(false)...)
}

// LogAuditAttrs renders the full record including the caller's email. Only
// route this to audit storage with restricted access.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("invocation_id", ti.InvocationID),
		slog.String("tool", ti.Tool),
		slog.String("user", ti.UserEmail),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.Account != "" {
		attrs = append(attrs, slog.String("account", ti.Account))
	}
	return append(attrs, ti.commonAttrs(true)...)
}

func (ti *ToolInvocation) commonAttrs(includeSpanID bool) []slog.Attr {
	var attrs []slog.Attr
	if ti.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ti.ServiceName))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if includeSpanID && ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	return attrs
}

// AuditLogger writes completed tool invocations to a slog.Logger.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger returns an enabled audit logger without PII. A nil logger
// falls back to slog.Default.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig applies the AUDIT_LOGGING_* configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// LogToolInvocation writes one audit record. Successes log at Info and
// failures at Warn, with or without PII per configuration.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	attrs := ti.LogAttrs()
	if al.includePII {
		attrs = ti.LogAuditAttrs()
	}

	level := slog.LevelInfo
	msg := "tool call completed"
	if !ti.Success {
		level = slog.LevelWarn
		msg = "tool call failed"
	}
	al.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
