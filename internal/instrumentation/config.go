package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Exporter names accepted by Config.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Label vocabulary shared by metrics, spans, and audit records.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	OAuthResultSuccess = "success"
	OAuthResultFailure = "failure"

	ServiceChat  = "chat"
	ServiceForms = "forms"
	ServiceDrive = "drive"
)

// Config controls which telemetry is produced and where it goes.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// ServiceInstanceID distinguishes replicas; defaults to the hostname,
	// which under Kubernetes is the pod name.
	ServiceInstanceID string

	// K8sNamespace and K8sPodName are attached as resource attributes when
	// the deployment environment provides them.
	K8sNamespace string
	K8sPodName   string

	// Enabled turns the whole provider off when false; every recorder then
	// degrades to a no-op.
	Enabled bool

	// MetricsExporter selects prometheus, otlp, or stdout.
	MetricsExporter string

	// TracingExporter selects otlp, stdout, or none.
	TracingExporter string

	// OTLPEndpoint is the collector address without a scheme, e.g.
	// "otel-collector:4318". Required for either OTLP exporter.
	OTLPEndpoint string

	// OTLPInsecure disables TLS on OTLP export. Spans carry request
	// metadata, so plaintext export is for local collectors only.
	OTLPInsecure bool

	// TraceSamplingRate is the head-sampling ratio, 0.0 to 1.0.
	TraceSamplingRate float64

	// DetailedLabels adds the account label to tool-invocation metrics.
	// Off by default: per-user labels multiply series cardinality.
	DetailedLabels bool

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig controls the audit stream.
type AuditLoggingConfig struct {
	Enabled bool

	// IncludePII switches audit records from domain-only identifiers to
	// full email addresses. Route the audit stream to restricted storage
	// before turning this on.
	IncludePII bool
}

// DefaultConfig reads the instrumentation settings from the environment,
// falling back to Prometheus metrics, no tracing, and a 10% sampling rate.
func DefaultConfig() Config {
	return Config{
		ServiceName:       envString("OTEL_SERVICE_NAME", "workspacemcp"),
		ServiceVersion:    "unknown",
		ServiceInstanceID: envString("OTEL_SERVICE_INSTANCE_ID", ""),
		K8sNamespace:      envString("K8S_NAMESPACE", envString("POD_NAMESPACE", "")),
		K8sPodName:        envString("K8S_POD_NAME", envString("HOSTNAME", "")),
		Enabled:           envBool("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   envString("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   envString("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      envString("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      envBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate: envFloat("OTEL_TRACES_SAMPLER_ARG", 0.1),
		DetailedLabels:    envBool("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:    envBool("AUDIT_LOGGING_ENABLED", true),
			IncludePII: envBool("AUDIT_LOGGING_INCLUDE_PII", false),
		},
	}
}

// Validate rejects configurations the provider cannot honor.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP metrics exporter needs OTEL_EXPORTER_OTLP_ENDPOINT")
		}
	default:
		return fmt.Errorf("unknown metrics exporter %q, want prometheus, otlp, or stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP tracing exporter needs OTEL_EXPORTER_OTLP_ENDPOINT")
		}
	default:
		return fmt.Errorf("unknown tracing exporter %q, want otlp, stdout, or none", c.TracingExporter)
	}

	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
