package instrumentation

import "testing"

func TestDefaultConfig(t *testing.T) {
	// Clear any ambient settings so the documented defaults apply.
	for _, key := range []string{
		"OTEL_SERVICE_NAME", "INSTRUMENTATION_ENABLED", "METRICS_EXPORTER",
		"TRACING_EXPORTER", "OTEL_TRACES_SAMPLER_ARG", "METRICS_DETAILED_LABELS",
		"AUDIT_LOGGING_ENABLED", "AUDIT_LOGGING_INCLUDE_PII",
	} {
		t.Setenv(key, "")
	}

	config := DefaultConfig()

	if config.ServiceName != "workspacemcp" {
		t.Errorf("ServiceName = %q, want workspacemcp", config.ServiceName)
	}
	if !config.Enabled {
		t.Error("instrumentation should be enabled by default")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want %q", config.MetricsExporter, ExporterPrometheus)
	}
	if config.TracingExporter != ExporterNone {
		t.Errorf("TracingExporter = %q, want %q", config.TracingExporter, ExporterNone)
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("TraceSamplingRate = %f, want 0.1", config.TraceSamplingRate)
	}
	if config.DetailedLabels {
		t.Error("detailed labels should be off by default")
	}
	if !config.AuditLogging.Enabled {
		t.Error("audit logging should be enabled by default")
	}
	if config.AuditLogging.IncludePII {
		t.Error("audit PII should be off by default")
	}
}

func TestDefaultConfigFromEnvironment(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "workspacemcp-test")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", ExporterOTLP)
	t.Setenv("TRACING_EXPORTER", ExporterStdout)
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")
	t.Setenv("AUDIT_LOGGING_INCLUDE_PII", "true")

	config := DefaultConfig()

	if config.ServiceName != "workspacemcp-test" {
		t.Errorf("ServiceName = %q, want workspacemcp-test", config.ServiceName)
	}
	if config.Enabled {
		t.Error("INSTRUMENTATION_ENABLED=false was ignored")
	}
	if config.MetricsExporter != ExporterOTLP {
		t.Errorf("MetricsExporter = %q, want %q", config.MetricsExporter, ExporterOTLP)
	}
	if config.TracingExporter != ExporterStdout {
		t.Errorf("TracingExporter = %q, want %q", config.TracingExporter, ExporterStdout)
	}
	if config.TraceSamplingRate != 0.5 {
		t.Errorf("TraceSamplingRate = %f, want 0.5", config.TraceSamplingRate)
	}
	if !config.AuditLogging.IncludePII {
		t.Error("AUDIT_LOGGING_INCLUDE_PII=true was ignored")
	}
}

func TestDefaultConfigBadValues(t *testing.T) {
	// Unparseable env values keep the defaults instead of failing startup.
	t.Setenv("INSTRUMENTATION_ENABLED", "not-a-bool")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "not-a-float")

	config := DefaultConfig()

	if !config.Enabled {
		t.Error("bad boolean should fall back to the default")
	}
	if config.TraceSamplingRate != 0.1 {
		t.Errorf("bad float should fall back to 0.1, got %f", config.TraceSamplingRate)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "defaults",
			config: Config{MetricsExporter: ExporterPrometheus, TracingExporter: ExporterNone, TraceSamplingRate: 0.1},
		},
		{
			name:   "empty exporters",
			config: Config{},
		},
		{
			name:   "otlp with endpoint",
			config: Config{MetricsExporter: ExporterOTLP, TracingExporter: ExporterOTLP, OTLPEndpoint: "collector:4318"},
		},
		{
			name:    "sampling rate above one",
			config:  Config{TraceSamplingRate: 1.5},
			wantErr: true,
		},
		{
			name:    "negative sampling rate",
			config:  Config{TraceSamplingRate: -0.1},
			wantErr: true,
		},
		{
			name:    "unknown metrics exporter",
			config:  Config{MetricsExporter: "statsd"},
			wantErr: true,
		},
		{
			name:    "unknown tracing exporter",
			config:  Config{TracingExporter: "jaeger"},
			wantErr: true,
		},
		{
			name:    "otlp metrics without endpoint",
			config:  Config{MetricsExporter: ExporterOTLP},
			wantErr: true,
		},
		{
			name:    "otlp tracing without endpoint",
			config:  Config{TracingExporter: ExporterOTLP},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
