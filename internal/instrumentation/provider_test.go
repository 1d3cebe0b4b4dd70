package instrumentation

import (
	"context"
	"testing"
)

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if provider.Enabled() {
		t.Error("disabled provider reports Enabled() = true")
	}
	if provider.Metrics() == nil {
		t.Fatal("disabled provider must still hand out a metrics recorder")
	}

	// The no-op recorder must swallow calls without panicking.
	provider.Metrics().RecordToolInvocation(context.Background(), "chat_list_spaces", StatusSuccess, "default", 0)
	provider.Metrics().RecordHTTPRequest(context.Background(), "POST", "/mcp", 200, 0)

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewProviderPrometheus(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "workspacemcp-test",
		ServiceVersion:  "test",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer func() {
		if err := provider.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
	}()

	if !provider.Enabled() {
		t.Error("Enabled() = false for an enabled provider")
	}
	if provider.Metrics() == nil {
		t.Fatal("Metrics() = nil")
	}

	provider.Metrics().RecordGoogleAPIOperation(ctx, ServiceChat, "list", StatusSuccess, 0)
	provider.Metrics().RecordAdapterCall(ctx, "google_chat", "ListSpaces", StatusSuccess, 0)
}

func TestNewProviderUnknownExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{
		ServiceName:     "workspacemcp-test",
		Enabled:         true,
		MetricsExporter: "statsd",
	})
	if err == nil {
		t.Fatal("NewProvider() accepted an unknown metrics exporter")
	}
}

func TestNewProviderResourceMetadata(t *testing.T) {
	ctx := context.Background()

	// Instance and Kubernetes attributes must not break provider setup.
	provider, err := NewProvider(ctx, Config{
		ServiceName:       "workspacemcp-test",
		ServiceVersion:    "test",
		ServiceInstanceID: "workspacemcp-0",
		K8sNamespace:      "mcp",
		K8sPodName:        "workspacemcp-0",
		Enabled:           true,
		MetricsExporter:   ExporterPrometheus,
		TracingExporter:   ExporterNone,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
