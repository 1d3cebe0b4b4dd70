package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/workspacemcp/workspacemcp/internal/instrumentation"
)

const (
	// DefaultMetricsAddr is where the metrics server listens by default.
	DefaultMetricsAddr = ":9090"

	// DefaultShutdownTimeout bounds graceful shutdown of the serve loop.
	DefaultShutdownTimeout = 30 * time.Second

	metricsReadHeaderTimeout = 10 * time.Second
	metricsWriteTimeout      = 10 * time.Second
	metricsIdleTimeout       = 60 * time.Second
)

// MetricsServerConfig configures the dedicated metrics listener.
type MetricsServerConfig struct {
	// Addr to bind, e.g. ":9090". Empty means DefaultMetricsAddr.
	Addr string

	// Enabled gates whether the caller should start the server at all.
	Enabled bool

	// InstrumentationProvider must be enabled; its Prometheus exporter
	// feeds the registry this server exposes.
	InstrumentationProvider *instrumentation.Provider
}

// MetricsServer exposes /metrics on its own port, kept apart from the MCP
// transport so operational data never shares a listener with client traffic.
type MetricsServer struct {
	httpServer *http.Server
	addr       string
}

// NewMetricsServer validates the configuration and returns an unstarted
// server.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if config.Addr == "" {
		config.Addr = DefaultMetricsAddr
	}
	if config.InstrumentationProvider == nil {
		return nil, fmt.Errorf("instrumentation provider is required for metrics server")
	}
	if !config.InstrumentationProvider.Enabled() {
		return nil, fmt.Errorf("instrumentation provider is not enabled")
	}
	return &MetricsServer{addr: config.Addr}, nil
}

// Start runs the server until Shutdown. Run it in a goroutine for
// non-blocking use.
func (s *MetricsServer) Start() error {
	return s.StartWithReadySignal(nil)
}

// StartWithReadySignal is Start with a startup handshake: ready is closed
// once the listener is bound, letting the caller distinguish "serving" from
// "failed to bind" before it continues.
func (s *MetricsServer) StartWithReadySignal(ready chan<- struct{}) error {
	mux := http.NewServeMux()

	// The OpenTelemetry prometheus exporter registers with the default
	// registry, which promhttp.Handler exposes.
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
		WriteTimeout:      metricsWriteTimeout,
		IdleTimeout:       metricsIdleTimeout,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("metrics server listen on %s: %w", s.addr, err)
	}
	if ready != nil {
		close(ready)
	}

	slog.Info("starting metrics server", "addr", s.addr)
	return s.httpServer.Serve(listener)
}

// Shutdown drains in-flight scrapes and stops the listener.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	slog.Info("shutting down metrics server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *MetricsServer) Addr() string {
	return s.addr
}
