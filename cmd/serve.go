package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspacemcp/workspacemcp/internal/adapter"
	"github.com/workspacemcp/workspacemcp/internal/instrumentation"
	"github.com/workspacemcp/workspacemcp/internal/resources"
	"github.com/workspacemcp/workspacemcp/internal/server"
	"github.com/workspacemcp/workspacemcp/internal/tools/adapter_tools"
	"github.com/workspacemcp/workspacemcp/internal/tools/chat_tools"
	"github.com/workspacemcp/workspacemcp/internal/tools/forms_tools"
	"github.com/workspacemcp/workspacemcp/internal/tools/google_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// serveOptions holds the resolved serve command configuration.
type serveOptions struct {
	DebugMode        bool
	Transport        string
	HTTPAddr         string
	Yolo             bool
	BaseURL          string
	AdapterConfigDir string
	AdapterWatch     bool
	Metrics          MetricsConfig
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Google Chat and
Google Forms tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport
  - sse: Server-Sent Events transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe operations.
  Use --yolo to enable write operations (sending messages, creating forms, etc.)

HTTP Transport:
  Requests must carry a Google OAuth Bearer token. The server publishes
  RFC 9728 Protected Resource Metadata so MCP clients can discover how to
  obtain one.

  Base URL (required for deployed instances):
    --base-url https://your-domain.com OR MCP_BASE_URL env var
    Auto-detected for localhost (development only)

Adapter Configs:
  --adapter-config-dir points at a directory of YAML/JSON files that declare
  additional service adapters. With --adapter-watch the directory is watched
  and the adapter index refreshed when files change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.DebugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.Transport, "transport", "stdio", "Transport type: stdio, streamable-http or sse")
	cmd.Flags().StringVar(&opts.HTTPAddr, "http-addr", ":8080", "HTTP server address (for streamable-http and sse transports)")
	cmd.Flags().BoolVar(&opts.Yolo, "yolo", false, "Enable write operations (sending messages, creating forms, etc.). Default is read-only mode.")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "Public base URL for OAuth (HTTP transports only). Required for deployed instances. Can also use MCP_BASE_URL env var. Example: https://mcp.example.com")
	cmd.Flags().StringVar(&opts.AdapterConfigDir, "adapter-config-dir", "", "Directory containing adapter config files (YAML or JSON)")
	cmd.Flags().BoolVar(&opts.AdapterWatch, "adapter-watch", false, "Watch the adapter config directory for changes")
	cmd.Flags().BoolVar(&opts.Metrics.Enabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.Metrics.Addr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(opts serveOptions) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if opts.DebugMode {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	// Load metrics config from environment if not set via flags
	if !opts.Metrics.Enabled {
		if os.Getenv("METRICS_ENABLED") == "true" {
			opts.Metrics.Enabled = true
		}
	}
	if opts.Metrics.Addr == "" || opts.Metrics.Addr == server.DefaultMetricsAddr {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			opts.Metrics.Addr = addr
		}
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if opts.Transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if opts.Transport != "stdio" && opts.Metrics.Enabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.Metrics.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		// Wait for metrics server to be ready or fail
		select {
		case <-metricsReady:
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// Create server context
	serverContext, err := server.NewServerContext(shutdownCtx)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if opts.Transport != "stdio" {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Set up adapter config discovery when a directory is configured
	var discovery *adapter.Discovery
	if opts.AdapterConfigDir != "" {
		discovery = adapter.NewDiscovery(opts.AdapterConfigDir)
		if err := discovery.Discover(); err != nil {
			return fmt.Errorf("failed to discover adapter configs: %w", err)
		}
		if opts.AdapterWatch {
			go func() {
				if err := discovery.Watch(shutdownCtx); err != nil {
					slog.Warn("adapter config watcher stopped", "error", err)
				}
			}()
		}
	}

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("workspacemcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	// readOnly is the inverse of yolo
	readOnly := !opts.Yolo

	// Log the mode for visibility (only for non-stdio transports)
	if opts.Transport != "stdio" {
		if readOnly {
			log.Println("Starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			log.Println("Starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	// Register all tools and resources
	if err := registerAllTools(mcpSrv, serverContext, readOnly, discovery); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch opts.Transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http", "sse":
		fmt.Printf("Starting workspacemcp MCP server with %s transport...\n", opts.Transport)
		return runHTTPServer(shutdownCtx, mcpSrv, serverContext, opts, provider)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http, sse)", opts.Transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool, discovery *adapter.Discovery) error {
	// Define all tool registrations
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Chat",
			register: func() error {
				return chat_tools.RegisterChatTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Forms",
			register: func() error {
				return forms_tools.RegisterFormsTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Adapters",
			register: func() error {
				return adapter_tools.RegisterAdapterTools(mcpSrv, ctx, readOnly, discovery)
			},
		},
		{
			name: "Google Auth",
			register: func() error {
				return google_tools.RegisterGoogleTools(mcpSrv, ctx)
			},
		},
		{
			name: "Workspace Resources",
			register: func() error {
				return resources.RegisterWorkspaceResources(mcpSrv, ctx)
			},
		},
	}

	// Register all tools
	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

// resolveBaseURL determines the base URL from the flag value, the
// MCP_BASE_URL environment variable, or auto-detection from the listen
// address. The second return value reports whether the URL was auto-detected.
func resolveBaseURL(baseURL, addr string) (string, bool) {
	if baseURL == "" {
		baseURL = os.Getenv("MCP_BASE_URL")
	}
	if baseURL != "" {
		return baseURL, false
	}

	// Fall back to auto-detection for local development
	if addr != "" && addr[0] == ':' {
		return fmt.Sprintf("http://localhost%s", addr), true
	}
	return fmt.Sprintf("http://%s", addr), true
}

func runHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, opts serveOptions, provider *instrumentation.Provider) error {
	baseURL, autoDetected := resolveBaseURL(opts.BaseURL, opts.HTTPAddr)
	if autoDetected {
		log.Printf("No base URL configured, using auto-detected: %s", baseURL)
		log.Printf("For deployed instances, set --base-url flag or MCP_BASE_URL env var")
	} else {
		log.Printf("Using configured base URL: %s", baseURL)
	}

	oauthServer, err := server.NewOAuthHTTPServer(mcpSrv, opts.Transport, baseURL)
	if err != nil {
		return fmt.Errorf("failed to create OAuth HTTP server: %w", err)
	}

	// Set up health checker for health check endpoints
	healthChecker := server.NewHealthChecker(serverContext)
	oauthServer.SetHealthChecker(healthChecker)

	// Set up HTTP instrumentation for metrics
	if provider != nil && provider.Enabled() {
		oauthServer.SetMetrics(provider.Metrics())
	}

	fmt.Printf("HTTP server with Google OAuth authentication starting on %s\n", opts.HTTPAddr)
	if opts.Transport == "sse" {
		fmt.Printf("  SSE endpoints: /sse, /message\n")
	} else {
		fmt.Printf("  HTTP endpoint: /mcp\n")
	}
	fmt.Printf("  Health endpoints: /healthz, /readyz\n")
	fmt.Printf("  OAuth metadata: /.well-known/oauth-protected-resource\n")
	if opts.Metrics.Enabled {
		fmt.Printf("  Metrics endpoint: %s/metrics\n", opts.Metrics.Addr)
	}

	fmt.Println("\nClients must authenticate with Google OAuth to access this server.")
	fmt.Println("The MCP client will handle the OAuth flow automatically.")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := oauthServer.Start(opts.HTTPAddr); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := oauthServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		fmt.Println("HTTP server stopped normally")
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}
