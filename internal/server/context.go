package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/workspacemcp/workspacemcp/internal/adapter"
	"github.com/workspacemcp/workspacemcp/internal/chat"
	"github.com/workspacemcp/workspacemcp/internal/drive"
	"github.com/workspacemcp/workspacemcp/internal/forms"
	"github.com/workspacemcp/workspacemcp/internal/instrumentation"
	"github.com/workspacemcp/workspacemcp/internal/logging"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	chatClients  map[string]*chat.Client  // Maps account name to Chat client
	formsClients map[string]*forms.Client // Maps account name to Forms client
	driveClients map[string]*drive.Client // Maps account name to Drive client

	registry *adapter.Registry

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	chatClients := make(map[string]*chat.Client)

	// Try to create default Chat client, but don't fail if token is missing.
	// Clients are lazily initialized when first needed.
	if chat.HasToken() {
		chatClient, err := chat.NewClient(shutdownCtx)
		if err != nil {
			slog.Warn("Failed to create Chat client for default account", logging.Err(err))
		} else {
			chatClients["default"] = chatClient
		}
	}

	return &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		chatClients:  chatClients,
		formsClients: make(map[string]*forms.Client),
		driveClients: make(map[string]*drive.Client),
		registry:     adapter.NewRegistry(adapter.NewFactory()),
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Registry returns the adapter registry
func (sc *ServerContext) Registry() *adapter.Registry {
	return sc.registry
}

// SetMetrics attaches the metrics recorder
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, or nil when instrumentation is off
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger attaches the audit logger
func (sc *ServerContext) SetAuditLogger(a *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = a
}

// AuditLogger returns the audit logger, or nil when auditing is off
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// ChatClientForAccount returns the Chat client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) ChatClientForAccount(account string) *chat.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.chatClients[account]; ok {
		return client
	}

	if !chat.HasTokenForAccount(account) {
		return nil
	}

	client, err := chat.NewClientForAccount(sc.ctx, account)
	if err != nil {
		slog.Warn("Failed to create Chat client", logging.Account(account), logging.Err(err))
		return nil
	}

	sc.chatClients[account] = client
	return client
}

// ChatClient returns the Chat client for the default account
func (sc *ServerContext) ChatClient() *chat.Client {
	return sc.ChatClientForAccount("default")
}

// SetChatClientForAccount sets the Chat client for a specific account
func (sc *ServerContext) SetChatClientForAccount(account string, client *chat.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.chatClients[account] = client
}

// FormsClientForAccount returns the Forms client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) FormsClientForAccount(account string) *forms.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.formsClients[account]; ok {
		return client
	}

	if !forms.HasTokenForAccount(account) {
		return nil
	}

	client, err := forms.NewClientForAccount(sc.ctx, account)
	if err != nil {
		slog.Warn("Failed to create Forms client", logging.Account(account), logging.Err(err))
		return nil
	}

	sc.formsClients[account] = client
	return client
}

// FormsClient returns the Forms client for the default account
func (sc *ServerContext) FormsClient() *forms.Client {
	return sc.FormsClientForAccount("default")
}

// SetFormsClientForAccount sets the Forms client for a specific account
func (sc *ServerContext) SetFormsClientForAccount(account string, client *forms.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.formsClients[account] = client
}

// DriveClientForAccount returns the Drive client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) DriveClientForAccount(account string) *drive.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.driveClients[account]; ok {
		return client
	}

	if !drive.HasTokenForAccount(account) {
		return nil
	}

	client, err := drive.NewClientForAccount(sc.ctx, account)
	if err != nil {
		slog.Warn("Failed to create Drive client", logging.Account(account), logging.Err(err))
		return nil
	}

	sc.driveClients[account] = client
	return client
}

// DriveClient returns the Drive client for the default account
func (sc *ServerContext) DriveClient() *drive.Client {
	return sc.DriveClientForAccount("default")
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
