package adapter

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/workspacemcp/workspacemcp/internal/logging"
)

var titleCaser = cases.Title(language.English)

// Factory creates adapters and caches them by name.
type Factory struct {
	mu    sync.Mutex
	cache map[string]*Adapter
}

// NewFactory returns an empty adapter factory.
func NewFactory() *Factory {
	return &Factory{
		cache: make(map[string]*Adapter),
	}
}

// CreateAdapter builds an adapter for an arbitrary target.
func (f *Factory) CreateAdapter(target any, opts ...Option) (*Adapter, error) {
	return New(target, opts...)
}

// CreateWorkspaceAdapter builds an adapter for a Google Workspace service
// wrapper with Workspace naming defaults: the adapter is called
// google_<service>, categorized google_workspace and marked as requiring
// authentication. Overrides passed through opts still win.
func (f *Factory) CreateWorkspaceAdapter(serviceName string, target any, opts ...Option) (*Adapter, error) {
	if serviceName == "" {
		return nil, fmt.Errorf("service name is required")
	}

	defaults := Metadata{
		Name:         "google_" + serviceName,
		Description:  fmt.Sprintf("Google Workspace %s API", titleCaser.String(serviceName)),
		Category:     "google_workspace",
		Keywords:     []string{"google", "workspace", serviceName},
		RequiresAuth: true,
		Version:      "1.0.0",
	}

	merged := append([]Option{WithMetadata(defaults)}, opts...)
	return New(target, merged...)
}

// Cache stores an adapter for later retrieval.
func (f *Factory) Cache(name string, a *Adapter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache[name] = a
	slog.Debug("Cached adapter", logging.Adapter(name))
}

// Cached returns a previously cached adapter.
func (f *Factory) Cached(name string) (*Adapter, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.cache[name]
	return a, ok
}

// CachedNames returns the names of all cached adapters.
func (f *Factory) CachedNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.cache))
	for name := range f.cache {
		names = append(names, name)
	}
	return names
}

// ClearCache drops all cached adapters.
func (f *Factory) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = make(map[string]*Adapter)
	slog.Debug("Adapter cache cleared")
}
