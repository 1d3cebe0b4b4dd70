package adapter

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/workspacemcp/workspacemcp/internal/logging"
)

// Registry tracks adapters by name with metadata caching, usage counters
// and category/keyword filtering. Reads dominate, so it is guarded by an
// RWMutex even though registration is rare after startup.
type Registry struct {
	factory *Factory

	mu       sync.RWMutex
	adapters map[string]*Adapter
	metadata map[string]Metadata
	usage    map[string]int64
}

// NewRegistry returns an empty registry backed by the given factory.
func NewRegistry(factory *Factory) *Registry {
	if factory == nil {
		factory = NewFactory()
	}
	return &Registry{
		factory:  factory,
		adapters: make(map[string]*Adapter),
		metadata: make(map[string]Metadata),
		usage:    make(map[string]int64),
	}
}

// Register adapts target and stores it under name.
func (r *Registry) Register(name string, target any, opts ...Option) (*Adapter, error) {
	a, err := r.factory.CreateAdapter(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create adapter %s: %w", name, err)
	}
	r.add(name, a)
	slog.Info("Registered adapter", logging.Adapter(name))
	return a, nil
}

// RegisterWorkspace adapts a Google Workspace service wrapper and stores it
// under name with Workspace metadata defaults.
func (r *Registry) RegisterWorkspace(name, serviceName string, target any, opts ...Option) (*Adapter, error) {
	a, err := r.factory.CreateWorkspaceAdapter(serviceName, target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace adapter %s: %w", name, err)
	}
	r.add(name, a)
	slog.Info("Registered workspace adapter", logging.Adapter(name), slog.String("service", serviceName))
	return a, nil
}

// RegisterAdapter stores a pre-built adapter under name.
func (r *Registry) RegisterAdapter(name string, a *Adapter) {
	r.add(name, a)
	slog.Info("Registered adapter", logging.Adapter(name))
}

func (r *Registry) add(name string, a *Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[name] = a
	r.metadata[name] = a.Metadata()
	r.usage[name] = 0
}

// Get returns an adapter by name and counts the lookup as a use.
func (r *Registry) Get(name string) (*Adapter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.adapters[name]
	if ok {
		r.usage[name]++
	}
	return a, ok
}

// Peek returns an adapter by name without counting the lookup as a use.
// Introspection tooling uses it so status queries do not skew the counters.
func (r *Registry) Peek(name string) (*Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	return a, ok
}

// Names returns all registered adapter names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metadata returns the cached metadata for an adapter.
func (r *Registry) Metadata(name string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.metadata[name]
	return m, ok
}

// ListMetadata returns metadata for all adapters keyed by name.
func (r *Registry) ListMetadata() map[string]Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Metadata, len(r.metadata))
	for name, m := range r.metadata {
		out[name] = m
	}
	return out
}

// Usage returns the number of times an adapter was fetched.
func (r *Registry) Usage(name string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.usage[name]
}

// ListUsage returns usage counters for all adapters keyed by name.
func (r *Registry) ListUsage() map[string]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int64, len(r.usage))
	for name, n := range r.usage {
		out[name] = n
	}
	return out
}

// FilterByCategory returns the names of adapters in the given category.
func (r *Registry) FilterByCategory(category string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, m := range r.metadata {
		if m.Category == category {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// FilterByKeywords returns the names of adapters matching any of the given
// keywords.
func (r *Registry) FilterByKeywords(keywords []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, m := range r.metadata {
		for _, kw := range keywords {
			if m.HasKeyword(kw) {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

// Unregister removes an adapter. Returns false if it was not registered.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adapters[name]; !ok {
		return false
	}
	delete(r.adapters, name)
	delete(r.metadata, name)
	delete(r.usage, name)
	slog.Info("Unregistered adapter", logging.Adapter(name))
	return true
}

// Clear removes all adapters.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters = make(map[string]*Adapter)
	r.metadata = make(map[string]Metadata)
	r.usage = make(map[string]int64)
	slog.Info("Cleared adapter registry")
}
