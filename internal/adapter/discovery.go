package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/workspacemcp/workspacemcp/internal/logging"
)

// Config is an adapter configuration file. Params are handed to whoever
// constructs the adapter target; metadata overrides the generated defaults.
type Config struct {
	Name     string         `json:"name" yaml:"name"`
	Service  string         `json:"service" yaml:"service"`
	Account  string         `json:"account,omitempty" yaml:"account"`
	Metadata *Metadata      `json:"metadata,omitempty" yaml:"metadata"`
	Params   map[string]any `json:"params,omitempty" yaml:"params"`
}

// Discovery resolves adapter configuration files under a base directory.
// The path table is populated lazily on first use and can be refreshed
// explicitly or invalidated by a filesystem watcher.
type Discovery struct {
	basePath string

	mu          sync.Mutex
	configPaths map[string]string
	discovered  bool
}

// NewDiscovery returns a discovery rooted at basePath. An empty basePath
// means the current directory.
func NewDiscovery(basePath string) *Discovery {
	if basePath == "" {
		basePath = "."
	}
	return &Discovery{
		basePath:    basePath,
		configPaths: make(map[string]string),
	}
}

// isConfigFile reports whether a file name looks like an adapter config:
// a YAML or JSON file whose name mentions "adapter" or "config".
func isConfigFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
	default:
		return false
	}
	lower := strings.ToLower(name)
	return strings.Contains(lower, "adapter") || strings.Contains(lower, "config")
}

// Discover scans the base directory. Repeated calls are no-ops until the
// table is invalidated by Refresh or a watcher event.
func (d *Discovery) Discover() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.discoverLocked()
}

func (d *Discovery) discoverLocked() error {
	if d.discovered {
		return nil
	}

	d.configPaths = make(map[string]string)
	err := filepath.WalkDir(d.basePath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !isConfigFile(entry.Name()) {
			return nil
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		d.configPaths[name] = path
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("Adapter config directory does not exist", slog.String("path", d.basePath))
			d.discovered = true
			return nil
		}
		return fmt.Errorf("failed to scan %s for adapter configs: %w", d.basePath, err)
	}

	d.discovered = true
	slog.Info("Adapter config discovery complete",
		slog.String("path", d.basePath),
		slog.Int("configs", len(d.configPaths)))
	return nil
}

// Configs returns the discovered config names, sorted.
func (d *Discovery) Configs() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.discoverLocked(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(d.configPaths))
	for name := range d.configPaths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ConfigPath returns the file path for a discovered config name.
func (d *Discovery) ConfigPath(name string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.discoverLocked(); err != nil {
		return "", false
	}
	path, ok := d.configPaths[name]
	return path, ok
}

// LoadConfig reads and parses a discovered config by name.
func (d *Discovery) LoadConfig(name string) (*Config, error) {
	path, ok := d.ConfigPath(name)
	if !ok {
		return nil, fmt.Errorf("adapter config %s not found under %s", name, d.basePath)
	}
	return LoadConfigFile(path)
}

// LoadConfigFile parses an adapter config from a YAML or JSON file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read adapter config %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse adapter config %s: %w", path, err)
	}

	if cfg.Name == "" {
		name := filepath.Base(path)
		cfg.Name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return &cfg, nil
}

// Refresh invalidates the path table and rescans immediately.
func (d *Discovery) Refresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.discovered = false
	return d.discoverLocked()
}

// Watch invalidates the path table whenever a config file under the base
// directory changes. It blocks until ctx is cancelled.
func (d *Discovery) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(d.basePath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", d.basePath, err)
	}
	slog.Info("Watching adapter configs", slog.String("path", d.basePath))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigFile(filepath.Base(event.Name)) {
				continue
			}
			slog.Debug("Adapter config changed",
				slog.String("file", event.Name),
				slog.String("op", event.Op.String()))
			d.mu.Lock()
			d.discovered = false
			d.mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Adapter config watcher error", logging.Err(err))
		}
	}
}
