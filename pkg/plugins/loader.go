package plugins

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/turtle/pkg/bootstrap"
)

// Loader discovers plugins in filesystem directories, registers them and
// hands their config paths to the bootstrap manager.
type Loader struct {
	pluginDirs []string
	manager    *bootstrap.Manager
	registry   *Registry
	log        *logrus.Logger
}

// NewLoader creates a new plugin loader. A nil registry gets a fresh one.
func NewLoader(dirs []string, manager *bootstrap.Manager, registry *Registry, log *logrus.Logger) *Loader {
	if log == nil {
		log = logrus.New()
	}
	if registry == nil {
		registry = NewRegistry()
	}

	return &Loader{
		pluginDirs: dirs,
		manager:    manager,
		registry:   registry,
		log:        log,
	}
}

// Registry returns the registry plugins are added to
func (l *Loader) Registry() *Registry {
	return l.registry
}

// DiscoverPlugins scans every plugin directory for subdirectories holding a
// plugin.yaml. Plugins that fail to load are logged and skipped.
func (l *Loader) DiscoverPlugins(ctx context.Context) ([]*ManifestPlugin, error) {
	var plugins []*ManifestPlugin

	for _, dir := range l.pluginDirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			l.log.Debugf("Plugin directory does not exist: %s", dir)
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			l.log.Warnf("Failed to read plugin directory %s: %v", dir, err)
			continue
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return plugins, err
			}
			if !entry.IsDir() {
				continue
			}

			pluginDir := filepath.Join(dir, entry.Name())
			plugin, err := l.LoadPlugin(ctx, pluginDir)
			if err != nil {
				l.log.Warnf("Failed to load plugin from %s: %v", pluginDir, err)
				continue
			}

			plugins = append(plugins, plugin)
		}
	}

	return plugins, nil
}

// LoadPlugin loads, validates and registers the plugin in pluginDir
func (l *Loader) LoadPlugin(ctx context.Context, pluginDir string) (*ManifestPlugin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest, err := LoadManifestFromDir(pluginDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	if errs := ValidateManifest(manifest); len(errs) > 0 {
		return nil, errs
	}

	plugin := NewManifestPlugin(manifest, pluginDir)
	if err := l.registry.Register(plugin); err != nil {
		return nil, err
	}

	if path := plugin.ConfigPath(); path != "" && l.manager != nil {
		if !l.manager.SetConfigPath(plugin.Name(), path) {
			l.log.Warnf("Config path for plugin %s is not a readable file: %s", plugin.Name(), path)
		}
	}

	l.log.Infof("Loaded plugin: %s v%s", manifest.Name, manifest.Version)

	return plugin, nil
}

// GetDefaultPluginDirectories returns the default plugin search directories
func GetDefaultPluginDirectories() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "/tmp"
	}

	return []string{
		filepath.Join(homeDir, ".turtle", "plugins"),
		"/etc/turtle/plugins",
		"./plugins",
	}
}
