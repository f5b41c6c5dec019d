package plugins

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/turtle/pkg/bootstrap"
)

func writePlugin(t *testing.T, root, name string, manifest *Manifest, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	if manifest != nil {
		require.NoError(t, SaveManifest(manifest, filepath.Join(dir, ManifestFile)))
	}
	for rel, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, rel), []byte(body), 0644))
	}
	return dir
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader([]string{"/tmp/plugins"}, nil, nil, nil)

	assert.Equal(t, []string{"/tmp/plugins"}, loader.pluginDirs)
	assert.NotNil(t, loader.log)
	assert.NotNil(t, loader.Registry())

	custom := logrus.New()
	registry := NewRegistry()
	loader = NewLoader(nil, nil, registry, custom)
	assert.Same(t, custom, loader.log)
	assert.Same(t, registry, loader.Registry())
}

func TestGetDefaultPluginDirectories(t *testing.T) {
	dirs := GetDefaultPluginDirectories()

	require.NotEmpty(t, dirs)
	assert.Contains(t, dirs[0], filepath.Join(".turtle", "plugins"))
}

func TestDiscoverPlugins(t *testing.T) {
	root := t.TempDir()
	sitemapDir := writePlugin(t, root, "sitemap", &Manifest{
		Name:       "Sitemap",
		Version:    "1.0.0",
		ConfigPath: "config.yaml",
		Requires:   []string{`Plugin\Config`},
	}, map[string]string{"config.yaml": "enabled: true\n"})
	writePlugin(t, root, "assets", &Manifest{
		Name:       "Assets",
		Version:    "2.0.0",
		ConfigPath: "missing.yaml",
	}, nil)
	writePlugin(t, root, "broken", &Manifest{Name: "Broken", Version: "nope"}, nil)
	writePlugin(t, root, "empty", nil, nil)
	require.NoError(t, os.WriteFile(filepath.Join(root, "README"), []byte("not a plugin"), 0644))

	manager := bootstrap.NewManager(bootstrap.NewEnvironment())
	loader := NewLoader([]string{root, filepath.Join(root, "does-not-exist")}, manager, nil, nil)

	plugins, err := loader.DiscoverPlugins(context.Background())
	require.NoError(t, err)

	var names []string
	for _, p := range plugins {
		names = append(names, p.Name())
	}
	assert.ElementsMatch(t, []string{"Sitemap", "Assets"}, names)
	assert.Equal(t, 2, loader.Registry().Count())

	assert.Equal(t, filepath.Join(sitemapDir, "config.yaml"), manager.ConfigPath("Sitemap"))
	assert.Empty(t, manager.ConfigPath("Assets"))
}

func TestDiscoverPlugins_Duplicates(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "a", &Manifest{Name: "Same", Version: "1.0.0"}, nil)
	writePlugin(t, root, "b", &Manifest{Name: "Same", Version: "1.0.1"}, nil)

	loader := NewLoader([]string{root}, nil, nil, nil)
	plugins, err := loader.DiscoverPlugins(context.Background())
	require.NoError(t, err)
	assert.Len(t, plugins, 1)
}

func TestDiscoverPlugins_Cancelled(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "a", &Manifest{Name: "A", Version: "1.0.0"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewLoader([]string{root}, nil, nil, nil)
	plugins, err := loader.DiscoverPlugins(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, plugins)
}

func TestLoadPlugin_Invalid(t *testing.T) {
	root := t.TempDir()
	dir := writePlugin(t, root, "bad", &Manifest{Name: "Bad", Version: "1.0.0", Requires: []string{"Nope"}}, nil)

	loader := NewLoader(nil, nil, nil, nil)
	_, err := loader.LoadPlugin(context.Background(), dir)
	assert.ErrorIs(t, err, ErrInvalidManifest)
	assert.False(t, loader.Registry().Has("Bad"))
}

func TestDiscoverPlugins_InitEndToEnd(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "sitemap", &Manifest{
		Name:       "Sitemap",
		Version:    "1.0.0",
		ConfigPath: "config.yaml",
	}, map[string]string{"config.yaml": "enabled: true\n"})

	var loadedKey, loadedPath string
	loader := bootstrap.ConfigLoaderFunc(func(_ context.Context, key, path string) error {
		loadedKey, loadedPath = key, path
		return nil
	})
	manager := bootstrap.NewManager(bootstrap.NewEnvironment(), bootstrap.WithConfigLoader(loader))

	plugins, err := NewLoader([]string{root}, manager, nil, nil).DiscoverPlugins(context.Background())
	require.NoError(t, err)
	require.Len(t, plugins, 1)

	ok, err := manager.Init(context.Background(), plugins[0])
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "TurtlePHP-SitemapPlugin", loadedKey)
	assert.Equal(t, plugins[0].ConfigPath(), loadedPath)
}
