package plugins

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/turtle/pkg/bootstrap"
)

func TestManifestPlugin_Paths(t *testing.T) {
	dir := "/srv/plugins/sitemap"
	plugin := NewManifestPlugin(&Manifest{
		Name:         "Sitemap",
		Version:      "1.0.0",
		ConfigPath:   "config.yaml",
		Requires:     []string{`\MemcachedCache`, "Unknown", "jsShrink"},
		WritableDirs: []string{"cache", "/var/tmp/sitemap"},
	}, dir)

	assert.Equal(t, "Sitemap", plugin.Name())
	assert.Equal(t, dir, plugin.Dir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), plugin.ConfigPath())
	assert.Equal(t, []string{filepath.Join(dir, "cache"), "/var/tmp/sitemap"}, plugin.WritableDirs())
	assert.Equal(t, []bootstrap.Collaborator{bootstrap.MemcachedCache, bootstrap.JSShrink}, plugin.Requires())

	assert.Empty(t, NewManifestPlugin(&Manifest{Name: "Bare"}, dir).ConfigPath())
}

func TestManifestPlugin_CheckDependencies(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "cache"), 0755))

	ok := NewManifestPlugin(&Manifest{Name: "Ok", WritableDirs: []string{"cache"}}, dir)
	assert.NoError(t, ok.CheckDependencies(bootstrap.NewEnvironment()))

	missing := NewManifestPlugin(&Manifest{Name: "Missing", WritableDirs: []string{"cache", "nope"}}, dir)
	err := missing.CheckDependencies(bootstrap.NewEnvironment())
	require.Error(t, err)
	assert.ErrorIs(t, err, bootstrap.ErrPermission)
	assert.Contains(t, err.Error(), filepath.Join(dir, "nope"))
}
