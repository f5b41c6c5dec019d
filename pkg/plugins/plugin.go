package plugins

import (
	"path/filepath"

	"github.com/platinummonkey/turtle/pkg/bootstrap"
)

// ManifestPlugin is a bootstrap plugin described by a manifest on disk
type ManifestPlugin struct {
	manifest *Manifest
	dir      string
	requires []bootstrap.Collaborator
}

var (
	_ bootstrap.Plugin              = (*ManifestPlugin)(nil)
	_ bootstrap.Requirer            = (*ManifestPlugin)(nil)
	_ bootstrap.DependencyCheckable = (*ManifestPlugin)(nil)
)

// NewManifestPlugin wraps a validated manifest found in dir. Unknown
// collaborator names are dropped; ValidateManifest reports them.
func NewManifestPlugin(manifest *Manifest, dir string) *ManifestPlugin {
	requires := make([]bootstrap.Collaborator, 0, len(manifest.Requires))
	for _, name := range manifest.Requires {
		if c, err := bootstrap.ParseCollaborator(name); err == nil {
			requires = append(requires, c)
		}
	}
	return &ManifestPlugin{manifest: manifest, dir: dir, requires: requires}
}

func (p *ManifestPlugin) Name() string {
	return p.manifest.Name
}

func (p *ManifestPlugin) Requires() []bootstrap.Collaborator {
	return p.requires
}

// Manifest returns the plugin's manifest
func (p *ManifestPlugin) Manifest() *Manifest {
	return p.manifest
}

// Dir returns the directory the plugin was loaded from
func (p *ManifestPlugin) Dir() string {
	return p.dir
}

// ConfigPath returns the manifest's config path resolved against the
// plugin directory, or "" when none is declared.
func (p *ManifestPlugin) ConfigPath() string {
	return p.resolve(p.manifest.ConfigPath)
}

// WritableDirs returns the declared writable directories, resolved
func (p *ManifestPlugin) WritableDirs() []string {
	dirs := make([]string, 0, len(p.manifest.WritableDirs))
	for _, d := range p.manifest.WritableDirs {
		dirs = append(dirs, p.resolve(d))
	}
	return dirs
}

// CheckDependencies verifies every declared writable directory
func (p *ManifestPlugin) CheckDependencies(_ *bootstrap.Environment) error {
	for _, dir := range p.WritableDirs() {
		if _, err := bootstrap.CheckDirectoryWritePermissions(dir); err != nil {
			return err
		}
	}
	return nil
}

func (p *ManifestPlugin) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.dir, path)
}
