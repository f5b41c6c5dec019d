package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/turtle/pkg/bootstrap"
)

var semverRegex = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)

// LoadManifest loads and parses a plugin manifest from a file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &manifest, nil
}

// LoadManifestFromDir loads the plugin.yaml found in dir
func LoadManifestFromDir(dir string) (*Manifest, error) {
	return LoadManifest(filepath.Join(dir, ManifestFile))
}

// SaveManifest saves a plugin manifest to a file
func SaveManifest(manifest *Manifest, path string) error {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// ValidateManifest checks required fields, the version format and that
// every required collaborator is one the bootstrap knows about.
func ValidateManifest(manifest *Manifest) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(manifest.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "Plugin name is required",
		})
	}

	if manifest.Version == "" {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: "Version is required",
		})
	} else if !isValidSemver(manifest.Version) {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("Invalid semver format: %s", manifest.Version),
		})
	}

	for _, name := range manifest.Requires {
		if _, err := bootstrap.ParseCollaborator(name); err != nil {
			errs = append(errs, ValidationError{
				Field:   "requires",
				Message: fmt.Sprintf("Unknown collaborator: %s", name),
			})
		}
	}

	for _, dir := range manifest.WritableDirs {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, ValidationError{
				Field:   "writable_dirs",
				Message: "Writable directory must not be empty",
			})
		}
	}

	return errs
}

func isValidSemver(version string) bool {
	return semverRegex.MatchString(version)
}
