package plugins

import (
	"errors"
	"fmt"
	"strings"
)

// ManifestFile is the file name looked up in each plugin directory
const ManifestFile = "plugin.yaml"

var (
	// ErrInvalidManifest is returned when a manifest fails validation
	ErrInvalidManifest = errors.New("invalid plugin manifest")
	// ErrPluginExists is returned when registering a name twice
	ErrPluginExists = errors.New("plugin already registered")
	// ErrPluginNotFound is returned for unknown plugin names
	ErrPluginNotFound = errors.New("plugin not found")
)

// Manifest describes a plugin on disk
type Manifest struct {
	Name         string            `yaml:"name"`                    // Plugin name, also the config key source
	Version      string            `yaml:"version"`                 // Semver
	Description  string            `yaml:"description,omitempty"`   // Short description
	Author       string            `yaml:"author,omitempty"`        // Author name
	Homepage     string            `yaml:"homepage,omitempty"`      // Homepage URL
	ConfigPath   string            `yaml:"config_path,omitempty"`   // Relative to the plugin directory
	Requires     []string          `yaml:"requires,omitempty"`      // Collaborator names
	WritableDirs []string          `yaml:"writable_dirs,omitempty"` // Relative to the plugin directory
	Metadata     map[string]string `yaml:"metadata,omitempty"`      // Additional metadata
}

// ValidationError represents a manifest validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every problem found in a manifest
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidManifest, strings.Join(msgs, "; "))
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidManifest
}
