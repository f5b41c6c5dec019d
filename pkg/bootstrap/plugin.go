package bootstrap

import "context"

// Plugin is the identity every bootstrapped plugin supplies. The name keys
// the plugin's descriptor and its config data.
type Plugin interface {
	Name() string
}

// Requirer is implemented by plugins that declare the collaborators they
// need. Requirements are checked in order and the first missing one aborts
// Init.
type Requirer interface {
	Requires() []Collaborator
}

// DependencyCheckable is implemented by plugins with checks beyond plain
// collaborator presence, such as writable directories. It runs after the
// Requirer checks.
type DependencyCheckable interface {
	CheckDependencies(env *Environment) error
}

// ConfigLoader performs the one-time load of a plugin's config file. key is
// the plugin's config key as returned by ConfigKey.
type ConfigLoader interface {
	LoadConfig(ctx context.Context, key, path string) error
}

// ConfigLoaderFunc adapts a function to ConfigLoader
type ConfigLoaderFunc func(ctx context.Context, key, path string) error

func (f ConfigLoaderFunc) LoadConfig(ctx context.Context, key, path string) error {
	return f(ctx, key, path)
}

// ConfigRetriever reads config data previously loaded under a key
type ConfigRetriever interface {
	Retrieve(keys ...string) (any, error)
}

// HeaderSink receives raw response header lines
type HeaderSink interface {
	SetHeader(value string)
}

// Renderer renders the template at path with the given variables
type Renderer interface {
	Render(path string, vars map[string]any) (string, error)
}

// NamedPlugin is a minimal Plugin for callers that only need an identity
// and a list of required collaborators.
type NamedPlugin struct {
	PluginName string
	Required   []Collaborator
}

func (p NamedPlugin) Name() string {
	return p.PluginName
}

func (p NamedPlugin) Requires() []Collaborator {
	return p.Required
}
