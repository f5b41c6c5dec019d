package bootstrap

import "strings"

const (
	// ConfigKeyPrefix and ConfigKeySuffix wrap a plugin name to form its config key
	ConfigKeyPrefix = "TurtlePHP-"
	ConfigKeySuffix = "Plugin"

	namespacePrefix = `Plugin\`
)

// ConfigKey derives the config key for a plugin name, dropping a leading
// Plugin\ namespace: "Foo" and `Plugin\Foo` both give "TurtlePHP-FooPlugin".
func ConfigKey(name string) string {
	name = strings.TrimPrefix(name, namespacePrefix)
	return ConfigKeyPrefix + name + ConfigKeySuffix
}

// SetHeader passes value straight to the sink
func SetHeader(sink HeaderSink, value string) {
	sink.SetHeader(value)
}

// RenderPath renders path through r with vars
func RenderPath(r Renderer, path string, vars map[string]any) (string, error) {
	if vars == nil {
		vars = map[string]any{}
	}
	return r.Render(path, vars)
}
