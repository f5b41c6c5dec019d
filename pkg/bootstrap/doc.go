// Package bootstrap provides one-time initialization and dependency checks
// for TurtlePHP-style plugins.
//
// # Overview
//
// A Manager keeps a descriptor per plugin name holding whether the plugin
// has been initiated and which config file it loads. Init flips the
// initiated flag exactly once, checks the plugin's collaborators against an
// Environment, and loads the config file through a ConfigLoader.
//
// # Collaborators
//
// Optional runtime dependencies are provided as handles on an Environment.
// A collaborator is missing when no handle was provided for it:
//
//	env := bootstrap.NewEnvironment().
//		Provide(bootstrap.ConfigPlugin, store).
//		Provide(bootstrap.MemcachedCache, redisCache)
//
//	if _, err := bootstrap.CheckSMSessionDependency(env); err != nil {
//		// *\SMSession* class required. Please see https://github.com/onassar/PHP-SecureSessions
//	}
//
// # Usage Example
//
//	manager := bootstrap.NewManager(env, bootstrap.WithLogger(log))
//	manager.SetConfigPath("Foo", "/etc/turtle/foo.yaml")
//
//	ok, err := manager.Init(ctx, bootstrap.NamedPlugin{
//		PluginName: "Foo",
//		Required:   []bootstrap.Collaborator{bootstrap.ConfigPlugin},
//	})
//
//	data, err := manager.ConfigData("Foo", "timeout")
//
// # Related Packages
//
//   - pkg/plugins: Manifest-driven plugins and discovery
//   - pkg/configstore: Config collaborator
package bootstrap
