// Package plugins discovers bootstrap plugins on disk.
//
// # Overview
//
// Each plugin lives in its own directory containing a plugin.yaml manifest.
// The loader scans configured plugin directories, validates manifests,
// registers the resulting plugins and passes each declared config file to
// the bootstrap manager.
//
// # Manifest
//
//	name: Sitemap
//	version: 1.0.0
//	config_path: config.yaml
//	requires:
//	  - Plugin\Config
//	  - MemcachedCache
//	writable_dirs:
//	  - cache
//
// Relative config_path and writable_dirs entries are resolved against the
// plugin directory.
//
// # Usage Example
//
//	manager := bootstrap.NewManager(env, bootstrap.WithConfigLoader(store))
//	loader := plugins.NewLoader(plugins.GetDefaultPluginDirectories(), manager, nil, log)
//
//	discovered, err := loader.DiscoverPlugins(ctx)
//	if err != nil {
//		return err
//	}
//	results, err := manager.InitAll(ctx, loader.Registry().List()...)
//
// # Related Packages
//
//   - pkg/bootstrap: Init and dependency checks
//   - pkg/configstore: Loads the declared config files
package plugins
