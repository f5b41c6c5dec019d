// Package cli implements the turtle command line.
//
// # Overview
//
// Commands share one wiring path: App builds a bootstrap environment from
// pkg/config, providing the config store, cache, session manager, database
// handles and minifier as collaborators, then discovers and initialises
// plugins.
//
// # Commands
//
//	turtle check [--dir DIR]   initialise every plugin once and report
//	turtle serve [--dir DIR]   bootstrap, then serve HTTP endpoints
//	turtle version             print the version
//
// # Endpoints
//
//	GET /health, /health/live, /health/ready
//	GET /metrics
//	GET /plugins
//	GET /plugins/{name}
//	GET /plugins/{name}/config?key=...
//	GET /plugins/{name}/view
//
// # Related Packages
//
//   - pkg/bootstrap: Init and dependency checks
//   - pkg/plugins: Discovery
//   - pkg/observability: Health and metrics endpoints
package cli
