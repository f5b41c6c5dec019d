// Package config loads application configuration from environment variables.
//
// # Overview
//
// Every setting has a default; LoadConfig reads TURTLE_* variables over
// those defaults and validates the result.
//
// # Configuration Structure
//
// Server settings:
//
//	TURTLE_HOST="0.0.0.0"
//	TURTLE_PORT="8080"
//	TURTLE_SHUTDOWN_TIMEOUT="30s"
//
// Plugins:
//
//	TURTLE_PLUGIN_DIRS="/etc/turtle/plugins:/srv/app/plugins"
//	TURTLE_WATCH_CONFIG="true"
//
// Collaborators:
//
//	TURTLE_CACHE_BACKEND="redis"   # memory, redis
//	TURTLE_REDIS_URL="redis://localhost:6379/0"
//	TURTLE_CACHE_TTL="5m"
//	TURTLE_DB_DRIVER="mysql"       # mysql, postgres, sqlite3
//	TURTLE_DB_DSN="user:pass@tcp(localhost:3306)/app"
//	TURTLE_SESSION_COOKIE="turtle_session"
//	TURTLE_SESSION_TTL="24h"
//	TURTLE_TEMPLATE_ROOT="/srv/app/views"
//
// Observability:
//
//	TURTLE_LOG_LEVEL="info"
//	TURTLE_METRICS_ENABLED="true"
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	db, err := database.Open(ctx, cfg.Database, logger)
//
// # Related Packages
//
//   - pkg/cli: Builds the bootstrap environment from Config
package config
