// Package observability provides structured logging, Prometheus metrics and health checks.
//
// # Overview
//
// Logging uses logrus with a JSON formatter. Metrics cover plugin init
// outcomes, dependency check failures, config loads, cache lookups and
// sessions. Health checks probe the database and Redis collaborators and
// any extra components registered with AddCheck.
//
// # Structured Logging
//
//	log := observability.NewLogger(observability.ParseLogLevel("debug"), os.Stderr)
//	log.WithField("plugin", "Sitemap").Info("Plugin initiated")
//
// Request-scoped logging:
//
//	ctx = observability.WithRequestID(ctx, reqID)
//	observability.FromContext(ctx).Warn("Session cookie rejected")
//
// # Prometheus Metrics
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	router.Use(observability.HTTPMetricsMiddleware(metrics))
//	observability.RegisterMetricsEndpoint(router, registry)
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(db, redisClient, version)
//	checker.AddCheck("collaborators", checkEnv, true)
//	observability.RegisterHealthRoutes(router, checker)
//
// # Related Packages
//
//   - pkg/bootstrap: Records plugin init metrics
//   - pkg/cli: Wires the HTTP endpoints
package observability
