// Package httputil provides HTTP middleware shared by the turtle server.
//
// # Overview
//
// RequestIDMiddleware tags every request with an ID carried in the
// X-Request-ID header and the request context. LoggingMiddleware logs each
// request through logrus with that ID attached. RecoveryMiddleware turns
// handler panics into 500 responses.
//
// # Usage Example
//
//	router := mux.NewRouter()
//	router.Use(
//		httputil.RequestIDMiddleware,
//		httputil.LoggingMiddleware(log),
//		httputil.RecoveryMiddleware(log),
//	)
//
// Or around any handler:
//
//	handler := httputil.Chain(httputil.RequestIDMiddleware, httputil.RecoveryMiddleware(log))(mux)
//
// # Related Packages
//
//   - pkg/observability: Context logging helpers
//   - pkg/cli: Mounts the middleware
package httputil
