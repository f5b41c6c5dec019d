package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Init results recorded by PluginInitTotal
const (
	InitStatusSuccess = "success"
	InitStatusFailure = "failure"
	InitStatusSkipped = "skipped"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Bootstrap metrics
	PluginInitTotal         *prometheus.CounterVec
	PluginInitDuration      *prometheus.HistogramVec
	DependencyFailuresTotal *prometheus.CounterVec
	ConfigLoadsTotal        *prometheus.CounterVec
	PluginsInitiated        prometheus.Gauge

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Session metrics
	SessionsOpenedTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turtle_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "turtle_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		PluginInitTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turtle_plugin_init_total",
				Help: "Total number of plugin init attempts by result",
			},
			[]string{"plugin", "status"},
		),
		PluginInitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "turtle_plugin_init_duration_seconds",
				Help:    "Plugin init duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"plugin"},
		),
		DependencyFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turtle_dependency_check_failures_total",
				Help: "Total number of failed dependency checks by collaborator",
			},
			[]string{"plugin", "collaborator"},
		),
		ConfigLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turtle_config_loads_total",
				Help: "Total number of plugin config files loaded",
			},
			[]string{"plugin"},
		),
		PluginsInitiated: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "turtle_plugins_initiated",
				Help: "Number of plugins successfully initiated",
			},
		),

		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turtle_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache_type"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turtle_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache_type"},
		),

		SessionsOpenedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turtle_sessions_opened_total",
				Help: "Total number of sessions opened",
			},
			[]string{"origin"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PluginInitTotal,
		m.PluginInitDuration,
		m.DependencyFailuresTotal,
		m.ConfigLoadsTotal,
		m.PluginsInitiated,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.SessionsOpenedTotal,
	)

	return m
}

// RecordPluginInit records the outcome of one Init call. Safe on a nil receiver.
func (m *Metrics) RecordPluginInit(plugin, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.PluginInitTotal.WithLabelValues(plugin, status).Inc()
	if status == InitStatusSkipped {
		return
	}
	m.PluginInitDuration.WithLabelValues(plugin).Observe(duration.Seconds())
	if status == InitStatusSuccess {
		m.PluginsInitiated.Inc()
	}
}

// RecordDependencyFailure counts a missing collaborator. Safe on a nil receiver.
func (m *Metrics) RecordDependencyFailure(plugin, collaborator string) {
	if m == nil {
		return
	}
	m.DependencyFailuresTotal.WithLabelValues(plugin, collaborator).Inc()
}

// RecordConfigLoad counts a config file load. Safe on a nil receiver.
func (m *Metrics) RecordConfigLoad(plugin string) {
	if m == nil {
		return
	}
	m.ConfigLoadsTotal.WithLabelValues(plugin).Inc()
}

// RecordCacheLookup counts a cache hit or miss. Safe on a nil receiver.
func (m *Metrics) RecordCacheLookup(cacheType string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cacheType).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(cacheType).Inc()
}

// RecordSessionOpened counts a session by whether it was new or resumed. Safe on a nil receiver.
func (m *Metrics) RecordSessionOpened(origin string) {
	if m == nil {
		return
	}
	m.SessionsOpenedTotal.WithLabelValues(origin).Inc()
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics
func HTTPMetricsMiddleware(metrics *Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					path = tmpl
				}
			}

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(router *mux.Router, registry *prometheus.Registry) {
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}
