package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/turtle/pkg/cache"
	"github.com/platinummonkey/turtle/pkg/database"
	"github.com/platinummonkey/turtle/pkg/observability"
	"github.com/platinummonkey/turtle/pkg/session"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Plugin discovery
	Plugins PluginsConfig

	// MemcachedCache collaborator
	Cache cache.Config

	// MySQLConnection collaborator
	Database database.Config

	// SMSession collaborator
	Session session.Options

	// View rendering
	Templates TemplatesConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns host:port
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// PluginsConfig controls where plugins are discovered
type PluginsConfig struct {
	Dirs        []string
	WatchConfig bool
}

// TemplatesConfig controls the file renderer
type TemplatesConfig struct {
	Root      string
	CacheSize int
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       logrus.Level
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Plugins:       loadPluginsConfig(),
		Cache:         loadCacheConfig(),
		Database:      loadDatabaseConfig(),
		Session:       loadSessionConfig(),
		Templates:     loadTemplatesConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("TURTLE_HOST", "0.0.0.0"),
		Port:            getEnv("TURTLE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("TURTLE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("TURTLE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("TURTLE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("TURTLE_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func loadPluginsConfig() PluginsConfig {
	return PluginsConfig{
		Dirs:        getEnvList("TURTLE_PLUGIN_DIRS", nil),
		WatchConfig: getEnvBool("TURTLE_WATCH_CONFIG", false),
	}
}

func loadCacheConfig() cache.Config {
	cfg := *cache.DefaultConfig()

	if backend := getEnv("TURTLE_CACHE_BACKEND", ""); backend != "" {
		cfg.Backend = strings.ToLower(backend)
	}
	if redisURL := getEnv("TURTLE_REDIS_URL", ""); redisURL != "" {
		cfg.RedisURL = redisURL
	}
	if size := getEnvInt("TURTLE_CACHE_SIZE", 0); size > 0 {
		cfg.MaxEntries = size
	}
	if ttl := getEnvDuration("TURTLE_CACHE_TTL", 0); ttl > 0 {
		cfg.TTL = ttl
	}
	cfg.KeyPrefix = getEnv("TURTLE_CACHE_PREFIX", cfg.KeyPrefix)

	return cfg
}

func loadDatabaseConfig() database.Config {
	cfg := database.DefaultConfig()

	if driver := getEnv("TURTLE_DB_DRIVER", ""); driver != "" {
		cfg.Driver = driver
	}
	cfg.DSN = getEnv("TURTLE_DB_DSN", "")
	if maxOpen := getEnvInt("TURTLE_DB_MAX_OPEN_CONNS", 0); maxOpen > 0 {
		cfg.MaxOpenConns = maxOpen
	}
	if maxIdle := getEnvInt("TURTLE_DB_MAX_IDLE_CONNS", 0); maxIdle > 0 {
		cfg.MaxIdleConns = maxIdle
	}
	if lifetime := getEnvDuration("TURTLE_DB_CONN_MAX_LIFETIME", 0); lifetime > 0 {
		cfg.ConnMaxLifetime = lifetime
	}

	return cfg
}

func loadSessionConfig() session.Options {
	opts := session.DefaultOptions()

	opts.CookieName = getEnv("TURTLE_SESSION_COOKIE", opts.CookieName)
	opts.Path = getEnv("TURTLE_SESSION_PATH", opts.Path)
	opts.Domain = getEnv("TURTLE_SESSION_DOMAIN", opts.Domain)
	opts.TTL = getEnvDuration("TURTLE_SESSION_TTL", opts.TTL)
	opts.Secure = getEnvBool("TURTLE_SESSION_SECURE", opts.Secure)

	return opts
}

func loadTemplatesConfig() TemplatesConfig {
	return TemplatesConfig{
		Root:      getEnv("TURTLE_TEMPLATE_ROOT", ""),
		CacheSize: getEnvInt("TURTLE_TEMPLATE_CACHE_SIZE", 128),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       observability.ParseLogLevel(getEnv("TURTLE_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("TURTLE_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	switch c.Cache.Backend {
	case cache.BackendMemory:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("redis URL is required for redis cache backend")
		}
	default:
		return fmt.Errorf("invalid cache backend: %s (must be memory or redis)", c.Cache.Backend)
	}

	switch c.Database.Driver {
	case database.DriverMySQL, database.DriverPostgres, database.DriverSQLite:
	default:
		return fmt.Errorf("invalid database driver: %s (must be mysql, postgres, or sqlite3)", c.Database.Driver)
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList splits an OS path-list environment variable, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range filepath.SplitList(value) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
