package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/turtle/pkg/cache"
	"github.com/platinummonkey/turtle/pkg/database"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TURTLE_TEST_STR", "custom")
	t.Setenv("TURTLE_TEST_BOOL", "1")
	t.Setenv("TURTLE_TEST_INT", "42")
	t.Setenv("TURTLE_TEST_BAD_INT", "forty")
	t.Setenv("TURTLE_TEST_DUR", "90s")

	assert.Equal(t, "custom", getEnv("TURTLE_TEST_STR", "default"))
	assert.Equal(t, "default", getEnv("TURTLE_TEST_UNSET", "default"))
	assert.True(t, getEnvBool("TURTLE_TEST_BOOL", false))
	assert.True(t, getEnvBool("TURTLE_TEST_UNSET", true))
	assert.Equal(t, 42, getEnvInt("TURTLE_TEST_INT", 0))
	assert.Equal(t, 7, getEnvInt("TURTLE_TEST_BAD_INT", 7))
	assert.Equal(t, 90*time.Second, getEnvDuration("TURTLE_TEST_DUR", 0))
	assert.Equal(t, time.Second, getEnvDuration("TURTLE_TEST_UNSET", time.Second))
}

func TestGetEnvList(t *testing.T) {
	sep := string(os.PathListSeparator)
	t.Setenv("TURTLE_TEST_LIST", strings.Join([]string{"/a", " ", "/b"}, sep))

	assert.Equal(t, []string{"/a", "/b"}, getEnvList("TURTLE_TEST_LIST", nil))
	assert.Equal(t, []string{"x"}, getEnvList("TURTLE_TEST_UNSET", []string{"x"}))
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Empty(t, cfg.Plugins.Dirs)
	assert.False(t, cfg.Plugins.WatchConfig)
	assert.Equal(t, cache.BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, database.DriverMySQL, cfg.Database.Driver)
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, "turtle_session", cfg.Session.CookieName)
	assert.Equal(t, 128, cfg.Templates.CacheSize)
	assert.Equal(t, logrus.InfoLevel, cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.MetricsEnabled)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	dirs := filepath.Join("/srv", "plugins") + string(os.PathListSeparator) + filepath.Join("/opt", "plugins")

	t.Setenv("TURTLE_PORT", "9000")
	t.Setenv("TURTLE_PLUGIN_DIRS", dirs)
	t.Setenv("TURTLE_WATCH_CONFIG", "true")
	t.Setenv("TURTLE_CACHE_BACKEND", "REDIS")
	t.Setenv("TURTLE_REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("TURTLE_CACHE_TTL", "1m")
	t.Setenv("TURTLE_DB_DRIVER", "postgres")
	t.Setenv("TURTLE_DB_DSN", "postgres://localhost/turtle")
	t.Setenv("TURTLE_SESSION_SECURE", "false")
	t.Setenv("TURTLE_SESSION_TTL", "2h")
	t.Setenv("TURTLE_TEMPLATE_ROOT", "/srv/views")
	t.Setenv("TURTLE_LOG_LEVEL", "debug")
	t.Setenv("TURTLE_METRICS_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"/srv/plugins", "/opt/plugins"}, cfg.Plugins.Dirs)
	assert.True(t, cfg.Plugins.WatchConfig)
	assert.Equal(t, cache.BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, database.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/turtle", cfg.Database.DSN)
	assert.False(t, cfg.Session.Secure)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "/srv/views", cfg.Templates.Root)
	assert.Equal(t, logrus.DebugLevel, cfg.Observability.LogLevel)
	assert.False(t, cfg.Observability.MetricsEnabled)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("TURTLE_CACHE_BACKEND", "memcached")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Cache:    *cache.DefaultConfig(),
			Database: database.DefaultConfig(),
			Session:  loadSessionConfig(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "server port is required"},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = "http" }, wantErr: "invalid server port"},
		{name: "redis without url", mutate: func(c *Config) { c.Cache.Backend = cache.BackendRedis }, wantErr: "redis URL is required"},
		{name: "unknown backend", mutate: func(c *Config) { c.Cache.Backend = "disk" }, wantErr: "invalid cache backend"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }, wantErr: "invalid database driver"},
		{name: "no cookie", mutate: func(c *Config) { c.Session.CookieName = "" }, wantErr: "session cookie name is required"},
		{name: "zero ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, wantErr: "session TTL must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
