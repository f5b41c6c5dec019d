package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/turtle/pkg/bootstrap"
	"github.com/platinummonkey/turtle/pkg/cache"
	"github.com/platinummonkey/turtle/pkg/config"
	"github.com/platinummonkey/turtle/pkg/configstore"
	"github.com/platinummonkey/turtle/pkg/database"
	"github.com/platinummonkey/turtle/pkg/minify"
	"github.com/platinummonkey/turtle/pkg/observability"
	"github.com/platinummonkey/turtle/pkg/plugins"
	"github.com/platinummonkey/turtle/pkg/render"
	"github.com/platinummonkey/turtle/pkg/session"
)

// App wires every collaborator into a bootstrap environment and owns their
// lifetimes.
type App struct {
	cfg      *config.Config
	env      *bootstrap.Environment
	manager  *bootstrap.Manager
	loader   *plugins.Loader
	store    *configstore.Store
	cache    cache.Cache
	sessions *session.Manager
	db       *database.Connection
	renderer *render.FileRenderer
	registry *prometheus.Registry
	metrics  *observability.Metrics
	log      *logrus.Logger
}

// NewApp builds the environment described by cfg. The database is only
// opened when a DSN is configured.
func NewApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	if log == nil {
		log = logrus.New()
	}

	app := &App{
		cfg: cfg,
		env: bootstrap.NewEnvironment(),
		log: log,
	}

	if cfg.Observability.MetricsEnabled {
		app.registry = prometheus.NewRegistry()
		app.metrics = observability.NewMetrics(app.registry)
	}

	app.store = configstore.New(log)
	app.env.Provide(bootstrap.ConfigPlugin, app.store)

	c, err := cache.New(&cfg.Cache, app.metrics, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	app.cache = c
	app.env.Provide(bootstrap.MemcachedCache, c)

	app.sessions = session.NewManager(c, cfg.Session, app.metrics, log)
	app.env.Provide(bootstrap.SMSession, app.sessions)

	app.env.Provide(bootstrap.JSShrink, minify.Shrink())

	if cfg.Database.DSN != "" {
		db, err := database.Open(ctx, cfg.Database, log)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		app.db = db
		app.env.Provide(bootstrap.MySQLConnection, db)
		app.env.Provide(bootstrap.MySQLQuery, database.QueryFunc(db.Query))
	} else {
		log.Debug("No database DSN configured, MySQLConnection and MySQLQuery are unavailable")
	}

	renderer, err := render.NewFileRenderer(cfg.Templates.Root, cfg.Templates.CacheSize, log)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.renderer = renderer

	app.manager = bootstrap.NewManager(app.env,
		bootstrap.WithLogger(log),
		bootstrap.WithMetrics(app.metrics),
		bootstrap.WithConfigLoader(app.store),
	)

	dirs := cfg.Plugins.Dirs
	if len(dirs) == 0 {
		dirs = plugins.GetDefaultPluginDirectories()
	}
	app.loader = plugins.NewLoader(dirs, app.manager, nil, log)

	return app, nil
}

// Bootstrap discovers plugins and initialises every registered plugin
func (a *App) Bootstrap(ctx context.Context) ([]bootstrap.Result, error) {
	if _, err := a.loader.DiscoverPlugins(ctx); err != nil {
		return nil, fmt.Errorf("plugin discovery failed: %w", err)
	}
	return a.manager.InitAll(ctx, a.loader.Registry().List()...)
}

// Manager returns the bootstrap manager
func (a *App) Manager() *bootstrap.Manager {
	return a.manager
}

// Registry returns the plugin registry
func (a *App) Registry() *plugins.Registry {
	return a.loader.Registry()
}

// Environment returns the collaborator environment
func (a *App) Environment() *bootstrap.Environment {
	return a.env
}

// ConfigPaths returns the config file of every registered plugin that has one
func (a *App) ConfigPaths() []string {
	var paths []string
	for _, p := range a.Registry().List() {
		if path := a.manager.ConfigPath(p.Name()); path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}

// Close releases the cache and database
func (a *App) Close() error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
