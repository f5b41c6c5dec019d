package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/turtle/pkg/observability"
)

const tracerName = "github.com/platinummonkey/turtle/pkg/bootstrap"

// descriptor is the per-plugin bootstrap state
type descriptor struct {
	initiated  bool
	configPath string
	loads      int
}

// Manager owns the bootstrap state of every plugin it has seen
type Manager struct {
	descriptors map[string]*descriptor
	env         *Environment
	loader      ConfigLoader
	metrics     *observability.Metrics
	tracer      trace.Tracer
	mu          sync.Mutex
	log         *logrus.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(log *logrus.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithMetrics records init outcomes on metrics
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithConfigLoader overrides the loader. Without it the environment's
// ConfigPlugin handle is used and must implement ConfigLoader.
func WithConfigLoader(loader ConfigLoader) Option {
	return func(m *Manager) {
		m.loader = loader
	}
}

// NewManager creates a manager over env. A nil env is treated as empty.
func NewManager(env *Environment, opts ...Option) *Manager {
	if env == nil {
		env = NewEnvironment()
	}

	m := &Manager{
		descriptors: make(map[string]*descriptor),
		env:         env,
		tracer:      otel.Tracer(tracerName),
		log:         logrus.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Environment returns the collaborator environment plugins are checked against
func (m *Manager) Environment() *Environment {
	return m.env
}

// descriptorFor returns the descriptor for name, creating it on first use.
// The caller must hold m.mu.
func (m *Manager) descriptorFor(name string) *descriptor {
	d, ok := m.descriptors[name]
	if !ok {
		d = &descriptor{}
		m.descriptors[name] = d
	}
	return d
}

// SetConfigPath stores path as the config file for the named plugin. It
// returns false and leaves the state unchanged unless path is an existing
// regular file.
func (m *Manager) SetConfigPath(name, path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		m.log.WithFields(logrus.Fields{"plugin": name, "path": path}).Debug("Rejected config path")
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.descriptorFor(name).configPath = path
	return true
}

// ConfigPath returns the stored config path for the named plugin
func (m *Manager) ConfigPath(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d, ok := m.descriptors[name]; ok {
		return d.configPath
	}
	return ""
}

// Initiated reports whether Init has run for the named plugin
func (m *Manager) Initiated(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d, ok := m.descriptors[name]; ok {
		return d.initiated
	}
	return false
}

// LoadCount returns how many times the plugin's config file was loaded
func (m *Manager) LoadCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d, ok := m.descriptors[name]; ok {
		return d.loads
	}
	return 0
}

// Names lists every plugin with a descriptor, sorted
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.descriptors))
	for name := range m.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Init bootstraps p once. The first call marks the plugin initiated, checks
// its dependencies and loads its config file, returning true on success.
// Every later call returns false without doing anything, including after a
// failed first call.
func (m *Manager) Init(ctx context.Context, p Plugin) (bool, error) {
	if p == nil {
		return false, fmt.Errorf("%w: nil plugin", ErrInvalidPlugin)
	}
	name := p.Name()
	if name == "" {
		return false, fmt.Errorf("%w: empty name", ErrInvalidPlugin)
	}

	ctx, span := m.tracer.Start(ctx, "bootstrap.Init",
		trace.WithAttributes(attribute.String("plugin.name", name)))
	defer span.End()

	start := time.Now()

	m.mu.Lock()
	d := m.descriptorFor(name)
	if d.initiated {
		m.mu.Unlock()
		span.SetAttributes(attribute.Bool("plugin.skipped", true))
		m.metrics.RecordPluginInit(name, observability.InitStatusSkipped, 0)
		return false, nil
	}
	d.initiated = true
	path := d.configPath
	m.mu.Unlock()

	log := m.log.WithField("plugin", name)

	if err := m.checkDependencies(name, p); err != nil {
		return false, m.fail(span, log, name, start, err)
	}

	if err := m.loadConfigPath(ctx, name, path); err != nil {
		return false, m.fail(span, log, name, start, err)
	}

	m.metrics.RecordPluginInit(name, observability.InitStatusSuccess, time.Since(start))
	log.WithField("config_path", path).Info("Plugin initiated")
	return true, nil
}

func (m *Manager) fail(span trace.Span, log *logrus.Entry, name string, start time.Time, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	m.metrics.RecordPluginInit(name, observability.InitStatusFailure, time.Since(start))
	log.WithError(err).Error("Plugin init failed")
	return fmt.Errorf("plugin %s: %w", name, err)
}

func (m *Manager) checkDependencies(name string, p Plugin) error {
	if r, ok := p.(Requirer); ok {
		if err := CheckDependencies(m.env, r.Requires()...); err != nil {
			var missing *MissingDependencyError
			if errors.As(err, &missing) {
				m.metrics.RecordDependencyFailure(name, missing.Collaborator.String())
			}
			return err
		}
	}

	if c, ok := p.(DependencyCheckable); ok {
		if err := c.CheckDependencies(m.env); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) loadConfigPath(ctx context.Context, name, path string) error {
	if path == "" {
		return ErrConfigPathNotSet
	}

	loader := m.loader
	if loader == nil {
		l, err := Handle[ConfigLoader](m.env, ConfigPlugin)
		if err != nil {
			return err
		}
		loader = l
	}

	if err := loader.LoadConfig(ctx, ConfigKey(name), path); err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	m.mu.Lock()
	m.descriptorFor(name).loads++
	m.mu.Unlock()

	m.metrics.RecordConfigLoad(name)
	return nil
}

// Result is the outcome of one plugin in InitAll
type Result struct {
	Name      string
	Initiated bool
	Err       error
}

// InitAll runs Init for every plugin concurrently. Results keep the order
// of plugins; the returned error joins every failure.
func (m *Manager) InitAll(ctx context.Context, plugins ...Plugin) ([]Result, error) {
	results := make([]Result, len(plugins))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range plugins {
		i, p := i, p
		g.Go(func() error {
			if p != nil {
				results[i].Name = p.Name()
			}
			ok, err := m.Init(gctx, p)
			results[i].Initiated = ok
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}

// ConfigData retrieves the named plugin's config data through the
// environment's ConfigPlugin handle. keys are looked up beneath the
// plugin's config key.
func (m *Manager) ConfigData(name string, keys ...string) (any, error) {
	retriever, err := Handle[ConfigRetriever](m.env, ConfigPlugin)
	if err != nil {
		return nil, err
	}
	path := append([]string{ConfigKey(name)}, keys...)
	return retriever.Retrieve(path...)
}
