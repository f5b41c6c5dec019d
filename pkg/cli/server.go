package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/turtle/pkg/bootstrap"
	"github.com/platinummonkey/turtle/pkg/cache"
	"github.com/platinummonkey/turtle/pkg/configstore"
	"github.com/platinummonkey/turtle/pkg/httpheader"
	"github.com/platinummonkey/turtle/pkg/httputil"
	"github.com/platinummonkey/turtle/pkg/observability"
	"github.com/platinummonkey/turtle/pkg/plugins"
	"github.com/platinummonkey/turtle/pkg/render"
)

// PluginView is the JSON form of a registered plugin
type PluginView struct {
	Name        string   `json:"name"`
	Version     string   `json:"version,omitempty"`
	Description string   `json:"description,omitempty"`
	Initiated   bool     `json:"initiated"`
	ConfigPath  string   `json:"config_path,omitempty"`
	Requires    []string `json:"requires,omitempty"`
}

// Server exposes the bootstrapped plugins over HTTP
type Server struct {
	app    *App
	health *observability.HealthChecker
	log    *logrus.Logger
}

// NewServer creates a server over a bootstrapped app
func NewServer(app *App) *Server {
	redisClient := redisClientOf(app.cache)

	health := observability.NewHealthChecker(nil, redisClient, Version)
	if app.db != nil {
		health = observability.NewHealthChecker(app.db.DB(), redisClient, Version)
	}
	health.AddCheck("collaborators", app.checkCollaborators, true)

	return &Server{app: app, health: health, log: app.log}
}

// Router builds the HTTP routes
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.log),
		httputil.RecoveryMiddleware(s.log),
	)

	if s.app.metrics != nil {
		router.Use(observability.HTTPMetricsMiddleware(s.app.metrics))
		observability.RegisterMetricsEndpoint(router, s.app.registry)
	}
	observability.RegisterHealthRoutes(router, s.health)

	router.HandleFunc("/plugins", s.handleList).Methods(http.MethodGet)
	router.HandleFunc("/plugins/{name}", s.handleGet).Methods(http.MethodGet)
	router.HandleFunc("/plugins/{name}/config", s.handleConfig).Methods(http.MethodGet)
	router.HandleFunc("/plugins/{name}/view", s.handleView).Methods(http.MethodGet)

	return router
}

func redisClientOf(c cache.Cache) *redis.Client {
	if rc, ok := c.(*cache.RedisCache); ok {
		return rc.Client()
	}
	return nil
}

// checkCollaborators fails when a registered plugin requires a collaborator
// the environment lacks
func (a *App) checkCollaborators(_ context.Context) error {
	var errs []error
	for _, p := range a.Registry().List() {
		if r, ok := p.(bootstrap.Requirer); ok {
			if err := bootstrap.CheckDependencies(a.env, r.Requires()...); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Server) view(p bootstrap.Plugin) PluginView {
	v := PluginView{
		Name:       p.Name(),
		Initiated:  s.app.manager.Initiated(p.Name()),
		ConfigPath: s.app.manager.ConfigPath(p.Name()),
	}
	if mp, ok := p.(*plugins.ManifestPlugin); ok {
		v.Version = mp.Manifest().Version
		v.Description = mp.Manifest().Description
	}
	if r, ok := p.(bootstrap.Requirer); ok {
		for _, c := range r.Requires() {
			v.Requires = append(v.Requires, c.String())
		}
	}
	return v
}

// begin opens the visitor's session and applies the common headers. The
// session cookie is written before any body.
func (s *Server) begin(w http.ResponseWriter, r *http.Request, contentType string) (*httpheader.ResponseSink, *logrus.Entry) {
	ctx := observability.WithLogger(r.Context(), s.log)
	sink := httpheader.NewResponseSink(w)

	sess, err := s.app.sessions.Open(ctx, r)
	if err != nil {
		observability.FromContext(ctx).WithError(err).Warn("Failed to open session")
	} else {
		ctx = observability.WithSessionID(ctx, sess.ID)
		views, _ := sess.Get("views")
		n, _ := views.(float64)
		sess.Set("views", n+1)
		if err := s.app.sessions.Save(ctx, w, sess); err != nil {
			observability.FromContext(ctx).WithError(err).Warn("Failed to save session")
		}
	}

	bootstrap.SetHeader(sink, "Content-Type: "+contentType)
	bootstrap.SetHeader(sink, "Cache-Control: no-store")
	return sink, observability.FromContext(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, sink *httpheader.ResponseSink, log *logrus.Entry, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Error("Failed to encode response")
		bootstrap.SetHeader(sink, "HTTP/1.1 500 Internal Server Error")
		sink.Commit()
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
		return
	}

	sink.Commit()
	if _, err := w.Write(append(body, '\n')); err != nil {
		log.WithError(err).Warn("Failed to write response")
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	sink, log := s.begin(w, r, "application/json")

	list := s.app.Registry().List()
	views := make([]PluginView, 0, len(list))
	for _, p := range list {
		views = append(views, s.view(p))
	}
	s.writeJSON(w, sink, log, views)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request, sink *httpheader.ResponseSink, log *logrus.Entry) (bootstrap.Plugin, bool) {
	name := mux.Vars(r)["name"]
	p, err := s.app.Registry().Get(name)
	if err != nil {
		bootstrap.SetHeader(sink, "HTTP/1.1 404 Not Found")
		bootstrap.SetHeader(sink, "Content-Type: application/json")
		s.writeJSON(w, sink, log, map[string]string{"error": err.Error()})
		return nil, false
	}
	return p, true
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sink, log := s.begin(w, r, "application/json")
	if p, ok := s.lookup(w, r, sink, log); ok {
		s.writeJSON(w, sink, log, s.view(p))
	}
}

// handleConfig returns the plugin's config data with markup characters
// encoded, so it can be embedded into pages as-is
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	sink, log := s.begin(w, r, "application/json")
	p, ok := s.lookup(w, r, sink, log)
	if !ok {
		return
	}

	data, err := s.app.manager.ConfigData(p.Name(), r.URL.Query()["key"]...)
	switch {
	case err == nil:
		s.writeJSON(w, sink, log, bootstrap.Encode(data))
	case errors.Is(err, configstore.ErrNotFound):
		bootstrap.SetHeader(sink, "HTTP/1.1 404 Not Found")
		s.writeJSON(w, sink, log, map[string]string{"error": err.Error()})
	default:
		log.WithError(err).Error("Failed to read plugin config")
		bootstrap.SetHeader(sink, "HTTP/1.1 503 Service Unavailable")
		s.writeJSON(w, sink, log, map[string]string{"error": err.Error()})
	}
}

// handleView renders plugin.html from the template root for the plugin
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sink, log := s.begin(w, r, "text/html; charset=utf-8")
	p, ok := s.lookup(w, r, sink, log)
	if !ok {
		return
	}

	out, err := bootstrap.RenderPath(s.app.renderer, "plugin.html", map[string]any{
		"Plugin": s.view(p),
	})
	if err != nil {
		if errors.Is(err, render.ErrTemplateNotFound) {
			bootstrap.SetHeader(sink, "HTTP/1.1 404 Not Found")
		} else {
			log.WithError(err).Error("Failed to render plugin view")
			bootstrap.SetHeader(sink, "HTTP/1.1 500 Internal Server Error")
		}
		bootstrap.SetHeader(sink, "Content-Type: text/plain; charset=utf-8")
		sink.Commit()
		_, _ = w.Write([]byte(http.StatusText(sink.Status())))
		return
	}

	sink.Commit()
	_, _ = w.Write([]byte(out))
}
