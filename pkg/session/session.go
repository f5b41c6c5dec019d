package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/turtle/pkg/cache"
	"github.com/platinummonkey/turtle/pkg/observability"
)

const keyPrefix = "session:"

// Session holds the values of one client session
type Session struct {
	ID     string
	Values map[string]any
	isNew  bool
}

// IsNew reports whether the session was created by this request
func (s *Session) IsNew() bool {
	return s.isNew
}

func (s *Session) Get(key string) (any, bool) {
	v, ok := s.Values[key]
	return v, ok
}

func (s *Session) Set(key string, value any) {
	s.Values[key] = value
}

func (s *Session) Delete(key string) {
	delete(s.Values, key)
}

// Options controls the session cookie and lifetime
type Options struct {
	CookieName string
	Path       string
	Domain     string
	TTL        time.Duration
	Secure     bool
}

// DefaultOptions returns default session options
func DefaultOptions() Options {
	return Options{
		CookieName: "turtle_session",
		Path:       "/",
		TTL:        24 * time.Hour,
		Secure:     true,
	}
}

// Manager is the SMSession collaborator: it stores sessions in a cache and
// tracks them with a cookie
type Manager struct {
	cache   cache.Cache
	opts    Options
	metrics *observability.Metrics
	log     *logrus.Logger
}

// NewManager creates a session manager over c
func NewManager(c cache.Cache, opts Options, metrics *observability.Metrics, log *logrus.Logger) *Manager {
	if log == nil {
		log = logrus.New()
	}
	defaults := DefaultOptions()
	if opts.CookieName == "" {
		opts.CookieName = defaults.CookieName
	}
	if opts.Path == "" {
		opts.Path = defaults.Path
	}
	if opts.TTL <= 0 {
		opts.TTL = defaults.TTL
	}

	return &Manager{
		cache:   c,
		opts:    opts,
		metrics: metrics,
		log:     log,
	}
}

// Open resumes the session named by the request cookie, or starts a new one
// when the cookie is absent, malformed or expired
func (m *Manager) Open(ctx context.Context, r *http.Request) (*Session, error) {
	if cookie, err := r.Cookie(m.opts.CookieName); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			s, err := m.load(ctx, id.String())
			if err == nil {
				m.metrics.RecordSessionOpened("resumed")
				return s, nil
			}
			if !errors.Is(err, cache.ErrCacheMiss) {
				return nil, err
			}
		}
	}

	m.metrics.RecordSessionOpened("new")
	return &Session{
		ID:     uuid.NewString(),
		Values: make(map[string]any),
		isNew:  true,
	}, nil
}

func (m *Manager) load(ctx context.Context, id string) (*Session, error) {
	data, err := m.cache.Get(ctx, keyPrefix+id)
	if err != nil {
		return nil, err
	}

	values := make(map[string]any)
	if err := json.Unmarshal(data, &values); err != nil {
		m.log.Warnf("Discarding corrupt session %s: %v", id, err)
		return nil, cache.ErrCacheMiss
	}

	return &Session{ID: id, Values: values}, nil
}

// Save persists the session and refreshes the cookie
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	data, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := m.cache.Set(ctx, keyPrefix+s.ID, data, m.opts.TTL); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	http.SetCookie(w, m.cookie(s.ID, int(m.opts.TTL.Seconds())))
	s.isNew = false
	return nil
}

// Destroy removes the session and expires the cookie
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if err := m.cache.Delete(ctx, keyPrefix+s.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	http.SetCookie(w, m.cookie("", -1))
	return nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     m.opts.Path,
		Domain:   m.opts.Domain,
		MaxAge:   maxAge,
		Secure:   m.opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
