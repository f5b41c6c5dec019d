package configstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Store is an in-memory, concurrency-safe tree of config data addressed by
// top-level key
type Store struct {
	data map[string]any
	mu   sync.RWMutex
	log  *logrus.Logger
}

// New creates an empty store
func New(log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}

	return &Store{
		data: make(map[string]any),
		log:  log,
	}
}

// Add stores value under key, replacing what was there
func (s *Store) Add(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Keys returns the top-level keys
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// Retrieve walks keys through nested maps starting at the top-level key.
// At least one key is required.
func (s *Store) Retrieve(keys ...string) (any, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no key given", ErrNotFound)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[keys[0]]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, keys[0])
	}

	for i, key := range keys[1:] {
		m, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a map", ErrNotFound, strings.Join(keys[:i+1], "."))
		}
		value, ok = m[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(keys[:i+2], "."))
		}
	}

	return value, nil
}

// LoadConfig decodes the file at path and stores the result under key. The
// format is chosen by extension: .yaml, .yml, .toml or .json.
func (s *Store) LoadConfig(ctx context.Context, key, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	value, err := Decode(filepath.Ext(path), data)
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	s.Add(key, value)
	s.log.WithFields(logrus.Fields{"key": key, "path": path}).Debug("Loaded config")
	return nil
}

// Decode parses data in the format named by ext into a map tree
func Decode(ext string, data []byte) (map[string]any, error) {
	out := make(map[string]any)

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		for k, v := range out {
			out[k] = stringKeys(v)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &out); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	return out, nil
}

// stringKeys rewrites yaml mappings with non-string keys, such as
// `404: missing`, into map[string]any so they can be walked by Retrieve
// and encoded as JSON.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = stringKeys(item)
		}
		return out
	case map[string]any:
		for k, item := range t {
			t[k] = stringKeys(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = stringKeys(item)
		}
		return t
	default:
		return v
	}
}
