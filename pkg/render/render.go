// Package render renders plugin view templates from disk.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

var (
	// ErrOutsideRoot is returned for paths that escape the renderer's root
	ErrOutsideRoot = errors.New("template path outside root")
	// ErrTemplateNotFound is returned when the template file does not exist
	ErrTemplateNotFound = errors.New("template not found")
)

// DefaultCacheSize is the number of parsed templates kept in memory
const DefaultCacheSize = 128

type cachedTemplate struct {
	tmpl    *template.Template
	modTime int64
}

// FileRenderer renders html/template files found under a root directory.
// Parsed templates are cached and reparsed when the file changes.
type FileRenderer struct {
	root  string
	cache *lru.Cache[string, cachedTemplate]
	funcs template.FuncMap
	log   *logrus.Logger
}

// NewFileRenderer creates a renderer rooted at root. An empty root means
// paths are used as given.
func NewFileRenderer(root string, cacheSize int, log *logrus.Logger) (*FileRenderer, error) {
	if log == nil {
		log = logrus.New()
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, cachedTemplate](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create template cache: %w", err)
	}

	if root != "" {
		root, err = filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve template root: %w", err)
		}
	}

	return &FileRenderer{
		root:  root,
		cache: cache,
		funcs: template.FuncMap{},
		log:   log,
	}, nil
}

// Funcs adds template functions available to templates parsed afterwards
func (r *FileRenderer) Funcs(funcs template.FuncMap) *FileRenderer {
	for k, v := range funcs {
		r.funcs[k] = v
	}
	r.cache.Purge()
	return r
}

// Render executes the template at path with vars as its data
func (r *FileRenderer) Render(path string, vars map[string]any) (string, error) {
	full, err := r.resolve(path)
	if err != nil {
		return "", err
	}

	tmpl, err := r.load(full)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", path, err)
	}
	return buf.String(), nil
}

// CachedCount returns the number of parsed templates held in the cache
func (r *FileRenderer) CachedCount() int {
	return r.cache.Len()
}

func (r *FileRenderer) resolve(path string) (string, error) {
	if r.root == "" {
		return filepath.Clean(path), nil
	}
	full := filepath.Join(r.root, filepath.Clean("/"+path))
	if full != r.root && !strings.HasPrefix(full, r.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return full, nil
}

func (r *FileRenderer) load(full string) (*template.Template, error) {
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, full)
		}
		return nil, fmt.Errorf("failed to stat template: %w", err)
	}

	modTime := info.ModTime().UnixNano()
	if cached, ok := r.cache.Get(full); ok && cached.modTime == modTime {
		return cached.tmpl, nil
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	tmpl, err := template.New(filepath.Base(full)).Funcs(r.funcs).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", full, err)
	}

	r.cache.Add(full, cachedTemplate{tmpl: tmpl, modTime: modTime})
	r.log.WithField("path", full).Debug("Parsed template")
	return tmpl, nil
}
