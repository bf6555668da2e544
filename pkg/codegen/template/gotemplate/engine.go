// Package gotemplate implements template.TemplateRenderer on top of pongo2.
package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-typegen/pkg/codegen/template"
)

// Option configures the engine before construction.
type Option func(*Engine)

// WithBaseDir resolves relative template file paths against dir instead of
// the working directory.
func WithBaseDir(dir string) Option {
	return func(e *Engine) {
		e.baseDir = strings.TrimSpace(dir)
	}
}

// WithGlobals makes values visible to every template. Per-render data wins
// over globals of the same name.
func WithGlobals(globals map[string]any) Option {
	return func(e *Engine) {
		for key, value := range globals {
			if key = strings.TrimSpace(key); key != "" {
				e.globals[key] = value
			}
		}
	}
}

// Engine renders header templates. Output is never HTML escaped. Parsed
// templates are cached, so an Engine is meant to be reused across files.
type Engine struct {
	baseDir string
	globals pongo2.Context

	mu     sync.RWMutex
	set    *pongo2.TemplateSet
	inline map[string]*pongo2.Template
	files  map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine.
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		globals: pongo2.Context{},
		inline:  make(map[string]*pongo2.Template),
		files:   make(map[string]*pongo2.Template),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}

	loader, err := pongo2.NewLocalFileSystemLoader(e.baseDir)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: template directory %q: %w", e.baseDir, err)
	}
	e.set = pongo2.NewSet("typegen", loader)
	e.set.Globals.Update(e.globals)
	return e, nil
}

// RenderString renders inline template content.
func (e *Engine) RenderString(content string, data map[string]any) (string, error) {
	tmpl, err := e.cached(e.inline, content, func() (*pongo2.Template, error) {
		return e.parse(content)
	})
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template: %w", err)
	}
	return execute(tmpl, data, "template")
}

// RenderFile renders the template file at path. Relative paths resolve
// against the base directory.
func (e *Engine) RenderFile(path string, data map[string]any) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("gotemplate: template path is required")
	}
	resolved := path
	if !filepath.IsAbs(resolved) && e.baseDir != "" {
		resolved = filepath.Join(e.baseDir, resolved)
	}
	tmpl, err := e.cached(e.files, resolved, func() (*pongo2.Template, error) {
		content, err := os.ReadFile(resolved)
		if err != nil {
			return nil, err
		}
		return e.parse(string(content))
	})
	if err != nil {
		return "", fmt.Errorf("gotemplate: load %s: %w", path, err)
	}
	return execute(tmpl, data, path)
}

// parse compiles content with HTML escaping switched off.
func (e *Engine) parse(content string) (*pongo2.Template, error) {
	return e.set.FromString("{% autoescape off %}" + content + "{% endautoescape %}")
}

func execute(tmpl *pongo2.Template, data map[string]any, label string) (string, error) {
	ctx := make(pongo2.Context, len(data))
	for key, value := range data {
		ctx[key] = value
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: render %s: %w", label, err)
	}
	return buf.String(), nil
}

func (e *Engine) cached(cache map[string]*pongo2.Template, key string, load func() (*pongo2.Template, error)) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := cache[key]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := cache[key]; ok {
		return tmpl, nil
	}
	tmpl, err := load()
	if err != nil {
		return nil, err
	}
	cache[key] = tmpl
	return tmpl, nil
}
