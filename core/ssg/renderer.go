package ssg

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/ssgi18n/core/head"
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/route"
)

// Page is what a renderer receives for one output path.
type Page struct {
	// Path is the request path the page is generated for ("/es/about").
	Path     string
	Location route.Location
	Locale   locale.Record
	// T translates a message key for the page locale.
	T head.Translator
}

// Renderer produces the markup mounted into the app element.
type Renderer interface {
	Render(ctx context.Context, p Page) (string, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, p Page) (string, error)

// Render implements Renderer.
func (f RendererFunc) Render(ctx context.Context, p Page) (string, error) {
	return f(ctx, p)
}

// ComponentRenderer renders templ components.
type ComponentRenderer func(p Page) templ.Component

// Render implements Renderer.
func (f ComponentRenderer) Render(ctx context.Context, p Page) (string, error) {
	return head.Render(ctx, f(p))
}

// TemplateRenderer renders page fragments written as html/template files.
// The template of a route is "<pageKey>.html" ("page-about.html"), falling
// back to "default.html". Templates get the Page as data and a "t" function
// translating message keys.
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer parses the templates of fsys matching patterns
// (default "*.html").
func NewTemplateRenderer(fsys fs.FS, patterns ...string) (*TemplateRenderer, error) {
	if len(patterns) == 0 {
		patterns = []string{"*.html"}
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"t": func(key string) string { return key },
	}).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("ssg: parse page templates: %w", err)
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

// Render implements Renderer.
func (r *TemplateRenderer) Render(_ context.Context, p Page) (string, error) {
	name := "default.html"
	if p.Location.Route != nil {
		if key := p.Location.Route.Meta.PageKey + ".html"; r.tmpl.Lookup(key) != nil {
			name = key
		}
	}
	if r.tmpl.Lookup(name) == nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, p.Path)
	}

	// Clone so concurrent pages get their own "t".
	tmpl, err := r.tmpl.Clone()
	if err != nil {
		return "", err
	}
	translate := p.T
	if translate == nil {
		translate = func(key string) string { return key }
	}
	tmpl.Funcs(template.FuncMap{"t": func(key string) string { return translate(key) }})

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, p); err != nil {
		return "", fmt.Errorf("ssg: render %s with %s: %w", p.Path, name, err)
	}
	return buf.String(), nil
}
