package route

import (
	"log/slog"
	"strings"

	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/logger"
)

// Meta is the metadata bag attached to a route.
type Meta struct {
	// RawPath is the route path before locale prefixing, relative to the site root.
	RawPath string `json:"-" yaml:"-"`

	PageKey        string `json:"pageI18nKey,omitempty" yaml:"pageI18nKey,omitempty"`
	TitleKey       string `json:"titleKey,omitempty" yaml:"titleKey,omitempty"`
	DescriptionKey string `json:"descriptionKey,omitempty" yaml:"descriptionKey,omitempty"`
	ImageKey       string `json:"imageKey,omitempty" yaml:"imageKey,omitempty"`

	// Explicit overrides win over i18n lookups.
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`

	// IsGlobal mirrors the configured flag; nil means true.
	IsGlobal *bool `json:"isGlobal,omitempty" yaml:"isGlobal,omitempty"`
	// IsGlobalMessages reports whether page messages live in the global bundle.
	IsGlobalMessages bool `json:"-" yaml:"-"`

	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Route is one entry of the user route table.
type Route struct {
	Path     string   `json:"path" yaml:"path"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Children []*Route `json:"children,omitempty" yaml:"children,omitempty"`
	Meta     Meta     `json:"meta,omitzero" yaml:"meta,omitempty"`
	// Component names the page fragment rendered for the route.
	Component string `json:"component,omitempty" yaml:"component,omitempty"`
}

// Tree is the locale-prefixed route tree: one synthetic root whose pattern is
// "/:<var>?" or "/:<var>" and whose children are the user routes.
type Tree struct {
	Root         *Route
	Pattern      string
	Required     bool
	PathVariable string

	entries []entry
	byName  map[string]*Route
	home    *Route
	logger  *slog.Logger
}

type entry struct {
	route *Route
	segs  []segment
	depth int
}

// Option configures BuildLocaleTree.
type Option func(*Tree)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.logger = l
		}
	}
}

// BuildLocaleTree wraps routes as children of the synthetic locale node.
// The input is not modified. The locale segment is required when
// lctx.DefaultLocaleOnURL is set or when a top-level route is dynamic.
func BuildLocaleTree(routes []*Route, lctx locale.Context, opts ...Option) *Tree {
	t := &Tree{
		PathVariable: locale.NormalizePathVariable(lctx.PathVariable),
		byName:       make(map[string]*Route),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}

	children := make([]*Route, 0, len(routes))
	for _, r := range routes {
		if r == nil {
			continue
		}
		children = append(children, cloneRoute(r))
	}

	required := lctx.DefaultLocaleOnURL
	for _, r := range children {
		r.Path = strings.TrimPrefix(r.Path, "/")
		if isDynamicPath(r.Path) && !lctx.DefaultLocaleOnURL {
			t.logger.Warn("dynamic top-level route forces the locale segment into every URL",
				logger.Component("route"),
				logger.Route(r.Path),
				logger.Result("AmbiguousRouteWarning"),
			)
			required = true
		}
	}

	t.Required = required
	if required {
		t.Pattern = "/:" + t.PathVariable
	} else {
		t.Pattern = "/:" + t.PathVariable + "?"
	}
	t.Root = &Route{Path: t.Pattern, Children: children}

	for _, r := range children {
		t.index(r, "", nil, 0)
	}
	return t
}

func (t *Tree) index(r *Route, parentRaw string, parentSegs []segment, depth int) {
	rel := strings.Trim(r.Path, "/")
	raw := joinPath(parentRaw, rel)

	r.Meta.RawPath = raw
	deriveKeys(r)

	segs := append(append([]segment(nil), parentSegs...), parseSegments(rel)...)
	t.entries = append(t.entries, entry{route: r, segs: segs, depth: depth})
	if r.Name != "" {
		if _, dup := t.byName[r.Name]; !dup {
			t.byName[r.Name] = r
		}
	}
	if raw == "" && (t.home == nil || len(r.Children) == 0) {
		t.home = r
	}

	for _, c := range r.Children {
		t.index(c, raw, segs, depth+1)
	}
}

func deriveKeys(r *Route) {
	m := &r.Meta
	if m.PageKey == "" {
		switch {
		case r.Name != "":
			m.PageKey = "page-" + r.Name
		case m.RawPath != "":
			m.PageKey = "page-" + m.RawPath
		default:
			m.PageKey = "page-index"
		}
	}
	if m.TitleKey == "" {
		m.TitleKey = m.PageKey + ".title"
	}
	if m.DescriptionKey == "" {
		m.DescriptionKey = m.PageKey + ".description"
	}
	if m.ImageKey == "" {
		m.ImageKey = m.PageKey + ".image"
	}
	m.IsGlobalMessages = m.IsGlobal == nil || *m.IsGlobal
}

// Routes returns the user routes (children of the synthetic root).
func (t *Tree) Routes() []*Route {
	return t.Root.Children
}

// Named returns the route registered under name.
func (t *Tree) Named(name string) (*Route, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// Home returns the route whose raw path is empty, or nil.
func (t *Tree) Home() *Route {
	return t.home
}

// Walk visits every route depth-first in declaration order.
func (t *Tree) Walk(fn func(r *Route)) {
	for _, e := range t.entries {
		fn(e.route)
	}
}

func cloneRoute(r *Route) *Route {
	c := *r
	if r.Meta.Extra != nil {
		c.Meta.Extra = make(map[string]any, len(r.Meta.Extra))
		for k, v := range r.Meta.Extra {
			c.Meta.Extra[k] = v
		}
	}
	if r.Children != nil {
		c.Children = make([]*Route, 0, len(r.Children))
		for _, child := range r.Children {
			if child != nil {
				c.Children = append(c.Children, cloneRoute(child))
			}
		}
	}
	return &c
}

func isDynamicPath(p string) bool {
	return strings.HasPrefix(p, ":") || strings.Contains(p, "*")
}

// IsDynamic reports whether a path contains a parameter or a wildcard.
func IsDynamic(p string) bool {
	return strings.Contains(p, ":") || strings.Contains(p, "*")
}

func joinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + "/" + child
	}
}
