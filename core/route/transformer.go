package route

import (
	"log/slog"

	"github.com/dmitrymomot/ssgi18n/core/locale"
)

// Transformer answers "what is the path of this route in that locale".
type Transformer struct {
	tree *Tree
	lctx locale.Context
}

// NewTransformer binds a tree to its locale context.
func NewTransformer(tree *Tree, lctx locale.Context) *Transformer {
	return &Transformer{tree: tree, lctx: lctx}
}

// Tree returns the underlying route tree.
func (t *Transformer) Tree() *Tree {
	return t.tree
}

// Context returns the locale context.
func (t *Transformer) Context() locale.Context {
	return t.lctx
}

// LocaleParam returns the value of the locale path parameter for code: empty
// for the default locale unless the locale segment is required.
func (t *Transformer) LocaleParam(code string) string {
	if code == t.lctx.DefaultLocale && !t.tree.Required {
		return ""
	}
	return code
}

// ResolvePath rewrites target for the locale code. target.Route is the
// resolution base; a nil route resolves to the home route, or fails with
// ErrNoRoute when the tree has none. Query and fragment are kept. Resolving
// an already resolved location for the same code returns the same path.
func (t *Transformer) ResolvePath(code string, target Location) (Location, error) {
	r := target.Route
	if r == nil {
		r = t.tree.Home()
		if r == nil {
			return Location{}, ErrNoRoute
		}
	}

	params := copyParams(target.Params)
	params[t.tree.PathVariable] = t.LocaleParam(code)

	p, err := t.tree.Build(r, params)
	if err != nil {
		return Location{}, err
	}
	if params[t.tree.PathVariable] == "" {
		delete(params, t.tree.PathVariable)
	}

	return Location{
		Path:   p,
		Params: params,
		Route:  r,
		Query:  target.Query,
		Hash:   target.Hash,
	}, nil
}

// Resolve matches path and rewrites it for code. Unknown paths resolve to
// the home route without query or fragment.
func (t *Transformer) Resolve(code, path string) (Location, error) {
	m, ok := t.tree.Match(path)
	if !ok {
		return t.ResolvePath(code, Location{})
	}
	return t.ResolvePath(code, m.Location)
}

// Alternates returns the hreflang links of a location, with route
// parameters filled in so dynamic routes get concrete URLs.
func (t *Transformer) Alternates(loc Location, log *slog.Logger) []Link {
	raw := ""
	if loc.Route != nil {
		raw = loc.Route.Meta.RawPath
		if filled, err := t.tree.fill(loc.Route, loc.Params); err == nil {
			raw = filled
		}
	}
	return alternateLinks(raw, t.lctx.DefaultLocale, t.lctx.Table.Records(), t.lctx.Base, log)
}
