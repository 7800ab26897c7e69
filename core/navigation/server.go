package navigation

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrymomot/ssgi18n/core/head"
	"github.com/dmitrymomot/ssgi18n/core/i18n"
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/route"
)

// ServerRequest carries the request signals of server-mode resolution.
// Every field is optional.
type ServerRequest struct {
	AcceptLanguage string
	RequestURL     string
	LocaleCookie   string
}

// ServerPage is one request resolved in server mode.
type ServerPage struct {
	// Location is the page to render, always carrying a valid locale.
	Location route.Location
	// State is the active locale of the request.
	State *locale.State
	// Canonical is false when the request path was rewritten: unknown path,
	// unknown locale segment or missing required locale segment.
	Canonical bool

	messages *i18n.I18n
	effects  *effects

	once sync.Once
	head head.Head
}

// ResolveServer resolves a request once: it detects the locale from the
// request signals, rewrites the path when needed, loads the route messages
// and persists the locale cookie. The head is computed by InjectHead after
// the page has rendered.
//
// A message store given with WithMessages is cloned, so route bundles of
// one request never leak into another.
func ResolveServer(ctx context.Context, tr *route.Transformer, req ServerRequest, opts ...Option) (*ServerPage, error) {
	if tr == nil {
		return nil, ErrNoTransformer
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.messages != nil {
		o.messages = o.messages.Clone()
	}

	lctx := tr.Context()
	tree := tr.Tree()
	detection := locale.DetectServer(lctx.DefaultLocale, lctx.Table, req.AcceptLanguage, req.RequestURL, req.LocaleCookie)
	state := locale.NewState(lctx.Table, detection)

	loc, canonical, err := resolveServerLocation(tr, tree, lctx, state.Current(), req.RequestURL)
	if err != nil {
		return nil, err
	}

	code := lctx.DefaultLocale
	if v := loc.Params[tree.PathVariable]; v != "" {
		code = v
	}
	if err := state.Commit(code); err != nil {
		return nil, err
	}

	e := &effects{options: o, tr: tr, lctx: lctx}
	rec := state.Record()
	e.loadMessages(ctx, rec, loc)
	e.persistCookie(ctx, rec.Code)

	return &ServerPage{
		Location:  loc,
		State:     state,
		Canonical: canonical,
		messages:  o.messages,
		effects:   e,
	}, nil
}

func resolveServerLocation(tr *route.Transformer, tree *route.Tree, lctx locale.Context, detected, requestURL string) (route.Location, bool, error) {
	if requestURL == "" {
		requestURL = "/"
	}
	m, ok := tree.Match(requestURL)
	if !ok {
		if tree.Required {
			if um, found := tree.MatchUnprefixed(requestURL); found {
				loc, err := tr.ResolvePath(detected, um.Location)
				return loc, false, err
			}
		}
		if tree.Home() == nil {
			return route.Location{}, false, fmt.Errorf("navigation: %q: %w", requestURL, route.ErrNoRoute)
		}
		loc, err := tr.ResolvePath(detected, route.Location{})
		return loc, false, err
	}
	if m.LocalePresent && !lctx.Table.Has(m.LocaleParam) {
		loc, err := tr.ResolvePath(detected, recoverTarget(tree, m, requestURL))
		return loc, false, err
	}
	return m.Location, true, nil
}

// Messages returns the request message store, or nil.
func (p *ServerPage) Messages() *i18n.I18n {
	return p.messages
}

// Translate looks up key for the page locale. It returns the key itself when
// there is no message store or no message.
func (p *ServerPage) Translate(key string) string {
	if p.messages == nil {
		return key
	}
	return p.messages.T(p.State.Current(), key)
}

// InjectHead computes the page head and flushes it. The first call does
// the work; later calls return the same head.
func (p *ServerPage) InjectHead(ctx context.Context) head.Head {
	p.once.Do(func() {
		p.head = p.effects.computeHead(ctx, p.Location, p.State.Record())
		p.effects.flush(ctx, p.head)
	})
	return p.head.Clone()
}
