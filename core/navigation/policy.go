package navigation

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrymomot/ssgi18n/core/head"
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/logger"
	"github.com/dmitrymomot/ssgi18n/core/route"
)

// Phase is the state of a Policy.
type Phase uint8

const (
	// AwaitingFirstNavigation holds until the first navigation has been reconciled.
	AwaitingFirstNavigation Phase = iota
	// Steady is every later navigation.
	Steady
)

func (p Phase) String() string {
	if p == Steady {
		return "steady"
	}
	return "awaiting-first-navigation"
}

// DecisionKind tells the host router what to do with a navigation.
type DecisionKind uint8

const (
	// Continue lets the navigation proceed to Location.
	Continue DecisionKind = iota
	// Redirect cancels the navigation and re-issues it to Location.
	Redirect
)

// Decision is the outcome of BeforeEach.
type Decision struct {
	Kind     DecisionKind
	Location route.Location
}

// Policy is the navigation guard state machine of one router. It validates
// the locale segment of every target, reconciles the first navigation with
// the detected locale, loads route messages, commits the active locale and
// runs post-navigation effects.
type Policy struct {
	effects

	tree     *route.Tree
	state    *locale.State
	detected string

	mu       sync.Mutex // guards phase, head and computed
	phase    Phase
	head     head.Head
	computed head.Head // last head computed by AfterEach

	navMu sync.Mutex // at most one Navigate in flight
}

// New creates a policy for the router built on tr. state is the active
// locale seeded by client detection.
func New(tr *route.Transformer, state *locale.State, opts ...Option) (*Policy, error) {
	if tr == nil {
		return nil, ErrNoTransformer
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Policy{
		effects: effects{
			options: o,
			tr:      tr,
			lctx:    tr.Context(),
		},
		tree:     tr.Tree(),
		state:    state,
		detected: state.Current(),
	}, nil
}

// Phase returns the current state of the machine.
func (p *Policy) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Head returns a copy of the head as of the last AfterEach.
func (p *Policy) Head() head.Head {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.head.Clone()
}

// BeforeEach runs the guards for a navigation to path `to`, in order:
// locale validity, first-navigation reconciliation, resource loading.
// A Continue decision commits the locale of the target.
func (p *Policy) BeforeEach(ctx context.Context, to string) (Decision, error) {
	m, ok := p.tree.Match(to)
	if !ok {
		if p.tree.Required {
			if um, found := p.tree.MatchUnprefixed(to); found {
				return p.redirect(p.fallbackLocale(), um.Location)
			}
		}
		// Unknown paths land on the home route; without one there is
		// nowhere to go.
		if p.tree.Home() == nil {
			return Decision{}, fmt.Errorf("navigation: %q: %w", to, route.ErrNoRoute)
		}
		return p.redirect(p.fallbackLocale(), route.Location{})
	}

	if m.LocalePresent && !p.lctx.Table.Has(m.LocaleParam) {
		return p.redirect(p.fallbackLocale(), recoverTarget(p.tree, m, to))
	}
	if !m.LocalePresent && p.tree.Required {
		return p.redirect(p.fallbackLocale(), m.Location)
	}

	code := p.lctx.DefaultLocale
	if m.LocalePresent {
		code = m.LocaleParam
	}

	if p.reconcile() && code != p.state.Current() {
		return p.redirect(p.state.Current(), m.Location)
	}

	rec, _ := p.lctx.Table.Get(code)
	p.loadMessages(ctx, rec, m.Location)
	if err := p.state.Commit(code); err != nil {
		return Decision{}, err
	}

	return Decision{Kind: Continue, Location: m.Location}, nil
}

// reconcile reports whether the first-navigation guard applies to this
// navigation and moves the machine to Steady.
func (p *Policy) reconcile() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase != AwaitingFirstNavigation {
		return false
	}
	p.phase = Steady
	return p.tree.Required
}

// fallbackLocale is the detector choice before the first navigation and the
// active locale afterwards.
func (p *Policy) fallbackLocale() string {
	p.mu.Lock()
	phase := p.phase
	p.mu.Unlock()
	if phase == AwaitingFirstNavigation {
		return p.detected
	}
	return p.state.Current()
}

func (p *Policy) redirect(code string, target route.Location) (Decision, error) {
	loc, err := p.tr.ResolvePath(code, target)
	if err != nil {
		return Decision{}, fmt.Errorf("navigation: resolve %q for %s: %w", target.Path, code, err)
	}
	return Decision{Kind: Redirect, Location: loc}, nil
}

// AfterEach runs the effects of a committed navigation: it persists the
// locale cookie, recomputes the head, merges it into the live head and
// flushes it. It returns the resulting head.
func (p *Policy) AfterEach(ctx context.Context, loc route.Location) head.Head {
	rec := p.state.Record()
	p.persistCookie(ctx, rec.Code)

	computed := p.computeHead(ctx, loc, rec)

	p.mu.Lock()
	// Route dependent entries of the previous page must not survive.
	p.head.Subtract(p.computed)
	p.head.Title = ""
	p.head.RemoveMeta("name:description")
	p.head.RemoveMeta("property:og:image")
	p.head.RemoveLinks("alternate")
	p.head.Merge(computed)
	p.computed = computed.Clone()
	snapshot := p.head.Clone()
	p.mu.Unlock()

	p.flush(ctx, snapshot)
	return snapshot
}

// Navigate drives one navigation the way a host router does: it runs
// BeforeEach, follows redirects and runs AfterEach on the final location.
func (p *Policy) Navigate(ctx context.Context, path string) (route.Location, error) {
	p.navMu.Lock()
	defer p.navMu.Unlock()

	to := path
	for range p.maxRedirects + 1 {
		if err := ctx.Err(); err != nil {
			return route.Location{}, err
		}
		d, err := p.BeforeEach(ctx, to)
		if err != nil {
			return route.Location{}, err
		}
		if d.Kind == Continue {
			p.AfterEach(ctx, d.Location)
			return d.Location, nil
		}
		p.logger.DebugContext(ctx, "navigation redirected",
			logger.Component("navigation"),
			logger.Key("from", to),
			logger.Key("to", d.Location.String()),
		)
		to = d.Location.String()
	}
	return route.Location{}, fmt.Errorf("%w: %s", ErrRedirectLoop, path)
}

// recoverTarget picks the redirect target of a path whose locale segment is
// not a configured code. With a required segment the first path segment may
// be a route ("/about" matched as locale "about"), so the unprefixed match
// wins when there is one.
func recoverTarget(tree *route.Tree, m route.Match, raw string) route.Location {
	if tree.Required {
		if um, ok := tree.MatchUnprefixed(raw); ok {
			return um.Location
		}
	}
	return m.Location
}
