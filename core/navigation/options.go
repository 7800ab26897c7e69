package navigation

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/ssgi18n/core/head"
	"github.com/dmitrymomot/ssgi18n/core/i18n"
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/route"
)

const (
	// DefaultBundleTimeout bounds one route message bundle fetch.
	DefaultBundleTimeout = 10 * time.Second
	// DefaultMaxRedirects bounds the redirects Navigate follows.
	DefaultMaxRedirects = 3
)

// CookieWriter persists a cookie. cookie.Jar and cookie.ResponseWriter implement it.
type CookieWriter interface {
	WriteCookie(c *http.Cookie) error
}

// HeadConfigurer adjusts a freshly computed head before it is merged and flushed.
type HeadConfigurer func(ctx context.Context, h *head.Head, loc route.Location, rec locale.Record) error

type options struct {
	messages      *i18n.I18n
	loader        i18n.RouteLoader
	cookies       CookieWriter
	sink          head.Sink
	configurer    HeadConfigurer
	logger        *slog.Logger
	bundleTimeout time.Duration
	maxRedirects  int
}

func defaultOptions() options {
	return options{
		logger:        slog.Default(),
		bundleTimeout: DefaultBundleTimeout,
		maxRedirects:  DefaultMaxRedirects,
	}
}

// Option configures a Policy or a server resolution.
type Option func(*options)

// WithMessages sets the message store route bundles are loaded into and
// head texts are translated from.
func WithMessages(m *i18n.I18n) Option {
	return func(o *options) {
		o.messages = m
	}
}

// WithRouteLoader sets the per-route message bundle source.
func WithRouteLoader(l i18n.RouteLoader) Option {
	return func(o *options) {
		o.loader = l
	}
}

// WithCookies sets where the active locale cookie is written.
func WithCookies(w CookieWriter) Option {
	return func(o *options) {
		o.cookies = w
	}
}

// WithHeadSink sets the collaborator receiving every recomputed head.
func WithHeadSink(s head.Sink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithHeadConfigurer sets a hook run on each computed head.
func WithHeadConfigurer(fn HeadConfigurer) Option {
	return func(o *options) {
		o.configurer = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBundleTimeout bounds each route bundle fetch. Zero disables the bound.
func WithBundleTimeout(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.bundleTimeout = d
		}
	}
}

// WithMaxRedirects sets how many redirects Navigate follows.
func WithMaxRedirects(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRedirects = n
		}
	}
}
