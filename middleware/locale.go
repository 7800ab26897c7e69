package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/ssgi18n/core/cookie"
	"github.com/dmitrymomot/ssgi18n/core/i18n"
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/logger"
	"github.com/dmitrymomot/ssgi18n/core/navigation"
	"github.com/dmitrymomot/ssgi18n/core/route"
)

// localePageContextKey is used as a key for storing the resolved page in request context.
type localePageContextKey struct{}

// LocaleConfig configures the locale middleware.
type LocaleConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Transformer is the locale route transformer (required)
	Transformer *route.Transformer
	// Cookies writes the locale cookie. Default: cookie.New()
	Cookies *cookie.Manager
	// Messages is the global message store cloned for every request
	Messages *i18n.I18n
	// RouteLoader loads the per-route message bundles
	RouteLoader i18n.RouteLoader
	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger
	// RedirectCode is the status of locale rewrites (default: 302)
	RedirectCode int
	// Prefix is prepended to redirect targets when the handler is mounted
	// below a base path with http.StripPrefix
	Prefix string
}

// Locale creates a locale middleware with default configuration.
func Locale(tr *route.Transformer) func(http.Handler) http.Handler {
	return LocaleWithConfig(LocaleConfig{Transformer: tr})
}

// LocaleWithConfig creates a locale middleware. Every request is resolved
// once from its Accept-Language header, URL and locale cookie. A request
// whose path is rewritten (unknown locale segment, missing required
// segment, unknown route) is redirected to the resolved path; otherwise the
// resolved page is stored in context, Content-Language is set and the
// locale cookie is persisted. A path that matches no route on a site without
// a home route is answered with 404.
func LocaleWithConfig(cfg LocaleConfig) func(http.Handler) http.Handler {
	if cfg.Transformer == nil {
		panic("locale middleware: transformer is required")
	}
	if cfg.Cookies == nil {
		cfg.Cookies = cookie.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RedirectCode == 0 {
		cfg.RedirectCode = http.StatusFound
	}
	cfg.Prefix = strings.TrimSuffix(cfg.Prefix, "/")

	cookieName := cfg.Transformer.Context().CookieName

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			var stored string
			if c, err := r.Cookie(cookieName); err == nil {
				stored = c.Value
			}

			page, err := navigation.ResolveServer(r.Context(), cfg.Transformer, navigation.ServerRequest{
				AcceptLanguage: r.Header.Get("Accept-Language"),
				RequestURL:     r.URL.Path,
				LocaleCookie:   stored,
			},
				navigation.WithMessages(cfg.Messages),
				navigation.WithRouteLoader(cfg.RouteLoader),
				navigation.WithCookies(cfg.Cookies.Writer(w)),
				navigation.WithLogger(cfg.Logger),
			)
			if errors.Is(err, route.ErrNoRoute) {
				http.NotFound(w, r)
				return
			}
			if err != nil {
				cfg.Logger.ErrorContext(r.Context(), "locale resolution failed",
					logger.Component("locale"),
					logger.Path(r.URL.Path),
					logger.Error(err),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			code := page.State.Current()
			if !page.Canonical {
				target := page.Location
				target.Query = r.URL.RawQuery
				cfg.Logger.DebugContext(r.Context(), "locale redirect",
					logger.Component("locale"),
					logger.Path(r.URL.Path),
					logger.Locale(code),
					logger.Key("to", target.String()),
				)
				http.Redirect(w, r, cfg.Prefix+target.String(), cfg.RedirectCode)
				return
			}

			w.Header().Set("Content-Language", code)
			ctx := context.WithValue(r.Context(), localePageContextKey{}, page)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPage retrieves the resolved page from the request context.
func GetPage(ctx context.Context) (*navigation.ServerPage, bool) {
	page, ok := ctx.Value(localePageContextKey{}).(*navigation.ServerPage)
	return page, ok
}

// GetLocale retrieves the locale state of the request.
// Works with any context.Context.
func GetLocale(ctx context.Context) (*locale.State, bool) {
	page, ok := GetPage(ctx)
	if !ok {
		return nil, false
	}
	return page.State, true
}
