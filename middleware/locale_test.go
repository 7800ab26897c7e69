package middleware_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssgi18n/core/i18n"
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/logger"
	"github.com/dmitrymomot/ssgi18n/core/route"
	"github.com/dmitrymomot/ssgi18n/middleware"
)

func newTransformer(t *testing.T, onURL bool) *route.Transformer {
	t.Helper()
	lctx, err := locale.NewContext(locale.Config{
		DefaultLocale: "en",
		Locales: locale.Entries{
			{Code: "en", Description: "English"},
			{Code: "es", Description: "Español"},
		},
		DefaultLocaleOnURL: onURL,
	})
	require.NoError(t, err)
	tree := route.BuildLocaleTree([]*route.Route{
		{Path: "/", Name: "home"},
		{Path: "/about"},
	}, lctx, route.WithLogger(logger.Discard()))
	return route.NewTransformer(tree, lctx)
}

func TestLocale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		onURL          bool
		path           string
		acceptLanguage string
		cookie         string
		wantStatus     int
		wantLocation   string
		wantLanguage   string
		wantCookie     string
	}{
		{name: "default locale unprefixed", path: "/about", wantStatus: http.StatusOK, wantLanguage: "en", wantCookie: "en"},
		{name: "prefixed locale", path: "/es/about", wantStatus: http.StatusOK, wantLanguage: "es", wantCookie: "es"},
		{name: "url wins over cookie", path: "/about", cookie: "es", wantStatus: http.StatusOK, wantLanguage: "en", wantCookie: "en"},
		{name: "unknown locale segment", path: "/xx/about", acceptLanguage: "es", wantStatus: http.StatusFound, wantLocation: "/es/about", wantCookie: "es"},
		{name: "unknown path", path: "/missing/deeply/nested", wantStatus: http.StatusFound, wantLocation: "/", wantCookie: "en"},
		{name: "missing required segment", onURL: true, path: "/about", acceptLanguage: "es", wantStatus: http.StatusFound, wantLocation: "/es/about", wantCookie: "es"},
		{name: "query preserved", onURL: true, path: "/about?page=2", cookie: "es", wantStatus: http.StatusFound, wantLocation: "/es/about?page=2", wantCookie: "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seen string
			h := middleware.LocaleWithConfig(middleware.LocaleConfig{
				Transformer: newTransformer(t, tt.onURL),
				Logger:      logger.Discard(),
			})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				st, ok := middleware.GetLocale(r.Context())
				require.True(t, ok)
				seen = st.Current()
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tt.acceptLanguage)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: locale.DefaultCookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
				assert.Empty(t, seen)
			} else {
				assert.Equal(t, tt.wantLanguage, seen)
				assert.Equal(t, tt.wantLanguage, w.Header().Get("Content-Language"))
			}

			var persisted *http.Cookie
			for _, c := range w.Result().Cookies() {
				if c.Name == locale.DefaultCookieName {
					persisted = c
				}
			}
			require.NotNil(t, persisted)
			assert.Equal(t, tt.wantCookie, persisted.Value)
			assert.Equal(t, "/", persisted.Path)
			assert.Equal(t, http.SameSiteStrictMode, persisted.SameSite)
		})
	}
}

func TestLocale_PageInContext(t *testing.T) {
	t.Parallel()

	messages, err := i18n.New(i18n.WithTranslations("es", map[string]any{
		"page-about": map[string]any{"title": "Acerca de"},
	}))
	require.NoError(t, err)

	h := middleware.LocaleWithConfig(middleware.LocaleConfig{
		Transformer: newTransformer(t, false),
		Messages:    messages,
		RouteLoader: i18n.RouteLoaderFunc(func(context.Context, locale.Record, route.Location) (map[string]any, error) {
			return map[string]any{"page-about": map[string]any{"description": "Quiénes somos"}}, nil
		}),
		Logger: logger.Discard(),
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := middleware.GetPage(r.Context())
		require.True(t, ok)
		assert.Equal(t, "Acerca de", page.Translate("page-about.title"))
		assert.Equal(t, "Quiénes somos", page.Translate("page-about.description"))

		h := page.InjectHead(r.Context())
		assert.Equal(t, "Acerca de", h.Title)
		assert.Equal(t, "es", h.Lang)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/es/about", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// the route bundle stays with the request
	assert.False(t, messages.Has("es", "page-about.description"))
}

func TestLocale_Skip(t *testing.T) {
	t.Parallel()

	h := middleware.LocaleWithConfig(middleware.LocaleConfig{
		Transformer: newTransformer(t, true),
		Skip:        func(r *http.Request) bool { return r.URL.Path == "/assets/app.js" },
		Logger:      slog.New(slog.DiscardHandler),
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := middleware.GetLocale(r.Context())
		assert.False(t, ok)
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestLocale_Prefix(t *testing.T) {
	t.Parallel()

	h := http.StripPrefix("/docs", middleware.LocaleWithConfig(middleware.LocaleConfig{
		Transformer: newTransformer(t, true),
		Prefix:      "/docs/",
		Logger:      logger.Discard(),
	})(http.NotFoundHandler()))

	req := httptest.NewRequest(http.MethodGet, "/docs/about", nil)
	req.Header.Set("Accept-Language", "es")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/docs/es/about", w.Header().Get("Location"))
}

func TestLocale_NoHomeRoute(t *testing.T) {
	t.Parallel()

	lctx, err := locale.NewContext(locale.Config{
		DefaultLocale: "en",
		Locales: locale.Entries{
			{Code: "en", Description: "English"},
			{Code: "es", Description: "Español"},
		},
	})
	require.NoError(t, err)
	tr := route.NewTransformer(route.BuildLocaleTree([]*route.Route{{Path: "/about"}}, lctx), lctx)

	h := middleware.LocaleWithConfig(middleware.LocaleConfig{
		Transformer: tr,
		Logger:      logger.Discard(),
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		path       string
		wantStatus int
	}{
		{path: "/missing", wantStatus: http.StatusNotFound},
		{path: "/", wantStatus: http.StatusNotFound},
		{path: "/es", wantStatus: http.StatusNotFound},
		{path: "/es/about", wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Empty(t, w.Header().Get("Location"))
		})
	}
}

func TestLocale_RequiresTransformer(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		middleware.Locale(nil)
	})
}

func TestGetLocale_Missing(t *testing.T) {
	t.Parallel()

	_, ok := middleware.GetLocale(context.Background())
	assert.False(t, ok)
	_, ok = middleware.GetPage(context.Background())
	assert.False(t, ok)
}
