package navigation_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssgi18n/core/cookie"
	"github.com/dmitrymomot/ssgi18n/core/head"
	"github.com/dmitrymomot/ssgi18n/core/i18n"
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/navigation"
	"github.com/dmitrymomot/ssgi18n/core/route"
)

// syncBuffer is a log sink safe for concurrent writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fixture struct {
	tr       *route.Transformer
	lctx     locale.Context
	messages *i18n.I18n
	jar      *cookie.Jar
	sink     *head.Recorder
	logs     *syncBuffer
}

func newFixture(t *testing.T, onURL bool) *fixture {
	t.Helper()
	lctx, err := locale.NewContext(locale.Config{
		DefaultLocale: "en",
		Locales: locale.Entries{
			{Code: "en", Description: "English"},
			{Code: "es", Description: "Español"},
		},
		DefaultLocaleOnURL: onURL,
		Base:               "https://example.com/docs/",
	})
	require.NoError(t, err)

	logs := &syncBuffer{}
	log := slog.New(slog.NewJSONHandler(logs, nil))
	tree := route.BuildLocaleTree([]*route.Route{
		{Path: "/", Name: "home"},
		{Path: "/about"},
		{Path: "/contact", Meta: route.Meta{Description: "Write to us"}},
	}, lctx, route.WithLogger(log))

	messages, err := i18n.New(
		i18n.WithDefaultLanguage("en"),
		i18n.WithTranslations("en", map[string]any{
			"page-about":   map[string]any{"title": "About", "description": "Who we are"},
			"page-contact": map[string]any{"title": "Contact"},
		}),
		i18n.WithTranslations("es", map[string]any{
			"page-about": map[string]any{"title": "Acerca de"},
		}),
	)
	require.NoError(t, err)

	return &fixture{
		tr:       route.NewTransformer(tree, lctx),
		lctx:     lctx,
		messages: messages,
		jar:      cookie.NewJar(),
		sink:     &head.Recorder{},
		logs:     logs,
	}
}

func (f *fixture) policy(t *testing.T, d locale.Detection, opts ...navigation.Option) (*navigation.Policy, *locale.State) {
	t.Helper()
	state := locale.NewState(f.lctx.Table, d)
	base := []navigation.Option{
		navigation.WithMessages(f.messages),
		navigation.WithCookies(f.jar),
		navigation.WithHeadSink(f.sink),
		navigation.WithLogger(slog.New(slog.NewJSONHandler(f.logs, nil))),
	}
	p, err := navigation.New(f.tr, state, append(base, opts...)...)
	require.NoError(t, err)
	return p, state
}

func TestPolicy_ValidityGuard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		onURL    bool
		detected string
		to       string
		want     string
	}{
		{name: "unknown locale uses detected locale", detected: "es", to: "/xx/about", want: "/es/about"},
		{name: "unknown locale for default", detected: "en", to: "/xx/about", want: "/about"},
		{name: "missing required locale", onURL: true, detected: "es", to: "/about", want: "/es/about"},
		{name: "missing required locale on root", onURL: true, detected: "en", to: "/", want: "/en"},
		{name: "unknown path goes home", detected: "es", to: "/no/such/page", want: "/es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, tt.onURL)
			p, _ := f.policy(t, locale.Detection{Current: tt.detected, IsFirstDetection: true})

			d, err := p.BeforeEach(context.Background(), tt.to)
			require.NoError(t, err)
			assert.Equal(t, navigation.Redirect, d.Kind)
			assert.Equal(t, tt.want, d.Location.Path)
			// the validity guard fires before the first-navigation transition
			assert.Equal(t, navigation.AwaitingFirstNavigation, p.Phase())
		})
	}

	t.Run("steady state uses the active locale", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		p, state := f.policy(t, locale.Detection{Current: "en", IsFirstDetection: true})

		_, err := p.Navigate(context.Background(), "/es/about")
		require.NoError(t, err)
		assert.Equal(t, "es", state.Current())

		d, err := p.BeforeEach(context.Background(), "/xx/contact")
		require.NoError(t, err)
		assert.Equal(t, navigation.Redirect, d.Kind)
		assert.Equal(t, "/es/contact", d.Location.Path)
		assert.Equal(t, "es", state.Current())
	})
}

func TestPolicy_FirstNavigationReconciliation(t *testing.T) {
	t.Parallel()

	t.Run("required locale redirects exactly once", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		p, state := f.policy(t, locale.Detection{Current: "es"})
		ctx := context.Background()

		d, err := p.BeforeEach(ctx, "/en/about")
		require.NoError(t, err)
		assert.Equal(t, navigation.Redirect, d.Kind)
		assert.Equal(t, "/es/about", d.Location.Path)
		assert.Equal(t, navigation.Steady, p.Phase())

		d, err = p.BeforeEach(ctx, d.Location.String())
		require.NoError(t, err)
		assert.Equal(t, navigation.Continue, d.Kind)
		assert.Equal(t, "es", state.Current())

		// later navigations follow the URL
		d, err = p.BeforeEach(ctx, "/en/about")
		require.NoError(t, err)
		assert.Equal(t, navigation.Continue, d.Kind)
		assert.Equal(t, "en", state.Current())
	})

	t.Run("matching locale falls through", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		p, _ := f.policy(t, locale.Detection{Current: "es"})

		d, err := p.BeforeEach(context.Background(), "/es/about")
		require.NoError(t, err)
		assert.Equal(t, navigation.Continue, d.Kind)
		assert.Equal(t, navigation.Steady, p.Phase())
	})

	t.Run("optional locale never reconciles", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		p, state := f.policy(t, locale.Detection{Current: "es"})

		d, err := p.BeforeEach(context.Background(), "/about")
		require.NoError(t, err)
		assert.Equal(t, navigation.Continue, d.Kind)
		assert.Equal(t, "en", state.Current())
	})

	t.Run("navigate settles", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, true)
		p, _ := f.policy(t, locale.Detection{Current: "es"})

		loc, err := p.Navigate(context.Background(), "/en/about?tab=1")
		require.NoError(t, err)
		assert.Equal(t, "/es/about?tab=1", loc.String())
		assert.Equal(t, 1, f.sink.Count())
	})
}

func TestPolicy_ResourceLoading(t *testing.T) {
	t.Parallel()

	t.Run("route bundle merged over global messages", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		var calls []string
		loader := i18n.RouteLoaderFunc(func(_ context.Context, rec locale.Record, loc route.Location) (map[string]any, error) {
			calls = append(calls, rec.Code+":"+i18n.BundleName(loc))
			if loc.Route.Meta.RawPath != "about" {
				return nil, i18n.ErrNoRouteBundle
			}
			return map[string]any{"page-about": map[string]any{"description": "Quiénes somos"}}, nil
		})
		p, _ := f.policy(t, locale.Detection{Current: "es"}, navigation.WithRouteLoader(loader))

		_, err := p.Navigate(context.Background(), "/es/about")
		require.NoError(t, err)
		assert.Equal(t, []string{"es:about"}, calls)
		assert.Equal(t, "Acerca de", f.messages.T("es", "page-about.title"))
		assert.Equal(t, "Quiénes somos", f.messages.T("es", "page-about.description"))

		h := p.Head()
		assert.Equal(t, "Acerca de", h.Title)
		desc, ok := h.GetMeta("name:description")
		require.True(t, ok)
		assert.Equal(t, "Quiénes somos", desc.Content)
		assert.NotContains(t, f.logs.String(), "ResourceLoadFailure")
	})

	t.Run("failed fetch keeps global messages", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		loader := i18n.RouteLoaderFunc(func(context.Context, locale.Record, route.Location) (map[string]any, error) {
			return nil, errors.New("network down")
		})
		p, state := f.policy(t, locale.Detection{Current: "en"}, navigation.WithRouteLoader(loader))

		loc, err := p.Navigate(context.Background(), "/about")
		require.NoError(t, err)
		assert.Equal(t, "/about", loc.Path)
		assert.Equal(t, "en", state.Current())
		assert.Equal(t, "About", p.Head().Title)
		assert.Contains(t, f.logs.String(), "ResourceLoadFailure")
	})

	t.Run("hanging fetch is bounded", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		loader := i18n.RouteLoaderFunc(func(ctx context.Context, _ locale.Record, _ route.Location) (map[string]any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
		p, _ := f.policy(t, locale.Detection{Current: "en"},
			navigation.WithRouteLoader(loader),
			navigation.WithBundleTimeout(10_000_000), // 10ms
		)

		_, err := p.Navigate(context.Background(), "/about")
		require.NoError(t, err)
		assert.Contains(t, f.logs.String(), "ResourceLoadFailure")
	})

	t.Run("bundle installed for a locale without global messages", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		messages, err := i18n.New(i18n.WithDefaultLanguage("en"))
		require.NoError(t, err)
		loader := i18n.RouteLoaderFunc(func(context.Context, locale.Record, route.Location) (map[string]any, error) {
			return map[string]any{"page-about": map[string]any{"title": "Acerca"}}, nil
		})
		p, _ := f.policy(t, locale.Detection{Current: "es"},
			navigation.WithMessages(messages),
			navigation.WithRouteLoader(loader),
		)

		_, err = p.Navigate(context.Background(), "/es/about")
		require.NoError(t, err)
		assert.True(t, messages.HasLanguage("es"))
		assert.Equal(t, "Acerca", p.Head().Title)
	})
}

func TestPolicy_AfterEach(t *testing.T) {
	t.Parallel()

	t.Run("persists the locale cookie", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		p, _ := f.policy(t, locale.Detection{Current: "en", IsFirstDetection: true})

		_, err := p.Navigate(context.Background(), "/es/about")
		require.NoError(t, err)

		c, ok := f.jar.Get(locale.DefaultCookieName)
		require.True(t, ok)
		assert.Equal(t, "es", c.Value)
		assert.Equal(t, "/docs/", c.Path)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	})

	t.Run("cookie failure is not fatal", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		f.jar.Disable()
		p, state := f.policy(t, locale.Detection{Current: "en", IsFirstDetection: true})

		loc, err := p.Navigate(context.Background(), "/es/about")
		require.NoError(t, err)
		assert.Equal(t, "/es/about", loc.Path)
		assert.Equal(t, "es", state.Current())
		assert.Contains(t, f.logs.String(), "CookiePersistFailure")
		assert.Equal(t, 1, f.sink.Count())
	})

	t.Run("head entries stay unique across navigations", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		p, _ := f.policy(t, locale.Detection{Current: "en", IsFirstDetection: true})
		ctx := context.Background()

		for _, to := range []string{"/about", "/es/about", "/contact", "/es/", "/about", "/xx/contact"} {
			_, err := p.Navigate(ctx, to)
			require.NoError(t, err)

			h, ok := f.sink.Last()
			require.True(t, ok)
			seen := map[string]bool{}
			for _, m := range h.Meta {
				assert.False(t, seen[m.Key()], "duplicate meta %s after %s", m.Key(), to)
				seen[m.Key()] = true
			}
			links := map[string]bool{}
			for _, l := range h.Links {
				k := l.Rel + "|" + l.Hreflang
				assert.False(t, links[k], "duplicate link %s after %s", k, to)
				links[k] = true
			}
			assert.Len(t, h.Links, 2)
		}
	})

	t.Run("head follows the route", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		p, _ := f.policy(t, locale.Detection{Current: "en", IsFirstDetection: true})
		ctx := context.Background()

		_, err := p.Navigate(ctx, "/about")
		require.NoError(t, err)
		h := p.Head()
		assert.Equal(t, "en", h.Lang)
		assert.Equal(t, []head.Link{
			{Rel: "alternate", Hreflang: route.XDefault, Href: "https://example.com/docs/about"},
			{Rel: "alternate", Hreflang: "es", Href: "https://example.com/docs/es/about"},
		}, h.Links)

		_, err = p.Navigate(ctx, "/es/")
		require.NoError(t, err)
		h = p.Head()
		assert.Equal(t, "es", h.Lang)
		_, ok := h.GetMeta("name:description")
		assert.False(t, ok, "description of the previous page must be dropped")
		og, ok := h.GetMeta("property:og:locale")
		require.True(t, ok)
		assert.Equal(t, "es", og.Content)
		nt, ok := h.GetMeta("property:google")
		require.True(t, ok)
		assert.Equal(t, "notranslate", nt.Content)
	})

	t.Run("head configurer runs on each head", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		p, _ := f.policy(t, locale.Detection{Current: "en", IsFirstDetection: true},
			navigation.WithHeadConfigurer(func(_ context.Context, h *head.Head, loc route.Location, rec locale.Record) error {
				h.SetMeta(head.Meta{Name: "route", Content: rec.Code + ":" + loc.Route.Meta.RawPath})
				return nil
			}),
		)

		_, err := p.Navigate(context.Background(), "/es/contact")
		require.NoError(t, err)
		h := p.Head()
		m, ok := h.GetMeta("name:route")
		require.True(t, ok)
		assert.Equal(t, "es:contact", m.Content)
		desc, ok := h.GetMeta("name:description")
		require.True(t, ok)
		assert.Equal(t, "Write to us", desc.Content)
	})

	t.Run("title of the previous page is dropped", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		p, _ := f.policy(t, locale.Detection{Current: "en", IsFirstDetection: true})
		ctx := context.Background()

		_, err := p.Navigate(ctx, "/about")
		require.NoError(t, err)
		assert.Equal(t, "About", p.Head().Title)

		_, err = p.Navigate(ctx, "/")
		require.NoError(t, err)
		h := p.Head()
		assert.Empty(t, h.Title)
		last, ok := f.sink.Last()
		require.True(t, ok)
		assert.Empty(t, last.Title)
	})

	t.Run("configurer entries of the previous page are dropped", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, false)
		p, _ := f.policy(t, locale.Detection{Current: "en", IsFirstDetection: true},
			navigation.WithHeadConfigurer(func(_ context.Context, h *head.Head, loc route.Location, _ locale.Record) error {
				if loc.Route.Meta.RawPath == "contact" {
					h.SetMeta(head.Meta{Property: "og:type", Content: "form"})
				}
				return nil
			}),
		)
		ctx := context.Background()

		_, err := p.Navigate(ctx, "/contact")
		require.NoError(t, err)
		_, ok := p.Head().GetMeta("property:og:type")
		require.True(t, ok)

		_, err = p.Navigate(ctx, "/about")
		require.NoError(t, err)
		h := p.Head()
		_, ok = h.GetMeta("property:og:type")
		assert.False(t, ok)
		assert.Equal(t, "About", h.Title)
		_, ok = h.GetMeta("property:og:locale")
		assert.True(t, ok)
	})
}

func TestPolicy_NoHomeRoute(t *testing.T) {
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
	p, err := navigation.New(tr, locale.NewState(lctx.Table, locale.Detection{Current: "es", IsFirstDetection: true}),
		navigation.WithLogger(slog.New(slog.DiscardHandler)),
	)
	require.NoError(t, err)
	ctx := context.Background()

	for _, to := range []string{"/missing", "/", "/es"} {
		d, err := p.BeforeEach(ctx, to)
		assert.ErrorIs(t, err, route.ErrNoRoute, to)
		assert.NotEqual(t, navigation.Redirect, d.Kind, to)
	}

	_, err = p.Navigate(ctx, "/missing")
	assert.ErrorIs(t, err, route.ErrNoRoute)

	loc, err := p.Navigate(ctx, "/es/about")
	require.NoError(t, err)
	assert.Equal(t, "/es/about", loc.Path)

	_, err = navigation.ResolveServer(ctx, tr, navigation.ServerRequest{RequestURL: "/missing"})
	assert.ErrorIs(t, err, route.ErrNoRoute)
}

func TestPolicy_Navigate_Cancelled(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	p, _ := f.policy(t, locale.Detection{Current: "en"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Navigate(ctx, "/about")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPolicy_ConcurrentNavigate(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	p, _ := f.policy(t, locale.Detection{Current: "en"})

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			to := "/about"
			if i%2 == 0 {
				to = "/es/about"
			}
			_, err := p.Navigate(context.Background(), to)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, f.sink.Count())
}

func TestNew_RequiresTransformer(t *testing.T) {
	t.Parallel()
	_, err := navigation.New(nil, nil)
	assert.ErrorIs(t, err, navigation.ErrNoTransformer)
}

func TestResolveServer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		onURL         bool
		req           navigation.ServerRequest
		wantPath      string
		wantLocale    string
		wantCanonical bool
	}{
		{name: "empty request", req: navigation.ServerRequest{}, wantPath: "/", wantLocale: "en", wantCanonical: true},
		{name: "prefixed path", req: navigation.ServerRequest{RequestURL: "/es/about"}, wantPath: "/es/about", wantLocale: "es", wantCanonical: true},
		{name: "url decides the rendered locale", req: navigation.ServerRequest{RequestURL: "/about", LocaleCookie: "es"}, wantPath: "/about", wantLocale: "en", wantCanonical: true},
		{name: "unknown locale segment", req: navigation.ServerRequest{RequestURL: "/xx/about", AcceptLanguage: "es"}, wantPath: "/es/about", wantLocale: "es"},
		{name: "required locale from header", onURL: true, req: navigation.ServerRequest{RequestURL: "/about", AcceptLanguage: "es;q=0.8, en;q=0.5"}, wantPath: "/es/about", wantLocale: "es"},
		{name: "required locale from cookie", onURL: true, req: navigation.ServerRequest{RequestURL: "/", LocaleCookie: "es"}, wantPath: "/es", wantLocale: "es"},
		{name: "unknown path", req: navigation.ServerRequest{RequestURL: "/nope/nope/nope"}, wantPath: "/", wantLocale: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, tt.onURL)
			page, err := navigation.ResolveServer(context.Background(), f.tr, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, page.Location.Path)
			assert.Equal(t, tt.wantLocale, page.State.Current())
			assert.Equal(t, tt.wantCanonical, page.Canonical)
		})
	}
}

func TestServerPage_InjectHead(t *testing.T) {
	t.Parallel()

	f := newFixture(t, false)
	loader := i18n.RouteLoaderFunc(func(context.Context, locale.Record, route.Location) (map[string]any, error) {
		return map[string]any{"page-about": map[string]any{"title": "Sobre nosotros"}}, nil
	})
	page, err := navigation.ResolveServer(context.Background(), f.tr,
		navigation.ServerRequest{RequestURL: "/es/about"},
		navigation.WithMessages(f.messages),
		navigation.WithRouteLoader(loader),
		navigation.WithCookies(f.jar),
		navigation.WithHeadSink(f.sink),
	)
	require.NoError(t, err)

	assert.Equal(t, "Sobre nosotros", page.Translate("page-about.title"))
	// the shared store is untouched
	assert.Equal(t, "Acerca de", f.messages.T("es", "page-about.title"))

	v, ok := f.jar.Cookie(locale.DefaultCookieName)
	require.True(t, ok)
	assert.Equal(t, "es", v)

	assert.Equal(t, 0, f.sink.Count())
	first := page.InjectHead(context.Background())
	second := page.InjectHead(context.Background())
	assert.Equal(t, 1, f.sink.Count())
	assert.Equal(t, first, second)
	assert.Equal(t, "Sobre nosotros", first.Title)
	assert.Equal(t, "es", first.Lang)
}
