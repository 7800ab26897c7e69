package cookie_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssgi18n/core/cookie"
)

const testSecret = "test-secret-key-32-characters!!!"
const testSecret2 = "another-secret-key-32-chars!!!!!"

func requestWith(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestManager_BasicOperations(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()
		m := cookie.New(cookie.WithPath("/docs/"))

		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "VITE-SSG-LOCALE", "es"))

		header := w.Header().Get("Set-Cookie")
		assert.Contains(t, header, "VITE-SSG-LOCALE=es")
		assert.Contains(t, header, "Path=/docs/")
		assert.Contains(t, header, "SameSite=Strict")
		assert.NotContains(t, header, "HttpOnly")

		value, err := m.Get(requestWith(t, w), "VITE-SSG-LOCALE")
		require.NoError(t, err)
		assert.Equal(t, "es", value)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.New().Get(httptest.NewRequest(http.MethodGet, "/", nil), "nope")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		cookie.New().Delete(w, "VITE-SSG-LOCALE")
		assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
	})

	t.Run("size limit", func(t *testing.T) {
		t.Parallel()
		m := cookie.New().Apply(cookie.WithMaxSize(64))
		err := m.Set(httptest.NewRecorder(), "big", strings.Repeat("x", 100))

		var tooLarge cookie.ErrCookieTooLarge
		require.True(t, errors.As(err, &tooLarge))
		assert.Equal(t, "big", tooLarge.Name)
		assert.Equal(t, 64, tooLarge.Max)
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		err := cookie.New().Set(httptest.NewRecorder(), "", "x")
		assert.ErrorIs(t, err, cookie.ErrInvalidName)
	})
}

func TestManager_Signed(t *testing.T) {
	t.Parallel()

	t.Run("round trip and rotation", func(t *testing.T) {
		t.Parallel()
		old, err := cookie.NewSigned([]string{testSecret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, old.SetSigned(w, "pref", "es"))

		rotated, err := cookie.NewSigned([]string{testSecret2, testSecret})
		require.NoError(t, err)
		value, err := rotated.GetSigned(requestWith(t, w), "pref")
		require.NoError(t, err)
		assert.Equal(t, "es", value)
	})

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()
		m, err := cookie.NewSigned([]string{testSecret})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "pref", Value: "ZXM=|bad"})
		_, err = m.GetSigned(req, "pref")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "pref", Value: "no-separator"})
		_, err = m.GetSigned(req, "pref")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})

	t.Run("secret validation", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.NewSigned(nil)
		assert.ErrorIs(t, err, cookie.ErrNoSecret)

		_, err = cookie.NewSigned([]string{"", ""})
		assert.ErrorIs(t, err, cookie.ErrNoSecret)

		_, err = cookie.NewSigned([]string{"short"})
		assert.ErrorIs(t, err, cookie.ErrSecretTooShort)

		err = cookie.New().SetSigned(httptest.NewRecorder(), "pref", "es")
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := cookie.DefaultConfig()
	cfg.Secure = true
	m, err := cookie.NewFromConfig(cfg, cookie.WithPath("/site/"))
	require.NoError(t, err)

	d := m.Defaults()
	assert.Equal(t, "/site/", d.Path)
	assert.True(t, d.Secure)
	assert.Equal(t, http.SameSiteStrictMode, d.SameSite)
	assert.Equal(t, 365*24*60*60, d.MaxAge)

	cfg.Secrets = testSecret + ", " + testSecret2
	signed, err := cookie.NewFromConfig(cfg)
	require.NoError(t, err)
	assert.NoError(t, signed.SetSigned(httptest.NewRecorder(), "pref", "en"))

	cfg.Secrets = "short"
	_, err = cookie.NewFromConfig(cfg)
	assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
}

func TestJar(t *testing.T) {
	t.Parallel()

	jar := cookie.NewJar("es", "en")
	assert.Equal(t, []string{"es", "en"}, jar.Languages())

	_, ok := jar.Cookie("VITE-SSG-LOCALE")
	assert.False(t, ok)

	require.NoError(t, jar.WriteCookie(&http.Cookie{Name: "VITE-SSG-LOCALE", Value: "es", Path: "/", SameSite: http.SameSiteStrictMode}))
	v, ok := jar.Cookie("VITE-SSG-LOCALE")
	require.True(t, ok)
	assert.Equal(t, "es", v)

	c, ok := jar.Get("VITE-SSG-LOCALE")
	require.True(t, ok)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	require.NoError(t, jar.WriteCookie(&http.Cookie{Name: "VITE-SSG-LOCALE", MaxAge: -1}))
	_, ok = jar.Cookie("VITE-SSG-LOCALE")
	assert.False(t, ok)

	assert.ErrorIs(t, jar.WriteCookie(nil), cookie.ErrInvalidName)

	jar.Disable()
	assert.ErrorIs(t, jar.WriteCookie(&http.Cookie{Name: "x", Value: "y"}), cookie.ErrCookiesDisabled)
}

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	m := cookie.New()
	require.NoError(t, m.Writer(w).WriteCookie(m.Cookie("VITE-SSG-LOCALE", "es", cookie.WithPath("/blog/"))))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "es", cookies[0].Value)
	assert.Equal(t, "/blog/", cookies[0].Path)

	t.Run("manager defaults fill the locale cookie", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		m := cookie.New(cookie.WithDomain("example.com"), cookie.WithMaxAge(3600), cookie.WithSecure(true))
		require.NoError(t, m.Writer(w).WriteCookie(&http.Cookie{
			Name:     "VITE-SSG-LOCALE",
			Value:    "es",
			Path:     "/docs/",
			SameSite: http.SameSiteStrictMode,
		}))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "/docs/", cookies[0].Path)
		assert.Equal(t, "example.com", cookies[0].Domain)
		assert.Equal(t, 3600, cookies[0].MaxAge)
		assert.True(t, cookies[0].Secure)
		assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	})
}

func TestWithBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		want string
	}{
		{base: "", want: "/"},
		{base: "https://example.com", want: "/"},
		{base: "https://example.com/docs/", want: "/docs/"},
		{base: "/site/", want: "/site/"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			t.Parallel()
			c := cookie.New(cookie.WithBase(tt.base)).Cookie("VITE-SSG-LOCALE", "en")
			assert.Equal(t, tt.want, c.Path)
		})
	}
}
