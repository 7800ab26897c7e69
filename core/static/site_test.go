package static_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssgi18n/core/static"
)

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func TestSite(t *testing.T) {
	t.Parallel()

	root := writeSite(t, map[string]string{
		"index.html":        "home en",
		"about.html":        "about en",
		"es/index.html":     "home es",
		"es/about.html":     "about es",
		"assets/app.js":     "console.log(1)",
		"assets/style.css":  "body{}",
		"sitemap.xml":       "<urlset/>",
		"drafts/notes.txt":  "draft",
		"404.html":          "not here",
		"empty/placeholder": "",
	})
	h, err := static.Site(root)
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		urlPath    string
		wantStatus int
		wantBody   string
		wantType   string
	}{
		{name: "root", urlPath: "/", wantStatus: http.StatusOK, wantBody: "home en", wantType: "text/html; charset=utf-8"},
		{name: "page", urlPath: "/about", wantStatus: http.StatusOK, wantBody: "about en"},
		{name: "locale home without slash", urlPath: "/es", wantStatus: http.StatusOK, wantBody: "home es"},
		{name: "locale home with slash", urlPath: "/es/", wantStatus: http.StatusOK, wantBody: "home es"},
		{name: "locale page", urlPath: "/es/about", wantStatus: http.StatusOK, wantBody: "about es"},
		{name: "explicit html file", urlPath: "/es/about.html", wantStatus: http.StatusOK, wantBody: "about es"},
		{name: "asset", urlPath: "/assets/app.js", wantStatus: http.StatusOK, wantBody: "console.log(1)"},
		{name: "sitemap", urlPath: "/sitemap.xml", wantStatus: http.StatusOK, wantBody: "<urlset/>"},
		{name: "missing page uses 404.html", urlPath: "/fr/about", wantStatus: http.StatusNotFound, wantBody: "not here"},
		{name: "missing asset", urlPath: "/assets/missing.js", wantStatus: http.StatusNotFound, wantBody: "not here"},
		{name: "traversal", urlPath: "/../../etc/passwd.txt", wantStatus: http.StatusNotFound},
		{name: "directory without index", urlPath: "/drafts/", wantStatus: http.StatusNotFound},
		{name: "method not allowed", method: http.MethodPost, urlPath: "/about", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(method, tt.urlPath, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestSite_Options(t *testing.T) {
	t.Parallel()

	root := writeSite(t, map[string]string{
		"index.html":    "home",
		"es/about.html": "about es",
	})

	h, err := static.Site(root,
		static.WithStripPrefix("/docs/"),
		static.WithNotFound(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "custom", http.StatusTeapot)
		})),
	)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/es/about", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "about es", w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/", nil))
	assert.Equal(t, "home", w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/other/page", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/missing", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestSite_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := static.Site(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, static.ErrNoSite)
}

func TestIsAsset(t *testing.T) {
	t.Parallel()

	assert.True(t, static.IsAsset("/assets/app.js"))
	assert.True(t, static.IsAsset("/favicon.ico"))
	assert.False(t, static.IsAsset("/about"))
	assert.False(t, static.IsAsset("/es/"))
	assert.False(t, static.IsAsset("/about.html"))
}
