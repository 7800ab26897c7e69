package static

import (
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/ssgi18n/core/route"
)

// NotFoundFile is served with status 404 when a page does not exist.
const NotFoundFile = "404.html"

// siteConfig holds configuration for site serving
type siteConfig struct {
	stripPrefix string
	notFound    http.Handler
}

// Option configures site serving behavior
type Option func(*siteConfig)

// WithStripPrefix removes the given prefix from the URL path before serving
// files. Use it when the site is built for a base path such as "/docs/".
func WithStripPrefix(prefix string) Option {
	return func(c *siteConfig) {
		c.stripPrefix = strings.TrimSuffix(prefix, "/")
	}
}

// WithNotFound sets the handler for missing pages and assets.
func WithNotFound(h http.Handler) Option {
	return func(c *siteConfig) {
		c.notFound = h
	}
}

// Site serves a generated site from root. Page requests map to the files the
// build writes: "/about" to about.html, "/es" and "/es/" to es.html or
// es/index.html. Requests with a file extension are served as assets.
// Directory listing is disabled.
func Site(root string, opts ...Option) (http.Handler, error) {
	cfg := &siteConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	root = filepath.Clean(root)
	if err := checkSiteRoot(root); err != nil {
		return nil, err
	}

	s := &site{
		root:   root,
		cfg:    cfg,
		assets: http.FileServer(assetFS{fs: http.Dir(root)}),
	}
	return s, nil
}

type site struct {
	root   string
	cfg    *siteConfig
	assets http.Handler
}

func (s *site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	p := r.URL.Path
	if s.cfg.stripPrefix != "" {
		if !strings.HasPrefix(p, s.cfg.stripPrefix) {
			s.notFound(w, r)
			return
		}
		p = strings.TrimPrefix(p, s.cfg.stripPrefix)
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	if IsAsset(p) {
		if _, err := s.open(p); err != nil {
			s.notFound(w, r)
			return
		}
		r2 := r.Clone(r.Context())
		r2.URL.Path = p
		s.assets.ServeHTTP(w, r2)
		return
	}

	for _, candidate := range pageCandidates(p) {
		if s.servePage(w, r, candidate, http.StatusOK) {
			return
		}
	}
	s.notFound(w, r)
}

// pageCandidates lists the output files a page path may have been written to.
func pageCandidates(p string) []string {
	clean := path.Clean(p)
	if path.Ext(clean) == ".html" {
		return []string{strings.TrimPrefix(clean, "/")}
	}
	if clean == "/" {
		return []string{route.OutputFile("/")}
	}
	if strings.HasSuffix(p, "/") {
		return []string{route.OutputFile(clean + "/"), route.OutputFile(clean)}
	}
	return []string{route.OutputFile(clean), route.OutputFile(clean + "/")}
}

func (s *site) open(name string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(path.Clean("/"+name), "/")))
	if !insideRoot(s.root, full) {
		return "", os.ErrNotExist
	}
	info, err := os.Stat(full)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", os.ErrNotExist
	}
	return full, nil
}

func (s *site) servePage(w http.ResponseWriter, r *http.Request, name string, status int) bool {
	full, err := s.open(name)
	if err != nil {
		return false
	}
	f, err := os.Open(full)
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return false
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
		if r.Method != http.MethodHead {
			_, _ = io.Copy(w, f)
		}
		return true
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
	return true
}

func (s *site) notFound(w http.ResponseWriter, r *http.Request) {
	if s.cfg.notFound != nil {
		s.cfg.notFound.ServeHTTP(w, r)
		return
	}
	if s.servePage(w, r, NotFoundFile, http.StatusNotFound) {
		return
	}
	http.NotFound(w, r)
}

// IsAsset reports whether a request path names a file other than a page.
func IsAsset(p string) bool {
	ext := path.Ext(path.Clean("/" + p))
	return ext != "" && ext != ".html"
}
