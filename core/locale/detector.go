package locale

import (
	"fmt"
	"strings"
	"sync"
)

// Detection is the outcome of locale detection.
type Detection struct {
	Current string
	// IsFirstDetection is true unless the locale came from the explicit locale cookie.
	IsFirstDetection bool
}

// DetectServer picks the active locale for a server request.
// Precedence, first match wins: cookie, first request path segment,
// Accept-Language, default locale.
func DetectServer(defaultLocale string, table *Table, acceptLanguage, requestPath, cookieValue string) Detection {
	if cookieValue != "" && table.Has(cookieValue) {
		return Detection{Current: cookieValue}
	}

	if seg := FirstSegment(requestPath); seg != "" && table.Has(seg) {
		return Detection{Current: seg, IsFirstDetection: true}
	}

	if acceptLanguage != "" {
		for _, code := range ParseAcceptLanguage(acceptLanguage) {
			if table.Has(code) {
				return Detection{Current: code, IsFirstDetection: true}
			}
		}
	}

	return Detection{Current: defaultLocale, IsFirstDetection: true}
}

// ClientEnv exposes the ambient signals available in a browser-like client.
type ClientEnv interface {
	// Cookie returns the value of the named cookie.
	Cookie(name string) (string, bool)
	// Languages returns the preferred languages, most preferred first.
	Languages() []string
}

// DetectClient picks the active locale for a client app instance from the
// locale cookie, then the preferred languages, then the default.
func DetectClient(cookieName, defaultLocale string, table *Table, env ClientEnv) Detection {
	if env == nil {
		return Detection{Current: defaultLocale, IsFirstDetection: true}
	}
	if v, ok := env.Cookie(cookieName); ok && table.Has(v) {
		return Detection{Current: v}
	}
	for _, lang := range env.Languages() {
		if table.Has(lang) {
			return Detection{Current: lang, IsFirstDetection: true}
		}
	}
	return Detection{Current: defaultLocale, IsFirstDetection: true}
}

// StaticClient is an in-memory ClientEnv.
type StaticClient struct {
	Cookies   map[string]string
	Preferred []string
}

// Cookie implements ClientEnv.
func (c StaticClient) Cookie(name string) (string, bool) {
	v, ok := c.Cookies[name]
	return v, ok && v != ""
}

// Languages implements ClientEnv.
func (c StaticClient) Languages() []string {
	return c.Preferred
}

// FirstSegment returns the first segment of a request path ("/es/about" -> "es").
// The root path, an empty path and query strings yield "" for the root.
func FirstSegment(requestPath string) string {
	if i := strings.IndexAny(requestPath, "?#"); i >= 0 {
		requestPath = requestPath[:i]
	}
	p := strings.TrimPrefix(requestPath, "/")
	if p == "" {
		return ""
	}
	seg, _, _ := strings.Cut(p, "/")
	return seg
}

// State is the active locale of one app instance (client) or one request (server).
// Only Current changes after creation, through Commit.
type State struct {
	mu               sync.RWMutex
	current          string
	isFirstDetection bool
	table            *Table
}

// NewState seeds the active locale state from a detection result.
func NewState(table *Table, d Detection) *State {
	return &State{
		current:          d.Current,
		isFirstDetection: d.IsFirstDetection,
		table:            table,
	}
}

// Current returns the active locale code.
func (s *State) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Record returns the record of the active locale.
func (s *State) Record() Record {
	r, _ := s.table.Get(s.Current())
	return r
}

// IsFirstDetection reports whether the initial locale came from heuristics.
func (s *State) IsFirstDetection() bool {
	return s.isFirstDetection
}

// Table returns the shared locale table.
func (s *State) Table() *Table {
	return s.table
}

// Commit replaces the active locale. It is called by the navigation pipeline only.
func (s *State) Commit(code string) error {
	if !s.table.Has(code) {
		return fmt.Errorf("%w: %q", ErrUnknownLocale, code)
	}
	s.mu.Lock()
	s.current = code
	s.mu.Unlock()
	return nil
}
