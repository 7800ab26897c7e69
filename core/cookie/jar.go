package cookie

import (
	"net/http"
	"sync"
)

// Jar is an in-memory cookie store standing in for a browser: it accepts
// cookie writes and answers cookie reads and preferred languages, which is
// what client-side locale detection and navigation need.
type Jar struct {
	mu        sync.RWMutex
	cookies   map[string]*http.Cookie
	languages []string
	disabled  bool
}

// NewJar returns an empty jar reporting the given preferred languages.
func NewJar(languages ...string) *Jar {
	return &Jar{
		cookies:   make(map[string]*http.Cookie),
		languages: languages,
	}
}

// Disable makes every later write fail with ErrCookiesDisabled.
func (j *Jar) Disable() {
	j.mu.Lock()
	j.disabled = true
	j.mu.Unlock()
}

// WriteCookie stores c. A negative MaxAge removes it.
func (j *Jar) WriteCookie(c *http.Cookie) error {
	if c == nil || c.Name == "" {
		return ErrInvalidName
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.disabled {
		return ErrCookiesDisabled
	}
	if c.MaxAge < 0 {
		delete(j.cookies, c.Name)
		return nil
	}
	cp := *c
	j.cookies[c.Name] = &cp
	return nil
}

// Cookie returns the value of the named cookie.
func (j *Jar) Cookie(name string) (string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	c, ok := j.cookies[name]
	if !ok || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Get returns a copy of the stored cookie with its attributes.
func (j *Jar) Get(name string) (*http.Cookie, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	c, ok := j.cookies[name]
	if !ok {
		return nil, false
	}
	cp := *c
	return &cp, true
}

// Languages returns the preferred languages the jar was created with.
func (j *Jar) Languages() []string {
	return j.languages
}

// ResponseWriter writes cookies into an HTTP response through a Manager.
type ResponseWriter struct {
	w http.ResponseWriter
	m *Manager
}

// Writer binds the manager to a response.
func (m *Manager) Writer(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{w: w, m: m}
}

// WriteCookie adds c to the response after the size check. Attributes c
// leaves empty are taken from the manager defaults.
func (rw *ResponseWriter) WriteCookie(c *http.Cookie) error {
	if c == nil {
		return ErrInvalidName
	}
	out := *c
	rw.m.defaults.fill(&out)
	return rw.m.Write(rw.w, &out)
}
