package cookie

import (
	"net/http"
	"net/url"
)

// Options are the attributes a Manager puts on the cookies it writes. For
// the locale cookie the navigation layer sets Name, Value, Path and
// SameSite; the rest comes from here.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Option adjusts Options.
type Option func(*Options)

// WithPath scopes the cookie to path.
func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

// WithBase scopes the cookie to the path of a site base URL, so a site
// published under https://example.com/docs/ keeps its locale choice apart
// from its neighbours. An empty or pathless base means "/".
func WithBase(base string) Option {
	return func(o *Options) {
		o.Path = "/"
		if u, err := url.Parse(base); err == nil && u.Path != "" {
			o.Path = u.Path
		}
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(o *Options) {
		o.Domain = domain
	}
}

// WithMaxAge sets the lifetime in seconds. Negative values delete the cookie.
func WithMaxAge(seconds int) Option {
	return func(o *Options) {
		o.MaxAge = seconds
	}
}

// WithSecure restricts the cookie to HTTPS.
func WithSecure(secure bool) Option {
	return func(o *Options) {
		o.Secure = secure
	}
}

// WithHTTPOnly hides the cookie from scripts. The client-side locale
// detector reads the locale cookie, so leave it off for that cookie.
func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) {
		o.HttpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) {
		o.SameSite = sameSite
	}
}

func applyOptions(base Options, opts []Option) Options {
	result := base
	for _, opt := range opts {
		opt(&result)
	}
	return result
}

// fill sets the attributes c leaves empty from o.
func (o Options) fill(c *http.Cookie) {
	if c.Path == "" {
		c.Path = o.Path
	}
	if c.Domain == "" {
		c.Domain = o.Domain
	}
	if c.MaxAge == 0 {
		c.MaxAge = o.MaxAge
	}
	if c.SameSite == http.SameSiteDefaultMode {
		c.SameSite = o.SameSite
	}
	c.Secure = c.Secure || o.Secure
	c.HttpOnly = c.HttpOnly || o.HttpOnly
}
