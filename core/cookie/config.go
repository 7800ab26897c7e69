package cookie

import (
	"net/http"
	"strings"
)

// Config provides environment-based configuration for the cookie manager.
type Config struct {
	Secrets  string        `env:"SSG_COOKIE_SECRETS" envDefault:""`
	Domain   string        `env:"SSG_COOKIE_DOMAIN" envDefault:""`
	MaxAge   int           `env:"SSG_COOKIE_MAX_AGE" envDefault:"31536000"` // 1 year
	Secure   bool          `env:"SSG_COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool          `env:"SSG_COOKIE_HTTP_ONLY" envDefault:"false"`
	SameSite http.SameSite `env:"SSG_COOKIE_SAME_SITE" envDefault:"3"` // SameSiteStrictMode
	MaxSize  int           `env:"SSG_COOKIE_MAX_SIZE" envDefault:"4096"`
}

// DefaultConfig returns the configuration used for the locale cookie.
func DefaultConfig() Config {
	return Config{
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteStrictMode,
		MaxSize:  MaxCookieSize,
	}
}

// parseSecrets splits comma-separated secrets for key rotation support.
func (c Config) parseSecrets() []string {
	if c.Secrets == "" {
		return nil
	}

	parts := strings.Split(c.Secrets, ",")
	secrets := make([]string, 0, len(parts))
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

// NewFromConfig creates a Manager from configuration. The cookie path is
// not configurable here: it follows the site base and is set per cookie.
// A manager with secrets can sign values.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	configOpts := make([]Option, 0, 5+len(opts))
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.MaxAge != 0 {
		configOpts = append(configOpts, WithMaxAge(cfg.MaxAge))
	}
	if cfg.Secure {
		configOpts = append(configOpts, WithSecure(true))
	}
	if cfg.HttpOnly {
		configOpts = append(configOpts, WithHTTPOnly(true))
	}
	if cfg.SameSite != 0 {
		configOpts = append(configOpts, WithSameSite(cfg.SameSite))
	}
	configOpts = append(configOpts, opts...)

	var (
		m   *Manager
		err error
	)
	if secrets := cfg.parseSecrets(); len(secrets) > 0 {
		m, err = NewSigned(secrets, configOpts...)
		if err != nil {
			return nil, err
		}
	} else {
		m = New(configOpts...)
	}

	return m.Apply(WithMaxSize(cfg.MaxSize)), nil
}
