package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const (
	// MaxCookieSize is the maximum size for a cookie (4KB).
	MaxCookieSize = 4096
	// minSecretLength is the minimum length of a signing secret.
	minSecretLength = 32
)

// Manager reads and writes HTTP cookies with shared defaults and an optional
// HMAC signature.
type Manager struct {
	secrets  []string
	defaults Options
	maxSize  int
}

// ManagerOption configures the Manager itself (not individual cookies).
type ManagerOption func(*Manager)

// WithMaxSize sets the maximum serialized cookie size.
func WithMaxSize(size int) ManagerOption {
	return func(m *Manager) {
		if size > 0 {
			m.maxSize = size
		}
	}
}

// New creates an unsigned cookie manager. Defaults: Path "/",
// SameSite=Strict, readable from scripts.
func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		SameSite: http.SameSiteStrictMode,
	}
	return &Manager{
		defaults: applyOptions(defaults, opts),
		maxSize:  MaxCookieSize,
	}
}

// NewSigned creates a manager able to sign values. The first secret signs;
// every secret verifies, which allows key rotation.
func NewSigned(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	for i := range secrets {
		if len(secrets[i]) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d",
				ErrSecretTooShort, i, len(secrets[i]), minSecretLength)
		}
	}

	m := New(opts...)
	m.secrets = secrets
	return m, nil
}

// Apply runs manager options. It returns m for chaining.
func (m *Manager) Apply(opts ...ManagerOption) *Manager {
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Defaults returns the cookie attributes applied to every cookie.
func (m *Manager) Defaults() Options {
	return m.defaults
}

// Cookie builds a cookie from the manager defaults and opts.
func (m *Manager) Cookie(name, value string, opts ...Option) *http.Cookie {
	o := applyOptions(m.defaults, opts)
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}
}

// Set writes a cookie to the response.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Write(w, m.Cookie(name, value, opts...))
}

// Write checks the size limit and adds c to the response headers.
func (m *Manager) Write(w http.ResponseWriter, c *http.Cookie) error {
	if err := m.check(c); err != nil {
		return err
	}
	http.SetCookie(w, c)
	return nil
}

func (m *Manager) check(c *http.Cookie) error {
	if c.Name == "" {
		return ErrInvalidName
	}
	if header := c.String(); len(header) > m.maxSize {
		return ErrCookieTooLarge{
			Name: c.Name,
			Size: len(header),
			Max:  m.maxSize,
		}
	}
	return nil
}

// Get retrieves a cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires a cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
		Secure:   m.defaults.Secure,
	})
}

// SetSigned writes an HMAC-signed cookie.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	if len(m.secrets) == 0 {
		return ErrNoSecret
	}
	return m.Set(w, name, m.sign(value), opts...)
}

// GetSigned retrieves and verifies a signed cookie value.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if len(m.secrets) == 0 {
		return "", ErrNoSecret
	}
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(signed)
}

// sign creates an HMAC signature for the value.
func (m *Manager) sign(value string) string {
	mac := hmac.New(sha256.New, []byte(m.secrets[0]))
	mac.Write([]byte(value))
	signature := base64.URLEncoding.EncodeToString(mac.Sum(nil))
	return base64.URLEncoding.EncodeToString([]byte(value)) + "|" + signature
}

// verify checks the HMAC signature of a signed value against every secret.
func (m *Manager) verify(signed string) (string, error) {
	encodedValue, signature, ok := strings.Cut(signed, "|")
	if !ok {
		return "", ErrInvalidFormat
	}

	value, err := base64.URLEncoding.DecodeString(encodedValue)
	if err != nil {
		return "", ErrInvalidFormat
	}

	valid := slices.ContainsFunc(m.secrets, func(secret string) bool {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(value)
		expectedSig := base64.URLEncoding.EncodeToString(mac.Sum(nil))
		return subtle.ConstantTimeCompare([]byte(signature), []byte(expectedSig)) == 1
	})
	if !valid {
		return "", ErrInvalidSignature
	}
	return string(value), nil
}
