// Package cookie writes and reads HTTP cookies with shared defaults, a size
// limit and optional HMAC signing. It persists the active locale code.
//
// # Basic Usage
//
//	m := cookie.New(cookie.WithPath("/docs/"))
//
//	err := m.Set(w, "VITE-SSG-LOCALE", "es")
//	code, err := m.Get(r, "VITE-SSG-LOCALE")
//	if errors.Is(err, cookie.ErrCookieNotFound) {
//		// no explicit choice yet
//	}
//
// Defaults are Path "/" and SameSite=Strict. Cookies are readable from
// scripts unless WithHTTPOnly(true) is given.
//
// # Signed Cookies
//
//	m, err := cookie.NewSigned([]string{"a-secret-of-at-least-32-characters"})
//	err = m.SetSigned(w, "pref", "es")
//	v, err := m.GetSigned(r, "pref") // ErrInvalidSignature when tampered
//
// Verification tries every secret, so secrets can be rotated by prepending
// the new one.
//
// # Writers
//
// Navigation code writes cookies through a small interface. Jar is the
// in-memory implementation used when no browser is present (static builds,
// tests); Manager.Writer adapts an http.ResponseWriter.
//
//	jar := cookie.NewJar("es", "en")
//	_ = jar.WriteCookie(&http.Cookie{Name: "VITE-SSG-LOCALE", Value: "es"})
//	v, ok := jar.Cookie("VITE-SSG-LOCALE")
//
// # Errors
//
// Writes larger than the configured limit fail with ErrCookieTooLarge:
//
//	var tooLarge cookie.ErrCookieTooLarge
//	if errors.As(err, &tooLarge) {
//		log.Printf("cookie %s is %d bytes", tooLarge.Name, tooLarge.Size)
//	}
package cookie
