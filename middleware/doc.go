// Package middleware provides net/http middleware for serving a locale-aware
// site: per-request locale resolution, request IDs and request logging.
//
// Every middleware has the shape func(http.Handler) http.Handler, a default
// constructor and a WithConfig constructor, and can be skipped per request.
//
// # Locale
//
// Locale resolves each request once from its Accept-Language header, URL and
// locale cookie. Requests whose path had to be rewritten (unknown locale
// segment, missing required segment, unknown route) are redirected to the
// resolved path. Otherwise the resolved page is stored in the request
// context, Content-Language is set and the locale cookie is written.
//
//	mw := middleware.LocaleWithConfig(middleware.LocaleConfig{
//		Transformer: tr,
//		Messages:    messages,
//		Skip: func(r *http.Request) bool {
//			return strings.HasPrefix(r.URL.Path, "/assets/")
//		},
//	})
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		page, _ := middleware.GetPage(r.Context())
//		title := page.Translate("page-about.title")
//		// ...
//	}
//
// # Request ID
//
// RequestID assigns every request an ID (UUID v4 by default), stores it in
// context and echoes it in the X-Request-ID response header.
// RequestIDExtractor adds it to log records:
//
//	log := logger.New(logger.WithContextExtractors(middleware.RequestIDExtractor))
//
// # Logging
//
// Logging writes one record per request with method, path, status, size,
// duration, request ID and the resolved locale. Place it inside RequestID and
// outside Locale:
//
//	h := middleware.RequestID()(middleware.LoggingWithLogger(log)(middleware.Locale(tr)(files)))
package middleware
