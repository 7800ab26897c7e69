// Package locale resolves the active locale of a multi-locale static site.
//
// It owns three concerns:
//
//   - the locale registry: a configuration map of locale codes and human labels is
//     turned into an ordered, immutable Table of Records (language, region and
//     variant subtags split on "-");
//   - Accept-Language parsing: a header is scanned into quality-ordered candidate
//     codes, keeping the most specific parsed form of every entry;
//   - detection: exactly one active locale is picked from a cookie, the first
//     segment of a request path, the Accept-Language header (server) or the
//     browser's preferred languages (client), falling back to the default.
//
// # Basic Usage
//
//	cfg := locale.Config{
//		DefaultLocale: "en",
//		Locales: locale.Entries{
//			{Code: "en", Description: "English"},
//			{Code: "es", Description: "Español"},
//		},
//	}
//
//	lctx, err := locale.NewContext(cfg)
//	if err != nil {
//		log.Fatal(err) // *locale.ConfigurationError
//	}
//
//	det := locale.DetectServer(lctx.DefaultLocale, lctx.Table,
//		r.Header.Get("Accept-Language"), r.URL.Path, cookieValue)
//	state := locale.NewState(lctx.Table, det)
//
// # Precedence
//
// Server detection checks, first match wins: the locale cookie, the first path
// segment, the first Accept-Language entry that is a configured code, the default
// locale. Client detection checks the cookie, then the navigator languages, then
// the default. Only a cookie hit reports IsFirstDetection == false.
//
// Region-qualified header entries such as "en-US" are never reduced to "en"
// automatically: configure "en-US" explicitly if it should match.
package locale
