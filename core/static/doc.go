// Package static serves a generated site over HTTP.
//
// Site maps page requests to the files the build writes, so that every
// URL the locale router produces resolves without rewrites:
//
//	/            -> index.html
//	/about       -> about.html
//	/es, /es/    -> es/index.html (or es.html)
//	/es/about    -> es/about.html
//
// Paths with a file extension are assets and go through http.FileServer
// with directory listing disabled. Missing pages get 404.html when the
// site has one.
//
//	h, err := static.Site("./dist")
//	if err != nil {
//		return err
//	}
//	http.ListenAndServe(":4173", middleware.Locale(tr)(h))
//
// Every file lookup is checked against the site root, so traversal
// attempts are answered with 404.
package static
