// Package ssg generates a static site with one HTML file per route and
// locale.
//
// A Builder enumerates the static paths of the route tree (dynamic routes
// are skipped), resolves each path the way a server request would, renders
// the app markup, mounts it into the index template, injects the computed
// head and writes the page to storage:
//
//	b, err := ssg.New(cfg, ssg.Site{
//		Routes:    routes,
//		Locale:    localeCfg,
//		IndexHTML: indexHTML,
//		Messages:  messages,
//		Renderer:  renderer,
//	})
//	if err != nil {
//		return err
//	}
//	res, err := b.Build(ctx)
//
// Output files follow the request path: "/" is index.html, "/es/" is
// es/index.html and "/es/about" is es/about.html. When a base URL is
// configured a sitemap.xml with hreflang alternates is written too.
//
// Pages render concurrently, bounded by Config.Workers. The first render
// error cancels the build and is returned.
package ssg
