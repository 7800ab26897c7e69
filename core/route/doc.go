// Package route rewrites a flat route table into a locale-prefixed tree and
// computes locale-specific paths and alternate links.
//
// The user routes become children of one synthetic node whose pattern is
// "/:locale?" (optional segment) or "/:locale" (required). The segment is
// required when the default locale must be shown in URLs, or when a
// top-level route is itself dynamic, in which case a warning is logged.
//
//	tree := route.BuildLocaleTree(routes, lctx, route.WithLogger(log))
//	tr := route.NewTransformer(tree, lctx)
//
//	m, ok := tree.Match("/es/about")
//	// m.LocaleParam == "es", m.Route.Meta.RawPath == "about"
//
//	loc, err := tr.ResolvePath("en", m.Location)
//	// loc.Path == "/about" for the default locale
//
// Static generation uses StaticPaths to enumerate pages per locale and
// OutputFile to name the written files.
package route
