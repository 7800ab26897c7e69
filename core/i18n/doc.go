// Package i18n is the message store used for page titles, descriptions and
// page content: an opaque key -> message lookup per language, with a
// default-language fallback. Plural rules and interpolation are left to the
// rendering layer.
//
// # Basic Usage
//
//	bundles, err := i18n.LoadYAMLDir(os.DirFS("."), "locales")
//	if err != nil {
//		return err
//	}
//	store, err := i18n.New(
//		i18n.WithDefaultLanguage("en"),
//		i18n.WithBundles(bundles),
//	)
//
//	store.T("es", "page-about.title") // "Sobre nosotros"
//	store.T("es", "missing.key")      // "missing.key"
//
// # Nested Translations
//
// Nested maps are flattened with dots, so
//
//	page-about:
//	  title: About us
//
// is looked up as "page-about.title".
//
// # Route Bundles
//
// Pages may ship their own messages, fetched lazily through a RouteLoader
// when the page is visited. Merge lays such a bundle over the global
// messages of a language; Install sets it as the only bundle of a language
// that has none. Use Clone to give one request its own copy so its route
// bundles do not leak into other requests.
//
//	loader := i18n.FSRouteLoader{FS: os.DirFS("."), Dir: "locales/pages"}
//	msgs, err := loader.Load(ctx, rec, loc) // locales/pages/about.es.yaml
//
// # Translator
//
// Translator binds the store to one language:
//
//	tr := i18n.NewTranslator(store, "es")
//	tr.T("page-about.title")
package i18n
