// Package head holds the per-navigation head state (title, html lang, meta
// and link entries) and derives it from a route and a locale.
//
// Meta entries are keyed by "property:<p>" or "name:<n>" and links by rel
// plus hreflang. SetMeta, SetLink and Merge replace an existing entry in
// place, so a head never carries two entries for the same key no matter how
// many navigations are applied to it.
//
//	h := head.Compute(r, rec, translate, alternates)
//	current.Merge(h)
//	html, err := head.Render(ctx, head.Tags(current))
package head
