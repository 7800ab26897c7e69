package route

import (
	"strings"

	"github.com/dmitrymomot/ssgi18n/core/locale"
)

// StaticPaths enumerates the paths to pre-render. Dynamic routes are skipped.
// When the tree requires the locale segment every locale is prefixed;
// otherwise default locale paths stay unprefixed and the others are
// prefixed. The result is deduplicated and keeps first-seen order.
func StaticPaths(tree *Tree, lctx locale.Context) []string {
	var raws []string
	tree.Walk(func(r *Route) {
		if IsDynamic(r.Meta.RawPath) {
			return
		}
		raws = append(raws, r.Meta.RawPath)
	})

	var paths []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	codes := lctx.Table.Codes()
	if lctx.DefaultLocaleOnURL || tree.Required {
		for _, code := range codes {
			for _, raw := range raws {
				add("/" + code + "/" + raw)
			}
		}
		return paths
	}

	for _, raw := range raws {
		add("/" + raw)
	}
	for _, code := range codes {
		if code == lctx.DefaultLocale {
			continue
		}
		for _, raw := range raws {
			add("/" + code + "/" + raw)
		}
	}
	return paths
}

// OutputFile maps a rendered path to its file: "/" -> "index.html",
// "/es/" -> "es/index.html", "/about" -> "about.html".
func OutputFile(p string) string {
	if strings.HasSuffix(p, "/") {
		p += "index"
	}
	return strings.TrimLeft(p, "/") + ".html"
}
