package head

import (
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/route"
)

// Translator looks up a message key for the active locale. Implementations
// return the key itself when no message exists.
type Translator func(key string) string

// Compute derives the head of a route for a locale. It has no side effects:
// the same inputs always give the same Head.
//
// Title and description come from the route meta overrides, else from the
// route i18n keys. A lookup returning its own key counts as missing.
func Compute(r *route.Route, rec locale.Record, translate Translator, alternates []route.Link) Head {
	var h Head
	h.Lang = rec.Code

	if r != nil {
		m := r.Meta
		if title := pick(m.Title, m.TitleKey, translate); title != "" {
			h.Title = title
		}
		if desc := pick(m.Description, m.DescriptionKey, translate); desc != "" {
			h.SetMeta(Meta{Name: "description", Content: desc})
		}
		if image := pick(m.Image, m.ImageKey, translate); image != "" {
			h.SetMeta(Meta{Property: "og:image", Content: image})
		}
	}

	h.SetMeta(Meta{Property: "og:locale", Content: rec.Code})
	h.SetMeta(Meta{Property: "google", Content: "notranslate"})

	for _, l := range alternates {
		h.SetLink(l)
	}
	return h
}

func pick(override, key string, translate Translator) string {
	if override != "" {
		return override
	}
	if key == "" || translate == nil {
		return ""
	}
	if v := translate(key); v != key {
		return v
	}
	return ""
}
