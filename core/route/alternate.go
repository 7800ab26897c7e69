package route

import (
	"log/slog"
	"strings"

	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/logger"
)

// XDefault is the hreflang value of the default locale link.
const XDefault = "x-default"

// Link is a <link> head entry.
type Link struct {
	Rel      string `json:"rel"`
	Hreflang string `json:"hreflang,omitempty"`
	Href     string `json:"href"`
}

// AlternateLinks emits one rel="alternate" link per locale in table order.
// The default locale gets hreflang "x-default" and no locale segment.
// Base is normalized to end with "/"; an empty base logs a warning and
// falls back to "/".
func AlternateLinks(r *Route, defaultLocale string, records []locale.Record, base string, log *slog.Logger) []Link {
	raw := ""
	if r != nil {
		raw = r.Meta.RawPath
	}
	return alternateLinks(raw, defaultLocale, records, base, log)
}

func alternateLinks(raw, defaultLocale string, records []locale.Record, base string, log *slog.Logger) []Link {
	if log == nil {
		log = slog.Default()
	}
	if base == "" {
		log.Warn("alternate links need an absolute base, using a relative one",
			logger.Component("route"),
			logger.Route(raw),
			logger.Result("MissingBaseWarning"),
		)
		base = "/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	raw = strings.TrimPrefix(raw, "/")

	links := make([]Link, 0, len(records))
	for _, rec := range records {
		if rec.Code == defaultLocale {
			links = append(links, Link{Rel: "alternate", Hreflang: XDefault, Href: base + raw})
			continue
		}
		links = append(links, Link{Rel: "alternate", Hreflang: rec.Code, Href: base + rec.Code + "/" + raw})
	}
	return links
}
