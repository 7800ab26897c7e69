package ssg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/dmitrymomot/ssgi18n/core/route"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNS   = "http://www.w3.org/1999/xhtml"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc   string        `xml:"loc"`
	Links []sitemapLink `xml:"xhtml:link"`
}

type sitemapLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// Sitemap renders sitemap.xml for the generated paths, each with its
// hreflang alternates. base must be an absolute URL.
func Sitemap(base string, paths []string, tr *route.Transformer, log *slog.Logger) ([]byte, error) {
	u, err := url.Parse(base)
	if base == "" || err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q", ErrNoBase, base)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	set := urlSet{NS: sitemapNS, XHTML: xhtmlNS}
	for _, p := range paths {
		entry := sitemapURL{Loc: base + strings.TrimPrefix(p, "/")}
		if m, ok := tr.Tree().Match(p); ok {
			for _, l := range tr.Alternates(m.Location, log) {
				entry.Links = append(entry.Links, sitemapLink{Rel: l.Rel, Hreflang: l.Hreflang, Href: l.Href})
			}
		}
		set.URLs = append(set.URLs, entry)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("ssg: encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
