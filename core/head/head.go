package head

import (
	"slices"

	"github.com/dmitrymomot/ssgi18n/core/route"
)

// Meta is one <meta> entry, discriminated by Property when set, else by Name.
type Meta struct {
	Name     string `json:"name,omitempty"`
	Property string `json:"property,omitempty"`
	Content  string `json:"content"`
}

// Key returns the discriminating key: "property:<p>" or "name:<n>".
func (m Meta) Key() string {
	if m.Property != "" {
		return "property:" + m.Property
	}
	return "name:" + m.Name
}

// Link is one <link> entry.
type Link = route.Link

func linkKey(l Link) string {
	return l.Rel + "|" + l.Hreflang
}

// Head is the per-navigation head state. Meta and Links never hold two
// entries with the same key.
type Head struct {
	Title string `json:"title,omitempty"`
	Lang  string `json:"lang,omitempty"`
	Meta  []Meta `json:"meta,omitempty"`
	Links []Link `json:"links,omitempty"`
}

// SetMeta replaces the entry with the same key in place, or appends.
func (h *Head) SetMeta(m Meta) {
	key := m.Key()
	i := slices.IndexFunc(h.Meta, func(e Meta) bool { return e.Key() == key })
	if i < 0 {
		h.Meta = append(h.Meta, m)
		return
	}
	h.Meta[i] = m
	// Drop stale duplicates left by direct slice edits.
	h.Meta = slices.Concat(h.Meta[:i+1], slices.DeleteFunc(slices.Clone(h.Meta[i+1:]), func(e Meta) bool {
		return e.Key() == key
	}))
}

// SetLink replaces the link with the same rel and hreflang in place, or appends.
func (h *Head) SetLink(l Link) {
	key := linkKey(l)
	i := slices.IndexFunc(h.Links, func(e Link) bool { return linkKey(e) == key })
	if i < 0 {
		h.Links = append(h.Links, l)
		return
	}
	h.Links[i] = l
	h.Links = slices.Concat(h.Links[:i+1], slices.DeleteFunc(slices.Clone(h.Links[i+1:]), func(e Link) bool {
		return linkKey(e) == key
	}))
}

// GetMeta returns the entry stored under key ("name:description", "property:og:locale").
func (h Head) GetMeta(key string) (Meta, bool) {
	i := slices.IndexFunc(h.Meta, func(e Meta) bool { return e.Key() == key })
	if i < 0 {
		return Meta{}, false
	}
	return h.Meta[i], true
}

// RemoveMeta deletes every entry stored under key.
func (h *Head) RemoveMeta(key string) {
	h.Meta = slices.DeleteFunc(h.Meta, func(e Meta) bool { return e.Key() == key })
}

// RemoveLinks deletes every link with the given rel.
func (h *Head) RemoveLinks(rel string) {
	h.Links = slices.DeleteFunc(h.Links, func(e Link) bool { return e.Rel == rel })
}

// Merge applies other on top of h: non-empty title and lang win, meta and
// links are upserted.
func (h *Head) Merge(other Head) {
	if other.Title != "" {
		h.Title = other.Title
	}
	if other.Lang != "" {
		h.Lang = other.Lang
	}
	for _, m := range other.Meta {
		h.SetMeta(m)
	}
	for _, l := range other.Links {
		h.SetLink(l)
	}
}

// Subtract removes what other contributed to h: the title when h still
// carries it, and every meta and link stored under one of other's keys.
func (h *Head) Subtract(other Head) {
	if other.Title != "" && h.Title == other.Title {
		h.Title = ""
	}
	for _, m := range other.Meta {
		h.RemoveMeta(m.Key())
	}
	for _, l := range other.Links {
		key := linkKey(l)
		h.Links = slices.DeleteFunc(h.Links, func(e Link) bool { return linkKey(e) == key })
	}
}

// Clone returns a deep copy.
func (h Head) Clone() Head {
	return Head{
		Title: h.Title,
		Lang:  h.Lang,
		Meta:  slices.Clone(h.Meta),
		Links: slices.Clone(h.Links),
	}
}
