package head_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssgi18n/core/head"
	"github.com/dmitrymomot/ssgi18n/core/locale"
	"github.com/dmitrymomot/ssgi18n/core/route"
)

func TestSetMetaUpsert(t *testing.T) {
	t.Parallel()

	var h head.Head
	h.SetMeta(head.Meta{Property: "og:locale", Content: "en"})
	h.SetMeta(head.Meta{Name: "description", Content: "first"})
	h.SetMeta(head.Meta{Property: "og:locale", Content: "es"})

	require.Len(t, h.Meta, 2)
	assert.Equal(t, head.Meta{Property: "og:locale", Content: "es"}, h.Meta[0])

	// stale duplicates introduced by hand are collapsed on the next upsert
	h.Meta = append(h.Meta, head.Meta{Name: "description", Content: "stale"})
	h.SetMeta(head.Meta{Name: "description", Content: "second"})
	require.Len(t, h.Meta, 2)
	m, ok := h.GetMeta("name:description")
	require.True(t, ok)
	assert.Equal(t, "second", m.Content)

	h.RemoveMeta("name:description")
	_, ok = h.GetMeta("name:description")
	assert.False(t, ok)
}

func TestSetLinkUpsert(t *testing.T) {
	t.Parallel()

	var h head.Head
	h.SetLink(head.Link{Rel: "alternate", Hreflang: "x-default", Href: "/a"})
	h.SetLink(head.Link{Rel: "alternate", Hreflang: "es", Href: "/es/a"})
	h.SetLink(head.Link{Rel: "alternate", Hreflang: "x-default", Href: "/b"})

	assert.Equal(t, []head.Link{
		{Rel: "alternate", Hreflang: "x-default", Href: "/b"},
		{Rel: "alternate", Hreflang: "es", Href: "/es/a"},
	}, h.Links)

	h.RemoveLinks("alternate")
	assert.Empty(t, h.Links)
}

func TestMergeKeepsKeysUnique(t *testing.T) {
	t.Parallel()

	h := head.Head{Title: "Site"}
	for _, code := range []string{"en", "es", "en", "es"} {
		h.Merge(head.Head{
			Lang:  code,
			Meta:  []head.Meta{{Property: "og:locale", Content: code}, {Property: "google", Content: "notranslate"}},
			Links: []head.Link{{Rel: "alternate", Hreflang: "x-default", Href: "/" + code}},
		})
	}

	assert.Equal(t, "Site", h.Title)
	assert.Equal(t, "es", h.Lang)
	assert.Len(t, h.Meta, 2)
	assert.Len(t, h.Links, 1)

	seen := map[string]bool{}
	for _, m := range h.Meta {
		assert.False(t, seen[m.Key()], "duplicate %s", m.Key())
		seen[m.Key()] = true
	}
}

func TestSubtract(t *testing.T) {
	t.Parallel()

	prev := head.Head{
		Title: "About",
		Meta:  []head.Meta{{Name: "description", Content: "Who we are"}, {Property: "og:type", Content: "page"}},
		Links: []head.Link{{Rel: "alternate", Hreflang: "es", Href: "/es/about"}},
	}
	h := prev.Clone()
	h.SetMeta(head.Meta{Name: "viewport", Content: "width=device-width"})
	h.SetLink(head.Link{Rel: "icon", Href: "/favicon.ico"})

	h.Subtract(prev)
	assert.Empty(t, h.Title)
	assert.Equal(t, []head.Meta{{Name: "viewport", Content: "width=device-width"}}, h.Meta)
	assert.Equal(t, []head.Link{{Rel: "icon", Href: "/favicon.ico"}}, h.Links)

	kept := head.Head{Title: "Contact"}
	kept.Subtract(prev)
	assert.Equal(t, "Contact", kept.Title)
}

func TestCompute(t *testing.T) {
	t.Parallel()

	messages := map[string]string{
		"page-about.title":       "About us",
		"page-about.description": "Who we are",
	}
	translate := func(key string) string {
		if v, ok := messages[key]; ok {
			return v
		}
		return key
	}
	r := &route.Route{Path: "about", Meta: route.Meta{
		RawPath:        "about",
		TitleKey:       "page-about.title",
		DescriptionKey: "page-about.description",
		ImageKey:       "page-about.image",
	}}
	rec := locale.Record{Code: "es", Language: "es"}
	alternates := []route.Link{
		{Rel: "alternate", Hreflang: "x-default", Href: "https://example.com/about"},
		{Rel: "alternate", Hreflang: "es", Href: "https://example.com/es/about"},
	}

	h := head.Compute(r, rec, translate, alternates)
	assert.Equal(t, "About us", h.Title)
	assert.Equal(t, "es", h.Lang)
	assert.Equal(t, []head.Meta{
		{Name: "description", Content: "Who we are"},
		{Property: "og:locale", Content: "es"},
		{Property: "google", Content: "notranslate"},
	}, h.Meta)
	assert.Equal(t, alternates, h.Links)

	// pure: same input, same output
	assert.Equal(t, h, head.Compute(r, rec, translate, alternates))

	t.Run("overrides win", func(t *testing.T) {
		t.Parallel()
		over := *r
		over.Meta.Title = "Fixed"
		over.Meta.Image = "/og.png"
		h := head.Compute(&over, rec, translate, nil)
		assert.Equal(t, "Fixed", h.Title)
		img, ok := h.GetMeta("property:og:image")
		require.True(t, ok)
		assert.Equal(t, "/og.png", img.Content)
	})

	t.Run("missing translations", func(t *testing.T) {
		t.Parallel()
		h := head.Compute(r, rec, func(key string) string { return key }, nil)
		assert.Empty(t, h.Title)
		_, ok := h.GetMeta("name:description")
		assert.False(t, ok)
		assert.Empty(t, h.Links)
	})
}

func TestRender(t *testing.T) {
	t.Parallel()

	h := head.Head{
		Title: `Tom & "Jerry"`,
		Meta: []head.Meta{
			{Name: "description", Content: "a<b"},
			{Property: "og:locale", Content: "es"},
		},
		Links: []head.Link{{Rel: "alternate", Hreflang: "es", Href: "https://example.com/es/"}},
	}

	out, err := head.Render(context.Background(), head.Tags(h))
	require.NoError(t, err)
	assert.Equal(t,
		`<title>Tom &amp; &#34;Jerry&#34;</title>`+
			`<meta name="description" content="a&lt;b">`+
			`<meta property="og:locale" content="es">`+
			`<link rel="alternate" hreflang="es" href="https://example.com/es/">`,
		out)
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	var rec head.Recorder
	_, ok := rec.Last()
	assert.False(t, ok)

	h := head.Head{Lang: "en"}
	require.NoError(t, rec.Flush(context.Background(), h))
	h.Lang = "es"
	require.NoError(t, rec.Flush(context.Background(), h))

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "es", last.Lang)
	assert.Equal(t, 2, rec.Count())

	var sink head.Sink = head.SinkFunc(func(context.Context, head.Head) error { return nil })
	assert.NoError(t, sink.Flush(context.Background(), h))
}
