package ssg

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dmitrymomot/ssgi18n/core/head"
)

// Compile-time check that Document implements head.Sink.
var _ head.Sink = (*Document)(nil)

// Document is a parsed HTML page. It receives the rendered app and the
// computed head, and serializes the result.
type Document struct {
	mu   sync.Mutex
	root *html.Node
}

// ParseDocument parses an HTML page.
func ParseDocument(src string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("ssg: parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// MountApp places appHTML inside the element with id "app", marks it as
// server rendered and adds the initial state script after it.
func (d *Document) MountApp(appHTML, initialState string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	app := find(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && getAttr(n, "id") == "app"
	})
	if app == nil {
		return ErrNoAppElement
	}

	nodes, err := html.ParseFragment(strings.NewReader(appHTML), app)
	if err != nil {
		return fmt.Errorf("ssg: parse app html: %w", err)
	}
	for c := app.FirstChild; c != nil; c = app.FirstChild {
		app.RemoveChild(c)
	}
	for _, n := range nodes {
		app.AppendChild(n)
	}
	setAttr(app, "data-server-rendered", "true")

	if initialState != "" && app.Parent != nil {
		script := element(atom.Script)
		script.AppendChild(&html.Node{Type: html.TextNode, Data: "window.__INITIAL_STATE__=" + initialState})
		app.Parent.InsertBefore(script, app.NextSibling)
	}
	return nil
}

// Flush applies h to the document: html lang, title, meta and link
// entries. Existing entries with the same key are updated in place.
func (d *Document) Flush(_ context.Context, h head.Head) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	htmlEl := find(d.root, isElement(atom.Html))
	headEl := find(d.root, isElement(atom.Head))
	if htmlEl == nil || headEl == nil {
		return fmt.Errorf("ssg: document has no html or head element")
	}

	if h.Lang != "" {
		setAttr(htmlEl, "lang", h.Lang)
	}

	if h.Title != "" {
		title := find(headEl, isElement(atom.Title))
		if title == nil {
			title = element(atom.Title)
			headEl.AppendChild(title)
		}
		for c := title.FirstChild; c != nil; c = title.FirstChild {
			title.RemoveChild(c)
		}
		title.AppendChild(&html.Node{Type: html.TextNode, Data: h.Title})
	}

	for _, m := range h.Meta {
		attrKey, attrVal := "name", m.Name
		if m.Property != "" {
			attrKey, attrVal = "property", m.Property
		}
		el := find(headEl, func(n *html.Node) bool {
			return n.DataAtom == atom.Meta && getAttr(n, attrKey) == attrVal
		})
		if el == nil {
			el = element(atom.Meta)
			setAttr(el, attrKey, attrVal)
			headEl.AppendChild(el)
		}
		setAttr(el, "content", m.Content)
	}

	for _, l := range h.Links {
		el := find(headEl, func(n *html.Node) bool {
			return n.DataAtom == atom.Link && getAttr(n, "rel") == l.Rel && getAttr(n, "hreflang") == l.Hreflang
		})
		if el == nil {
			el = element(atom.Link)
			setAttr(el, "rel", l.Rel)
			if l.Hreflang != "" {
				setAttr(el, "hreflang", l.Hreflang)
			}
			headEl.AppendChild(el)
		}
		setAttr(el, "href", l.Href)
	}
	return nil
}

// HTML serializes the document.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("ssg: render html: %w", err)
	}
	return buf.String(), nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func isElement(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	}
}

// find returns the first node below n, depth first, matching pred.
func find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if pred(c) {
			return c
		}
		if found := find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
