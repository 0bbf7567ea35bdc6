// Package htmldom implements the dom adapter over a parsed HTML page held in memory.
// Mutations are applied to the node tree and every dispatched event is recorded, so the
// engine can be exercised against saved application pages without a browser.
package htmldom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonathan/job-autofill/internal/dom"
)

// StateAttr is the attribute used to overlay the fill indicator on a control.
const StateAttr = "data-autofill-state"

// Event is one recorded synthetic event.
type Event struct {
	Kind    dom.EventKind
	Element *Element
	Value   string
}

// Listener observes dispatched events. A non-nil error is returned to the dispatcher,
// the same way a throwing page handler surfaces to the caller.
type Listener func(ev Event) error

// Document is an in-memory page.
type Document struct {
	doc       *goquery.Document
	url       string
	events    []Event
	listeners []Listener
}

// Parse reads an HTML page.
func Parse(r io.Reader, pageURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{doc: doc, url: pageURL}, nil
}

// ParseString parses an HTML string.
func ParseString(s string, pageURL string) (*Document, error) {
	return Parse(strings.NewReader(s), pageURL)
}

// URL returns the page URL the document was loaded from.
func (d *Document) URL() string { return d.url }

// Title returns the normalized <title> text.
func (d *Document) Title() string {
	return dom.NormalizeSpace(d.doc.Find("title").First().Text())
}

// Query returns all elements matching selector in document order.
func (d *Document) Query(selector string) []dom.Element {
	return d.wrapAll(d.doc.Find(selector).Nodes)
}

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) dom.Element {
	if id == "" {
		return nil
	}
	nodes := d.doc.Find(dom.AttrSelector("", "id", id)).Nodes
	if len(nodes) == 0 {
		return nil
	}
	return d.wrap(nodes[0])
}

// OnEvent registers a listener for every dispatched event.
func (d *Document) OnEvent(l Listener) {
	d.listeners = append(d.listeners, l)
}

// Events returns the events dispatched so far.
func (d *Document) Events() []Event {
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

// Remove detaches an element from the tree, as a page re-render would.
func (d *Document) Remove(el dom.Element) {
	e, ok := el.(*Element)
	if !ok || e.node.Parent == nil {
		return
	}
	e.node.Parent.RemoveChild(e.node)
}

// Render writes the current state of the page as HTML.
func (d *Document) Render(w io.Writer) error {
	if len(d.doc.Nodes) == 0 {
		return nil
	}
	return html.Render(w, d.doc.Nodes[0])
}

func (d *Document) wrap(n *html.Node) dom.Element {
	if n == nil {
		return nil
	}
	return &Element{doc: d, node: n}
}

func (d *Document) wrapAll(nodes []*html.Node) []dom.Element {
	out := make([]dom.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

func (d *Document) attached(n *html.Node) bool {
	if len(d.doc.Nodes) == 0 {
		return false
	}
	root := d.doc.Nodes[0]
	for c := n; c != nil; c = c.Parent {
		if c == root {
			return true
		}
	}
	return false
}

func (d *Document) dispatch(e *Element, kind dom.EventKind) error {
	ev := Event{Kind: kind, Element: e, Value: e.Value()}
	d.events = append(d.events, ev)
	for _, l := range d.listeners {
		if err := l(ev); err != nil {
			return err
		}
	}
	return nil
}
