package htmldom

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonathan/job-autofill/internal/dom"
)

// Element is a node of an in-memory Document.
type Element struct {
	doc  *Document
	node *html.Node
}

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node { return e.node }

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return strings.ToLower(e.node.Data) }

// Attr returns the attribute value, or "" if absent.
func (e *Element) Attr(name string) string {
	v, _ := e.attr(name)
	return v
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.attr(name)
	return ok
}

func (e *Element) attr(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) setAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) removeAttr(name string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	e.node.Attr = attrs
}

// Text returns the normalized text content, excluding script and style bodies.
func (e *Element) Text() string {
	return dom.NormalizeSpace(textContent(e.node))
}

// Value returns the control's current value.
func (e *Element) Value() string {
	switch e.Tag() {
	case "textarea":
		return textContent(e.node)
	case "select":
		opts := e.Options()
		for _, o := range opts {
			if o.Selected {
				return o.Value
			}
		}
		if len(opts) > 0 {
			return opts[0].Value
		}
		return ""
	default:
		return e.Attr("value")
	}
}

// Checked reports the checked state of a radio or checkbox.
func (e *Element) Checked() bool { return e.HasAttr("checked") }

// Visible approximates computed visibility from the static markup: the hidden
// attribute, inline display/visibility styles and type=hidden on the node or an ancestor.
func (e *Element) Visible() bool {
	if e.Tag() == "input" && strings.EqualFold(e.Attr("type"), "hidden") {
		return false
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		a := &Element{doc: e.doc, node: n}
		if a.HasAttr("hidden") {
			return false
		}
		style := strings.ReplaceAll(strings.ToLower(a.Attr("style")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false
		}
	}
	return true
}

// Options lists the <option> children of a select in document order.
func (e *Element) Options() []dom.Option {
	if e.Tag() != "select" {
		return nil
	}
	var out []dom.Option
	for i, n := range e.optionNodes() {
		o := &Element{doc: e.doc, node: n}
		text := o.Text()
		value, hasValue := o.attr("value")
		if !hasValue {
			value = text
		}
		disabled := o.HasAttr("disabled")
		if p := n.Parent; p != nil && p.Type == html.ElementNode && p.Data == "optgroup" {
			disabled = disabled || (&Element{doc: e.doc, node: p}).HasAttr("disabled")
		}
		out = append(out, dom.Option{
			Index:    i,
			Text:     text,
			Value:    value,
			Selected: o.HasAttr("selected"),
			Disabled: disabled,
		})
	}
	return out
}

func (e *Element) optionNodes() []*html.Node {
	return e.selection().Find("option").Nodes
}

func (e *Element) selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(e.node).Selection
}

// Parent returns the parent element, or nil at the root.
func (e *Element) Parent() dom.Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.doc.wrap(p)
}

// PrevSibling returns the previous element sibling, or nil.
func (e *Element) PrevSibling() dom.Element {
	for s := e.node.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return e.doc.wrap(s)
		}
	}
	return nil
}

// Closest returns the nearest ancestor-or-self matching selector, or nil.
func (e *Element) Closest(selector string) dom.Element {
	nodes := e.selection().Closest(selector).Nodes
	if len(nodes) == 0 {
		return nil
	}
	return e.doc.wrap(nodes[0])
}

// Query returns descendants matching selector in document order.
func (e *Element) Query(selector string) []dom.Element {
	return e.doc.wrapAll(e.selection().Find(selector).Nodes)
}

// Same reports whether other refers to the same node.
func (e *Element) Same(other dom.Element) bool {
	o, ok := other.(*Element)
	return ok && o.node == e.node
}

// Focus records a focus event.
func (e *Element) Focus() error {
	if err := e.live(); err != nil {
		return err
	}
	return e.doc.dispatch(e, dom.EventFocus)
}

// SetValue writes the control's value without dispatching events.
func (e *Element) SetValue(value string) error {
	if err := e.live(); err != nil {
		return err
	}
	switch e.Tag() {
	case "textarea":
		for c := e.node.FirstChild; c != nil; c = e.node.FirstChild {
			e.node.RemoveChild(c)
		}
		if value != "" {
			e.node.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		}
	case "select":
		for i, o := range e.Options() {
			if o.Value == value {
				return e.SelectIndex(i)
			}
		}
		return fmt.Errorf("select has no option with value %q", value)
	default:
		e.setAttr("value", value)
	}
	return nil
}

// SetChecked sets the checked state; checking a radio unchecks the rest of its group.
func (e *Element) SetChecked(checked bool) error {
	if err := e.live(); err != nil {
		return err
	}
	if checked && strings.EqualFold(e.Attr("type"), "radio") && e.Attr("name") != "" {
		for _, r := range e.doc.Query(dom.AttrSelector("input", "name", e.Attr("name"))) {
			if re, ok := r.(*Element); ok && strings.EqualFold(re.Attr("type"), "radio") {
				re.removeAttr("checked")
			}
		}
	}
	if checked {
		e.setAttr("checked", "")
	} else {
		e.removeAttr("checked")
	}
	return nil
}

// SelectIndex marks the option at index as the only selected option.
func (e *Element) SelectIndex(index int) error {
	if err := e.live(); err != nil {
		return err
	}
	nodes := e.optionNodes()
	if index < 0 || index >= len(nodes) {
		return fmt.Errorf("option index %d out of range (%d options)", index, len(nodes))
	}
	for i, n := range nodes {
		o := &Element{doc: e.doc, node: n}
		if i == index {
			o.setAttr("selected", "")
		} else {
			o.removeAttr("selected")
		}
	}
	return nil
}

// Click records a click event.
func (e *Element) Click() error {
	if err := e.live(); err != nil {
		return err
	}
	return e.doc.dispatch(e, dom.EventClick)
}

// Dispatch records an event and runs the document's listeners.
func (e *Element) Dispatch(kind dom.EventKind) error {
	if err := e.live(); err != nil {
		return err
	}
	return e.doc.dispatch(e, kind)
}

// Mark overlays the fill indicator as an attribute.
func (e *Element) Mark(state dom.Indicator) error {
	if err := e.live(); err != nil {
		return err
	}
	e.setAttr(StateAttr, string(state))
	return nil
}

// SetFiles records the selected file names on the control.
func (e *Element) SetFiles(paths []string) error {
	if err := e.live(); err != nil {
		return err
	}
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	e.setAttr("data-files", strings.Join(names, ","))
	return nil
}

func (e *Element) live() error {
	if !e.doc.attached(e.node) {
		return dom.ErrStale
	}
	return nil
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

var (
	_ dom.Element    = (*Element)(nil)
	_ dom.FileSetter = (*Element)(nil)
	_ dom.Document   = (*Document)(nil)
)
