package browser

import (
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/job-autofill/internal/dom"
)

// Element is a handle on a node of a live tab.
type Element struct {
	doc *Document
	id  string
}

func (e *Element) selector() string {
	return dom.AttrSelector("", HandleAttr, e.id)
}

// call evaluates body with `el` bound to the element and `a` bound to args.
func (e *Element) call(body string, out any, args ...any) error {
	if args == nil {
		args = []any{}
	}
	argJSON, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode arguments: %w", err)
	}
	sel, _ := json.Marshal(e.selector())
	expr := fmt.Sprintf(`(function(el, a){%s
if (!el) throw new Error(%q);
%s
})(document.querySelector(%s), %s)`, prelude, staleMarker, body, sel, argJSON)
	return e.doc.eval(expr, out)
}

func (e *Element) str(body string, args ...any) string {
	var s string
	if err := e.call(body, &s, args...); err != nil {
		e.doc.logf("element %s: %v", e.id, err)
	}
	return s
}

func (e *Element) boolean(body string, args ...any) bool {
	var b bool
	if err := e.call(body, &b, args...); err != nil {
		e.doc.logf("element %s: %v", e.id, err)
	}
	return b
}

func (e *Element) related(body string, args ...any) dom.Element {
	id := e.str(body, args...)
	if id == "" {
		return nil
	}
	return &Element{doc: e.doc, id: id}
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.str(`return el.tagName.toLowerCase();`) }

// Attr returns the attribute value, or "".
func (e *Element) Attr(name string) string {
	return e.str(`return el.getAttribute(a[0]) || "";`, name)
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	return e.boolean(`return el.hasAttribute(a[0]);`, name)
}

// Text returns the normalized text content.
func (e *Element) Text() string {
	return dom.NormalizeSpace(e.str(`return el.innerText || el.textContent || "";`))
}

// Value returns the control's live value property.
func (e *Element) Value() string {
	return e.str(`return el.value == null ? "" : String(el.value);`)
}

// Checked returns the live checked property.
func (e *Element) Checked() bool { return e.boolean(`return !!el.checked;`) }

// Visible checks computed style and layout boxes.
func (e *Element) Visible() bool {
	return e.boolean(`var s = getComputedStyle(el);
return s.display !== "none" && s.visibility !== "hidden" && el.type !== "hidden" && el.getClientRects().length > 0;`)
}

type jsOption struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
	Disabled bool   `json:"disabled"`
}

// Options lists a select's options.
func (e *Element) Options() []dom.Option {
	var raw []jsOption
	err := e.call(`return Array.from(el.options || []).map(function(o, i){
return {index: i, text: (o.text || "").trim(), value: o.value, selected: o.selected, disabled: o.disabled};
});`, &raw)
	if err != nil {
		e.doc.logf("options %s: %v", e.id, err)
		return nil
	}
	out := make([]dom.Option, 0, len(raw))
	for _, o := range raw {
		out = append(out, dom.Option{Index: o.Index, Text: dom.NormalizeSpace(o.Text), Value: o.Value, Selected: o.Selected, Disabled: o.Disabled})
	}
	return out
}

// Parent returns the parent element.
func (e *Element) Parent() dom.Element {
	return e.related(`return el.parentElement ? __jafTag(el.parentElement) : "";`)
}

// PrevSibling returns the previous element sibling.
func (e *Element) PrevSibling() dom.Element {
	return e.related(`return el.previousElementSibling ? __jafTag(el.previousElementSibling) : "";`)
}

// Closest returns the nearest ancestor-or-self matching selector.
func (e *Element) Closest(selector string) dom.Element {
	return e.related(`var c = el.closest(a[0]); return c ? __jafTag(c) : "";`, selector)
}

// Query returns matching descendants.
func (e *Element) Query(selector string) []dom.Element {
	return e.doc.query(e.id, selector)
}

// Same reports whether other addresses the same node.
func (e *Element) Same(other dom.Element) bool {
	o, ok := other.(*Element)
	return ok && o.doc == e.doc && o.id == e.id
}

// Focus focuses the control.
func (e *Element) Focus() error {
	return e.call(`el.focus(); return true;`, nil)
}

// SetValue writes the value through the prototype setter so framework-managed
// inputs observe the change once events are dispatched.
func (e *Element) SetValue(value string) error {
	return e.call(`var proto = el.tagName === "TEXTAREA" ? HTMLTextAreaElement.prototype :
  (el.tagName === "SELECT" ? HTMLSelectElement.prototype : HTMLInputElement.prototype);
var d = Object.getOwnPropertyDescriptor(proto, "value");
if (d && d.set) { d.set.call(el, a[0]); } else { el.value = a[0]; }
return true;`, nil, value)
}

// SetChecked sets the checked property.
func (e *Element) SetChecked(checked bool) error {
	return e.call(`el.checked = a[0]; return true;`, nil, checked)
}

// SelectIndex selects the option at index.
func (e *Element) SelectIndex(index int) error {
	return e.call(`if (!el.options || a[0] < 0 || a[0] >= el.options.length) throw new Error("option index out of range");
el.selectedIndex = a[0]; return true;`, nil, index)
}

// Click activates the element.
func (e *Element) Click() error {
	return e.call(`el.click(); return true;`, nil)
}

// Dispatch fires a bubbling synthetic event.
func (e *Element) Dispatch(kind dom.EventKind) error {
	return e.call(`el.dispatchEvent(new Event(a[0], {bubbles: true})); return true;`, nil, string(kind))
}

// Mark overlays the fill indicator as an outline.
func (e *Element) Mark(state dom.Indicator) error {
	return e.call(`el.setAttribute("data-autofill-state", a[0]);
el.style.outline = a[0] === "filled" ? "2px solid #22c55e" : "2px solid #ef4444";
return true;`, nil, string(state))
}

// SetFiles selects local files on an input[type=file].
func (e *Element) SetFiles(paths []string) error {
	return e.doc.run(chromedp.SetUploadFiles(e.selector(), paths, chromedp.ByQuery))
}

var (
	_ dom.Element    = (*Element)(nil)
	_ dom.FileSetter = (*Element)(nil)
)
