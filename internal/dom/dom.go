// Package dom defines the narrow document adapter the autofill engine works against.
// Implementations exist for an in-memory parsed page (htmldom) and a live browser tab (browser).
package dom

import (
	"errors"
	"strings"
)

// ErrStale is returned when a mutation targets an element that is no longer attached to its document.
var ErrStale = errors.New("element is no longer attached to the document")

// EventKind names a synthetic event dispatched on a control.
type EventKind string

const (
	// EventFocus fires when a control receives focus
	EventFocus EventKind = "focus"
	// EventInput fires after every incremental value write
	EventInput EventKind = "input"
	// EventChange fires once the value is committed
	EventChange EventKind = "change"
	// EventBlur fires when the control loses focus
	EventBlur EventKind = "blur"
	// EventClick fires when a button or link is activated
	EventClick EventKind = "click"
)

// Indicator is the visual fill state overlaid on a control.
type Indicator string

const (
	// IndicatorFilled marks a control the engine wrote successfully
	IndicatorFilled Indicator = "filled"
	// IndicatorFailed marks a control the engine could not fill
	IndicatorFailed Indicator = "failed"
)

// Option is one entry of a <select> control.
type Option struct {
	Index    int
	Text     string
	Value    string
	Selected bool
	Disabled bool
}

// Element is a handle on one node of a Document.
// Read accessors reflect the node's state at call time; nothing is cached.
// Navigation accessors return nil when there is no such node.
type Element interface {
	Tag() string
	Attr(name string) string
	HasAttr(name string) bool
	Text() string
	Value() string
	Checked() bool
	Visible() bool
	Options() []Option

	Parent() Element
	PrevSibling() Element
	Closest(selector string) Element
	Query(selector string) []Element
	Same(other Element) bool

	Focus() error
	SetValue(value string) error
	SetChecked(checked bool) error
	SelectIndex(index int) error
	Click() error
	Dispatch(kind EventKind) error
	Mark(state Indicator) error
}

// Document is a page the engine can query.
type Document interface {
	URL() string
	Title() string
	Query(selector string) []Element
	ByID(id string) Element
}

// FileSetter is implemented by elements that accept a file selection (input[type=file]).
type FileSetter interface {
	SetFiles(paths []string) error
}

// AttrSelector builds a CSS attribute selector with a safely quoted value,
// e.g. AttrSelector("input", "name", `a"b`) -> input[name="a\"b"].
func AttrSelector(tag, attr, value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return tag + "[" + attr + `="` + escaped + `"]`
}

// NormalizeSpace collapses runs of whitespace into single spaces and trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
