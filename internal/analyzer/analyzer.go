// Package analyzer derives a textual and structural signature for a single form control.
package analyzer

import (
	"strconv"
	"strings"

	"github.com/jonathan/job-autofill/internal/dom"
)

// Signature is the fingerprint of one control at the time it was analyzed.
type Signature struct {
	Tag          string
	ControlType  string
	Name         string
	ID           string
	Placeholder  string
	Label        string
	Class        string
	AriaLabel    string
	Title        string
	AutomationID string
	// Combined is the lower-cased concatenation of every textual source above.
	Combined string

	Required  bool
	MaxLength int
	Pattern   string

	// Confidence is advisory; the matcher does not gate on it.
	Confidence float64
}

// Analyze reads the control's current attributes and label. Nothing is cached: pages
// mutate attributes asynchronously, so every call reflects the DOM at call time.
func Analyze(doc dom.Document, el dom.Element) Signature {
	sig := Signature{
		Tag:          el.Tag(),
		ControlType:  ControlType(el),
		Name:         el.Attr("name"),
		ID:           el.Attr("id"),
		Placeholder:  el.Attr("placeholder"),
		Class:        el.Attr("class"),
		AriaLabel:    el.Attr("aria-label"),
		Title:        el.Attr("title"),
		AutomationID: el.Attr("data-automation-id"),
		Pattern:      el.Attr("pattern"),
	}
	sig.Label = Label(doc, el)

	if n, err := strconv.Atoi(strings.TrimSpace(el.Attr("maxlength"))); err == nil && n > 0 {
		sig.MaxLength = n
	}
	sig.Required = el.HasAttr("required") ||
		strings.EqualFold(el.Attr("aria-required"), "true") ||
		strings.HasSuffix(sig.Label, "*")

	parts := make([]string, 0, 8)
	for _, s := range []string{sig.Name, sig.ID, sig.Placeholder, sig.Label, sig.Class, sig.AriaLabel, sig.Title, sig.AutomationID} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, strings.ToLower(s))
		}
	}
	sig.Combined = strings.Join(parts, " ")
	sig.Confidence = confidence(sig)
	return sig
}

// ControlType returns "select", "textarea", or the input's lower-cased type ("text" when unset).
func ControlType(el dom.Element) string {
	switch el.Tag() {
	case "select":
		return "select"
	case "textarea":
		return "textarea"
	case "input":
		t := strings.ToLower(strings.TrimSpace(el.Attr("type")))
		if t == "" {
			return "text"
		}
		return t
	default:
		return el.Tag()
	}
}

// Label finds the human-readable label of a control: an enclosing <label>, then a
// label[for=id], then the nearest preceding sibling with text. Returns "" when none exists.
func Label(doc dom.Document, el dom.Element) string {
	if lbl := el.Closest("label"); lbl != nil && !lbl.Same(el) {
		if text := ownLabelText(lbl, el); text != "" {
			return text
		}
	}

	if id := el.Attr("id"); id != "" {
		for _, lbl := range doc.Query(dom.AttrSelector("label", "for", id)) {
			if text := lbl.Text(); text != "" {
				return text
			}
		}
	}

	for s := el.PrevSibling(); s != nil; s = s.PrevSibling() {
		if text := s.Text(); text != "" {
			return text
		}
	}
	return ""
}

// ownLabelText strips the control's own text (option lists) from an enclosing label.
func ownLabelText(lbl, el dom.Element) string {
	text := lbl.Text()
	if own := el.Text(); own != "" {
		text = dom.NormalizeSpace(strings.Replace(text, own, "", 1))
	}
	return text
}

func confidence(sig Signature) float64 {
	score := 0.0
	for _, s := range []string{sig.Label, sig.Name, sig.ID, sig.Placeholder, sig.AriaLabel} {
		if s != "" {
			score += 0.2
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
