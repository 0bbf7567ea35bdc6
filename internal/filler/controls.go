package filler

import (
	"strings"
	"unicode"

	"github.com/jonathan/job-autofill/internal/dom"
)

// ControlKind classifies a control by how it is written.
type ControlKind string

const (
	// KindText covers text-like inputs (text, email, tel, url, number, date, search, ...)
	KindText ControlKind = "text"
	// KindTextarea is a multi-line text control
	KindTextarea ControlKind = "textarea"
	// KindSelect is a <select>
	KindSelect ControlKind = "select"
	// KindRadio is an input[type=radio]
	KindRadio ControlKind = "radio"
	// KindCheckbox is an input[type=checkbox]
	KindCheckbox ControlKind = "checkbox"
	// KindFile is an input[type=file]
	KindFile ControlKind = "file"
	// KindUnsupported is anything else (buttons, images, hidden inputs)
	KindUnsupported ControlKind = "unsupported"
)

var nonTextInputs = map[string]bool{
	"submit": true, "button": true, "reset": true, "image": true, "hidden": true,
}

// Kind returns the fill strategy for el.
func Kind(el dom.Element) ControlKind {
	switch el.Tag() {
	case "textarea":
		return KindTextarea
	case "select":
		return KindSelect
	case "input":
		t := strings.ToLower(strings.TrimSpace(el.Attr("type")))
		switch {
		case t == "radio":
			return KindRadio
		case t == "checkbox":
			return KindCheckbox
		case t == "file":
			return KindFile
		case nonTextInputs[t]:
			return KindUnsupported
		default:
			return KindText
		}
	default:
		return KindUnsupported
	}
}

// Identity is the stable key of a control within a session, built from its tag, type,
// name, id and placeholder. Re-rendered nodes with the same attributes share an identity.
func Identity(el dom.Element) string {
	return strings.Join([]string{
		el.Tag(),
		strings.ToLower(el.Attr("type")),
		el.Attr("name"),
		el.Attr("id"),
		el.Attr("placeholder"),
	}, "|")
}

var truthy = map[string]bool{
	"true": true, "yes": true, "1": true, "on": true,
	"enabled": true, "authorized": true, "checked": true,
}

// Truthy coerces a resolved value to a checkbox state.
func Truthy(value string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(value))]
}

// fuzzyThreshold is the minimum FuzzyRatio for the last option-matching tier.
const fuzzyThreshold = 0.7

// MatchOption picks the option for value. Tiers are tried in order and the first tier
// with a hit wins: exact (case-insensitive text or value), containment in either
// direction, then the highest FuzzyRatio above the threshold. Disabled options never match.
func MatchOption(options []dom.Option, value string) (dom.Option, bool) {
	want := strings.ToLower(strings.TrimSpace(value))
	if want == "" {
		return dom.Option{}, false
	}

	for _, o := range options {
		if o.Disabled {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(o.Text), want) || strings.EqualFold(strings.TrimSpace(o.Value), want) {
			return o, true
		}
	}

	for _, o := range options {
		if o.Disabled || strings.TrimSpace(o.Value) == "" {
			continue
		}
		text := strings.ToLower(strings.TrimSpace(o.Text))
		if text == "" {
			continue
		}
		if strings.Contains(text, want) || strings.Contains(want, text) {
			return o, true
		}
	}

	best, bestRatio := dom.Option{}, fuzzyThreshold
	found := false
	for _, o := range options {
		if o.Disabled {
			continue
		}
		if r := FuzzyRatio(o.Text, value); r > bestRatio {
			best, bestRatio, found = o, r, true
		}
	}
	return best, found
}

// FuzzyRatio compares two strings position by position after lower-casing and stripping
// everything but letters and digits. It returns matching positions over the longer length.
func FuzzyRatio(a, b string) float64 {
	ra, rb := alnum(a), alnum(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 0
	}
	same := 0
	for i := 0; i < len(ra) && i < len(rb); i++ {
		if ra[i] == rb[i] {
			same++
		}
	}
	return float64(same) / float64(longest)
}

func alnum(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return out
}
