// Package discovery finds application forms, their fillable fields and the buttons
// that move a multi-step application forward.
package discovery

import (
	"strings"
	"unicode"

	"github.com/jonathan/job-autofill/internal/dom"
	"github.com/jonathan/job-autofill/internal/filler"
)

// MinContainerFields is the number of fillable descendants a div/section/main needs to be
// treated as a form when the page has no qualifying <form>.
const MinContainerFields = 3

// negativeKeywords mark forms that are not job applications.
var negativeKeywords = []string{
	"search", "login", "log in", "signin", "sign in", "signup", "sign up",
	"newsletter", "subscribe", "comment", "review", "feedback",
}

// FindForms returns the form-like containers to fill, in document order. Real <form>
// elements win; if none qualifies, generic containers with at least MinContainerFields
// fillable fields are used, keeping only the outermost so no field is visited twice.
func FindForms(doc dom.Document) []dom.Element {
	var forms []dom.Element
	for _, f := range doc.Query("form") {
		if isNegativeForm(f) {
			continue
		}
		forms = append(forms, f)
	}
	if len(forms) > 0 {
		return forms
	}

	var containers []dom.Element
	for _, c := range doc.Query("div, section, main") {
		if len(Fields(c)) < MinContainerFields {
			continue
		}
		nested := false
		for _, outer := range containers {
			if contains(outer, c) {
				nested = true
				break
			}
		}
		if !nested {
			containers = append(containers, c)
		}
	}
	return containers
}

func isNegativeForm(form dom.Element) bool {
	haystack := words(strings.Join([]string{
		form.Attr("id"), form.Attr("class"), form.Attr("name"),
		form.Attr("action"), form.Attr("aria-label"), form.Text(),
	}, " "))
	for _, kw := range negativeKeywords {
		if hasPhrase(haystack, words(kw)) {
			return true
		}
	}
	return false
}

// contains reports whether inner is a strict descendant of outer.
func contains(outer, inner dom.Element) bool {
	for p := inner.Parent(); p != nil; p = p.Parent() {
		if p.Same(outer) {
			return true
		}
	}
	return false
}

// Fields returns the fillable controls under container in document order. Hidden,
// disabled, read-only and button-like inputs are skipped, and each radio group is
// represented by its first radio.
func Fields(container dom.Element) []dom.Element {
	var out []dom.Element
	seenGroups := make(map[string]bool)
	for _, el := range container.Query("input, select, textarea") {
		if !Fillable(el) {
			continue
		}
		if filler.Kind(el) == filler.KindRadio {
			if name := el.Attr("name"); name != "" {
				if seenGroups[name] {
					continue
				}
				seenGroups[name] = true
			}
		}
		out = append(out, el)
	}
	return out
}

// Fillable reports whether the engine should try to write el.
func Fillable(el dom.Element) bool {
	if filler.Kind(el) == filler.KindUnsupported {
		return false
	}
	if el.HasAttr("disabled") || el.HasAttr("readonly") {
		return false
	}
	return el.Visible()
}

// words lower-cases s and reduces it to space-separated alphanumeric words.
func words(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

func hasPhrase(haystack, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(" "+haystack+" ", " "+phrase+" ")
}
