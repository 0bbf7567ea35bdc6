package resolver

import (
	"strings"
	"unicode"

	"github.com/jonathan/job-autofill/internal/analyzer"
	"github.com/jonathan/job-autofill/internal/dom"
)

// Choice is one answer a select or radio group offers.
type Choice struct {
	Text  string
	Value string
}

// Label returns the text to write for this choice.
func (c Choice) Label() string {
	if c.Text != "" {
		return c.Text
	}
	return c.Value
}

// Choices enumerates the answers present in the DOM for a select or radio group.
// Placeholder options ("Select...", empty value) and disabled options are dropped.
func Choices(doc dom.Document, el dom.Element, sig analyzer.Signature) []Choice {
	switch sig.ControlType {
	case "select":
		var out []Choice
		for _, o := range el.Options() {
			if o.Disabled || isPlaceholder(o.Text, o.Value) {
				continue
			}
			out = append(out, Choice{Text: o.Text, Value: o.Value})
		}
		return out
	case "radio":
		if sig.Name == "" {
			return []Choice{{Text: analyzer.Label(doc, el), Value: el.Attr("value")}}
		}
		var out []Choice
		for _, r := range doc.Query(dom.AttrSelector("input", "name", sig.Name)) {
			if !strings.EqualFold(r.Attr("type"), "radio") {
				continue
			}
			out = append(out, Choice{Text: analyzer.Label(doc, r), Value: r.Attr("value")})
		}
		return out
	default:
		return nil
	}
}

func isPlaceholder(text, value string) bool {
	if strings.TrimSpace(value) == "" {
		return true
	}
	t := strings.ToLower(strings.TrimSpace(text))
	for _, p := range []string{"select", "choose", "please", "--", "pick one"} {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}

var (
	negativeWords    = []string{"no", "false", "not", "don't", "dont", "do not", "cannot", "can't", "unauthorized", "unable", "won't", "never"}
	affirmativeWords = []string{"yes", "true", "authorized", "eligible", "willing", "agree", "i am", "i can", "i will", "i do"}
)

// Polarity classifies a text as affirmative (+1), negative (-1) or neither (0) by its
// lexical markers. Negative markers win, so "Not authorized" is negative.
func Polarity(text string) int {
	words := tokens(text)
	if words == "" {
		return 0
	}
	for _, w := range negativeWords {
		if containsTokens(words, tokens(w)) {
			return -1
		}
	}
	for _, w := range affirmativeWords {
		if containsTokens(words, tokens(w)) {
			return 1
		}
	}
	return 0
}

// ChooseBoolean returns the first choice whose text (or, failing that, value) carries
// the requested polarity.
func ChooseBoolean(choices []Choice, want bool) (Choice, bool) {
	target := -1
	if want {
		target = 1
	}
	for _, c := range choices {
		if Polarity(c.Text) == target {
			return c, true
		}
	}
	for _, c := range choices {
		if Polarity(c.Value) == target {
			return c, true
		}
	}
	return Choice{}, false
}

// BestChoice maps candidate strings onto the offered choices: an exact case-insensitive
// match on text or value first, then whole-word containment in either direction.
func BestChoice(choices []Choice, candidates []string) (Choice, bool) {
	for _, cand := range candidates {
		for _, c := range choices {
			if cand == "" {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(c.Text), cand) || strings.EqualFold(strings.TrimSpace(c.Value), cand) {
				return c, true
			}
		}
	}
	for _, cand := range candidates {
		ct := tokens(cand)
		if ct == "" {
			continue
		}
		for _, c := range choices {
			text := tokens(c.Text)
			if text == "" {
				continue
			}
			if containsTokens(text, ct) || containsTokens(ct, text) {
				return c, true
			}
		}
	}
	return Choice{}, false
}

// tokens lower-cases s and reduces it to space-separated words; apostrophes stay inside words.
func tokens(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	return strings.Join(fields, " ")
}

func containsTokens(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}
