package discovery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/job-autofill/internal/dom"
)

// ButtonSelector matches every element that can act as a navigation button.
const ButtonSelector = `button, input[type="submit"], input[type="button"], a[role="button"], [role="button"]`

var (
	// NextKeywords identify buttons that advance a multi-step form.
	NextKeywords = []string{"next", "continue", "proceed", "next step", "save and continue", "save continue"}
	// SubmitKeywords identify buttons that send the application.
	SubmitKeywords = []string{"submit", "apply", "send application", "submit application", "apply now", "complete application", "finish"}
)

// Navigation holds the classified navigation buttons of a page.
type Navigation struct {
	Next   []dom.Element
	Submit []dom.Element
}

// FormState describes where a multi-step application currently is.
type FormState struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages,omitempty"`
	HasNextPage bool `json:"has_next_page"`
	HasSubmit   bool `json:"has_submit"`
}

// FindNavigationButtons classifies the page's enabled buttons. A button is Next when its
// text has a next-family keyword and no submit-family keyword; it is Submit when its text
// has a submit-family keyword.
func FindNavigationButtons(doc dom.Document) Navigation {
	var nav Navigation
	for _, b := range doc.Query(ButtonSelector) {
		if disabled(b) {
			continue
		}
		text := words(ButtonText(b))
		if text == "" {
			continue
		}
		isSubmit := matchesAny(text, SubmitKeywords)
		switch {
		case isSubmit:
			nav.Submit = append(nav.Submit, b)
		case matchesAny(text, NextKeywords):
			nav.Next = append(nav.Next, b)
		}
	}
	return nav
}

// ButtonText returns the visible caption of a button-like element.
func ButtonText(b dom.Element) string {
	for _, s := range []string{b.Text(), b.Attr("value"), b.Attr("aria-label"), b.Attr("title")} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func disabled(b dom.Element) bool {
	return b.HasAttr("disabled") || strings.EqualFold(b.Attr("aria-disabled"), "true")
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if hasPhrase(text, words(kw)) {
			return true
		}
	}
	return false
}

var primaryMarkers = []string{"primary", "cta", "submit", "main-action"}

// SelectBestButton picks the candidate with the highest score. Longer keyword phrases
// score higher than short ones, an exact caption match adds a bonus, visible buttons and
// primary-styled buttons are preferred. Ties keep the first candidate in document order.
func SelectBestButton(candidates []dom.Element, keywords []string) dom.Element {
	var best dom.Element
	bestScore := -1
	for _, c := range candidates {
		if s := ButtonScore(c, keywords); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

// ButtonScore is the ranking used by SelectBestButton.
func ButtonScore(b dom.Element, keywords []string) int {
	text := words(ButtonText(b))
	score := 0
	for _, kw := range keywords {
		phrase := words(kw)
		if !hasPhrase(text, phrase) {
			continue
		}
		specificity := 10 * len(strings.Fields(phrase))
		if text == phrase {
			specificity += 5
		}
		if specificity > score {
			score = specificity
		}
	}
	if b.Visible() {
		score += 10
	}
	class := strings.ToLower(b.Attr("class"))
	for _, m := range primaryMarkers {
		if strings.Contains(class, m) {
			score += 5
			break
		}
	}
	return score
}

var stepOfRe = regexp.MustCompile(`(?i)step\s+(\d+)\s+(?:of|/)\s+(\d+)`)

// stepSelector matches the active entry of a step indicator.
const stepSelector = `[aria-current="step"], .step.active, .step.current, .progress-step.active, [data-step].active`

// DetectFormState reports the navigation state of the page: the current step (1 when no
// indicator is present), the total when the page states it, and which buttons exist.
func DetectFormState(doc dom.Document) FormState {
	nav := FindNavigationButtons(doc)
	state := FormState{
		CurrentPage: 1,
		HasNextPage: len(nav.Next) > 0,
		HasSubmit:   len(nav.Submit) > 0,
	}

	if steps := doc.Query(stepSelector); len(steps) > 0 {
		active := steps[0]
		pos := 1
		for s := active.PrevSibling(); s != nil; s = s.PrevSibling() {
			if s.Tag() == active.Tag() {
				pos++
			}
		}
		state.CurrentPage = pos
		if p := active.Parent(); p != nil {
			total := 0
			for _, c := range p.Query(active.Tag()) {
				if parent := c.Parent(); parent != nil && parent.Same(p) {
					total++
				}
			}
			state.TotalPages = total
		}
	}

	if bodies := doc.Query("body"); len(bodies) > 0 {
		if m := stepOfRe.FindStringSubmatch(bodies[0].Text()); m != nil {
			cur, _ := strconv.Atoi(m[1])
			total, _ := strconv.Atoi(m[2])
			if cur > 0 {
				state.CurrentPage = cur
			}
			state.TotalPages = total
		}
	}
	return state
}
