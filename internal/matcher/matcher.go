// Package matcher picks the profile attribute that best explains a field signature.
package matcher

import (
	"strings"

	"github.com/jonathan/job-autofill/internal/analyzer"
	"github.com/jonathan/job-autofill/internal/fieldmap"
)

// Score bonuses added on top of an attribute's priority.
const (
	ExactMatchBonus = 20
	TypeMatchBonus  = 10
	RequiredBonus   = 5
)

// Result is the best-scoring attribute for a signature.
type Result struct {
	Attribute *fieldmap.Attribute
	Pattern   string
	Score     int
}

// Match scans every pattern of every attribute in table order and returns the highest
// scoring containment match, or nil when no pattern is contained in the signature.
// Ties keep the attribute seen first.
func Match(sig analyzer.Signature, table fieldmap.Table) *Result {
	var best *Result
	for i := range table {
		attr := &table[i]
		for _, pattern := range attr.Patterns {
			if pattern == "" || !strings.Contains(sig.Combined, pattern) {
				continue
			}
			score := Score(sig, attr, pattern)
			if best == nil || score > best.Score {
				best = &Result{Attribute: attr, Pattern: pattern, Score: score}
			}
		}
	}
	return best
}

// Score computes priority + exact name/id bonus + control type bonus + required bonus
// for a pattern already known to be contained in the signature.
func Score(sig analyzer.Signature, attr *fieldmap.Attribute, pattern string) int {
	score := attr.Priority
	if strings.EqualFold(sig.Name, pattern) || strings.EqualFold(sig.ID, pattern) {
		score += ExactMatchBonus
	}
	if attr.Accepts(sig.ControlType) {
		score += TypeMatchBonus
	}
	if sig.Required {
		score += RequiredBonus
	}
	return score
}
