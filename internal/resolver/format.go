package resolver

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FormatPhone reduces a phone number to digits and shapes it for the field. A pattern
// picks the first of "(xxx) xxx-xxxx", "xxx-xxx-xxxx" and raw digits it accepts;
// otherwise maxLength 14 gives the parenthesized shape and 12 the dashed one.
// Numbers that are not ten digits (after dropping a leading US country code) stay raw.
func FormatPhone(raw string, maxLength int, pattern string) string {
	var sb strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	digits := sb.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return digits
	}

	paren := fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
	dashed := fmt.Sprintf("%s-%s-%s", digits[:3], digits[3:6], digits[6:])
	if pattern != "" {
		// HTML patterns match the whole value.
		if re, err := regexp.Compile(`^(?:` + pattern + `)$`); err == nil {
			for _, shape := range []string{paren, dashed, digits} {
				if re.MatchString(shape) {
					return shape
				}
			}
		} else if strings.Contains(pattern, `\(`) {
			return paren
		}
	}

	switch maxLength {
	case 14:
		return paren
	case 12:
		return dashed
	default:
		return digits
	}
}

// ExperienceBucket returns the range label used by select controls for a number of years.
func ExperienceBucket(years float64) string {
	switch {
	case years < 1:
		return "0-1 years"
	case years < 3:
		return "1-3 years"
	case years < 5:
		return "3-5 years"
	case years < 10:
		return "5-10 years"
	default:
		return "10+ years"
	}
}

// FormatYears renders a year count for free-text controls.
func FormatYears(years float64) string {
	if years == math.Trunc(years) {
		return strconv.Itoa(int(years))
	}
	return strconv.FormatFloat(years, 'f', 1, 64)
}

var (
	rangeRe    = regexp.MustCompile(`(\d+)\s*(?:-|–|to)\s*(\d+)`)
	plusRe     = regexp.MustCompile(`(\d+)\s*\+`)
	lessThanRe = regexp.MustCompile(`(?:less than|under|<)\s*(\d+)`)
	singleRe   = regexp.MustCompile(`^\D*(\d+)\D*$`)
)

// yearsRange parses an option label like "3-5 years", "10+ years" or "Less than 1 year"
// into a half-open [lo, hi) interval.
func yearsRange(label string) (lo, hi float64, ok bool) {
	l := strings.ToLower(label)
	if m := rangeRe.FindStringSubmatch(l); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		return float64(a), float64(b), true
	}
	if m := plusRe.FindStringSubmatch(l); m != nil {
		a, _ := strconv.Atoi(m[1])
		return float64(a), math.Inf(1), true
	}
	if m := lessThanRe.FindStringSubmatch(l); m != nil {
		b, _ := strconv.Atoi(m[1])
		return 0, float64(b), true
	}
	if m := singleRe.FindStringSubmatch(l); m != nil {
		a, _ := strconv.Atoi(m[1])
		return float64(a), float64(a) + 1, true
	}
	return 0, 0, false
}

// ExperienceChoice picks the option whose label is the bucket for years, else the first
// option whose parsed range contains years.
func ExperienceChoice(choices []Choice, years float64) (Choice, bool) {
	bucket := ExperienceBucket(years)
	for _, c := range choices {
		if strings.EqualFold(strings.TrimSpace(c.Text), bucket) {
			return c, true
		}
	}
	for _, c := range choices {
		if lo, hi, ok := yearsRange(c.Label()); ok && years >= lo && years < hi {
			return c, true
		}
	}
	return Choice{}, false
}
