// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-autofill/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most n runes, ending in "..." when cut.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintFillResult outputs the counts of an autofill pass and the outcome of each field.
func (p *Printer) PrintFillResult(result *types.FillResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Attempt:  %d\n", result.Attempt))
	sb.WriteString(fmt.Sprintf("Forms:    %d\n", result.FormsFound))
	sb.WriteString(fmt.Sprintf("Fields:   %d found, %d filled, %d failed, %d skipped\n",
		result.FieldsFound, result.FieldsFilled, result.FieldsFailed, result.FieldsSkipped))
	sb.WriteString(fmt.Sprintf("Rate:     %.1f%%\n", result.SuccessRate))
	if result.Navigation != "" {
		sb.WriteString(fmt.Sprintf("Clicked:  %s\n", result.Navigation))
	}
	sb.WriteString(result.Message)

	if len(result.Fields) > 0 {
		sb.WriteString("\n\n")
		for i, f := range result.Fields {
			sb.WriteString(fmt.Sprintf("%s %s", statusMark(f.Status), fieldName(f)))
			if f.Attribute != "" {
				sb.WriteString(fmt.Sprintf(" → %s", f.Attribute))
			}
			if f.Error != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", f.Error))
			}
			if i < len(result.Fields)-1 {
				sb.WriteString("\n")
			}
		}
	}

	title := "AUTOFILL RESULT"
	if !result.Success {
		title = "AUTOFILL RESULT (nothing filled)"
	}
	p.printBox(title, sb.String())
}

func statusMark(s types.FieldStatus) string {
	switch s {
	case types.FieldFilled:
		return "✓"
	case types.FieldFailed:
		return "✗"
	case types.FieldDuplicate:
		return "="
	default:
		return "·"
	}
}

// fieldName shortens an identity (tag|type|name|id|placeholder) to its most readable part.
func fieldName(f types.FieldOutcome) string {
	parts := strings.Split(f.Identity, "|")
	for _, i := range []int{2, 3, 4} {
		if i < len(parts) && parts[i] != "" {
			return parts[i]
		}
	}
	return f.Identity
}

// PrintJobRecord outputs a human-readable summary of an extracted job posting.
func (p *Printer) PrintJobRecord(job *types.JobRecord) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", job.Title))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", job.Company))
	if job.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", job.Location))
	}
	if job.Salary != "" {
		sb.WriteString(fmt.Sprintf("Salary:   %s\n", job.Salary))
	}
	sb.WriteString(fmt.Sprintf("Site:     %s\n", job.Site))

	kw := job.Keywords
	var tags []string
	for _, t := range []string{kw.ExperienceLevel, kw.WorkMode, kw.EmploymentType} {
		if t != "" {
			tags = append(tags, t)
		}
	}
	if kw.YearsRequired > 0 {
		tags = append(tags, fmt.Sprintf("%d+ years", kw.YearsRequired))
	}
	if len(tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags:     %s\n", strings.Join(tags, ", ")))
	}

	if len(kw.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		count := min(len(kw.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", kw.Skills[i]))
		}
		if len(kw.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(kw.Skills)-maxItemsToShow))
		}
	}

	p.printBox("DETECTED JOB POSTING", strings.TrimSuffix(sb.String(), "\n"))
}

// FieldMatch is one row of a field-to-attribute report.
type FieldMatch struct {
	Field     string `json:"field"`
	Attribute string `json:"attribute,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	Score     int    `json:"score,omitempty"`
}

// PrintFieldMatches outputs how each discovered field was matched to a profile attribute.
func (p *Printer) PrintFieldMatches(matches []FieldMatch) {
	if len(matches) == 0 {
		return
	}

	var sb strings.Builder
	matched := 0
	for _, m := range matches {
		if m.Attribute != "" {
			matched++
		}
	}
	sb.WriteString(fmt.Sprintf("Matched %d of %d fields:\n\n", matched, len(matches)))

	for i, m := range matches {
		if m.Attribute == "" {
			sb.WriteString(fmt.Sprintf("· %s\n  (no match)", m.Field))
		} else {
			sb.WriteString(fmt.Sprintf("✓ %s\n  %s via %q, score %d", m.Field, m.Attribute, m.Pattern, m.Score))
		}
		if i < len(matches)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("FIELD MATCHES", sb.String())
}

// PrintMatchScore outputs the service's fit assessment for a job.
func (p *Printer) PrintMatchScore(score int, matched, missing []string, summary string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:    %d/100\n", score))
	if len(matched) > 0 {
		sb.WriteString(fmt.Sprintf("Matched:  %s\n", strings.Join(matched, ", ")))
	}
	if len(missing) > 0 {
		sb.WriteString(fmt.Sprintf("Missing:  %s\n", strings.Join(missing, ", ")))
	}
	if summary != "" {
		sb.WriteString("\n" + summary)
	}

	p.printBox("MATCH SCORE", strings.TrimSuffix(sb.String(), "\n"))
}
