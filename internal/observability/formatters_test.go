package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/job-autofill/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintFillResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.FillResult{
		Attempt:      1,
		Success:      true,
		FormsFound:   1,
		FieldsFound:  3,
		FieldsFilled: 2,
		FieldsFailed: 1,
		SuccessRate:  66.7,
		Message:      "Filled 2 of 3 fields (67%)",
		Fields: []types.FieldOutcome{
			{Identity: "input|text|first_name||", Attribute: "firstName", Status: types.FieldFilled},
			{Identity: "input|email||email|", Attribute: "email", Status: types.FieldFilled},
			{Identity: "select|select|country||", Attribute: "country", Status: types.FieldFailed, Error: "no matching option"},
		},
	}

	p.PrintFillResult(result)
	output := buf.String()

	assert.Contains(t, output, "AUTOFILL RESULT")
	assert.Contains(t, output, "3 found, 2 filled, 1 failed")
	assert.Contains(t, output, "66.7%")
	assert.Contains(t, output, "✓ first_name → firstName")
	assert.Contains(t, output, "✓ email → email")
	assert.Contains(t, output, "✗ country → country")
	assert.NotContains(t, output, "nothing filled")
}

func TestPrintFillResult_NothingFilled(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFillResult(&types.FillResult{Message: "No application forms found on this page"})

	assert.Contains(t, buf.String(), "nothing filled")
	assert.Contains(t, buf.String(), "No application forms found")
}

func TestPrintFillResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFillResult(nil)

	assert.Empty(t, buf.String())
}

func TestPrintJobRecord(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	job := &types.JobRecord{
		Title:    "Senior Engineer",
		Company:  "Acme Corp",
		Location: "Remote",
		Site:     "greenhouse",
		Keywords: types.JobKeywords{
			Skills:          []string{"Go", "Kubernetes", "SQL", "AWS", "Docker", "Terraform"},
			ExperienceLevel: "senior",
			WorkMode:        "remote",
			YearsRequired:   5,
		},
	}

	p.PrintJobRecord(job)
	output := buf.String()

	assert.Contains(t, output, "DETECTED JOB POSTING")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "Senior Engineer")
	assert.Contains(t, output, "senior, remote, 5+ years")
	assert.Contains(t, output, "Kubernetes")
	assert.Contains(t, output, "... and 1 more")
	assert.NotContains(t, output, "Terraform")
}

func TestPrintJobRecord_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobRecord(nil)

	assert.Empty(t, buf.String())
}

func TestPrintFieldMatches(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFieldMatches([]FieldMatch{
		{Field: "email", Attribute: "email", Pattern: "email", Score: 49},
		{Field: "captcha"},
	})
	output := buf.String()

	assert.Contains(t, output, "FIELD MATCHES")
	assert.Contains(t, output, "Matched 1 of 2 fields")
	assert.Contains(t, output, `email via "email", score 49`)
	assert.Contains(t, output, "(no match)")
}

func TestPrintFieldMatches_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFieldMatches(nil)

	assert.Empty(t, buf.String())
}

func TestPrintMatchScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchScore(82, []string{"Go", "SQL"}, []string{"Rust"}, "Strong backend fit.")
	output := buf.String()

	assert.Contains(t, output, "MATCH SCORE")
	assert.Contains(t, output, "82/100")
	assert.Contains(t, output, "Go, SQL")
	assert.Contains(t, output, "Rust")
	assert.Contains(t, output, "Strong backend fit.")
}

func TestPrintBox_ClipsLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}
