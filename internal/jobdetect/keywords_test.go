package jobdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords_Skills(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"We write Go and golang tooling", []string{"Go"}},
		{"Let's go to market", nil},
		{"JavaScript only", []string{"JavaScript"}},
		{"Java and JavaScript", []string{"Java", "JavaScript"}},
		{"C++ or C# developers", []string{"C++", "C#"}},
		{"k8s, Terraform and AWS", []string{"Kubernetes", "Terraform", "AWS"}},
		{"React.js with Node.js", []string{"React", "Node.js"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.text).Skills)
		})
	}
}

func TestExtractKeywords_Classification(t *testing.T) {
	tests := []struct {
		text       string
		level      string
		mode       string
		employment string
		years      int
	}{
		{"Senior Staff Engineer", "lead", "", "", 0},
		{"Jr. Developer, on-site", "entry", "onsite", "", 0},
		{"Mid-level engineer, hybrid with 2 remote days", "mid", "hybrid", "", 0},
		{"Contract role, work from home", "", "remote", "contract", 0},
		{"Summer Internship", "", "", "internship", 0},
		{"Part-time, 3-5 years of professional experience", "", "", "part-time", 3},
		{"10+ years experience required", "", "", "", 10},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			kw := ExtractKeywords(tt.text)
			assert.Equal(t, tt.level, kw.ExperienceLevel)
			assert.Equal(t, tt.mode, kw.WorkMode)
			assert.Equal(t, tt.employment, kw.EmploymentType)
			assert.Equal(t, tt.years, kw.YearsRequired)
		})
	}
}

func TestExperienceLevel(t *testing.T) {
	assert.Equal(t, "senior", ExperienceLevel("Sr. Backend Engineer"))
	assert.Equal(t, "lead", ExperienceLevel("Principal Engineer"))
	assert.Empty(t, ExperienceLevel("Software Engineer"))
}
