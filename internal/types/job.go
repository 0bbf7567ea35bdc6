package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// JobKeywords holds the fixed-list keyword extraction of a job description.
type JobKeywords struct {
	Skills          []string `json:"skills,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"` // entry, mid, senior, lead
	WorkMode        string   `json:"work_mode,omitempty"`        // remote, hybrid, onsite
	EmploymentType  string   `json:"employment_type,omitempty"`  // full-time, part-time, contract, internship
	YearsRequired   int      `json:"years_required,omitempty"`
}

// JobRecord is a normalized job posting extracted from a page. It is immutable once
// produced; a new extraction supersedes it.
type JobRecord struct {
	Title        string      `json:"title"`
	Company      string      `json:"company"`
	Location     string      `json:"location,omitempty"`
	Description  string      `json:"description,omitempty"`
	Requirements string      `json:"requirements,omitempty"`
	Salary       string      `json:"salary,omitempty"`
	Type         string      `json:"type,omitempty"`
	URL          string      `json:"url"`
	Site         string      `json:"site"`
	Keywords     JobKeywords `json:"keywords"`
	ExtractedAt  time.Time   `json:"extracted_at"`
	Hash         string      `json:"hash"` // SHA256 hex digest of the description
}

// ToJSON marshals the record to pretty-printed JSON.
func (j *JobRecord) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job record to JSON: %w", err)
	}
	return jsonBytes, nil
}
