package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRecord_ToJSON(t *testing.T) {
	job := &JobRecord{
		Title:       "Go Engineer",
		Company:     "Acme",
		URL:         "https://acme.com/jobs/1",
		Site:        "acme.com",
		Keywords:    JobKeywords{Skills: []string{"Go"}, WorkMode: "remote"},
		ExtractedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Hash:        "abc",
	}

	data, err := job.ToJSON()
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "2026-01-02T03:04:05Z", fields["extracted_at"])
	assert.NotContains(t, fields, "salary", "empty optional fields are omitted")
	assert.Equal(t, map[string]any{"skills": []any{"Go"}, "work_mode": "remote"}, fields["keywords"])
}

func TestFillResult_JSON(t *testing.T) {
	data, err := json.Marshal(FillResult{
		FieldsFound: 2,
		Fields:      []FieldOutcome{{Identity: "input|text|a||", Status: FieldNoMatch}},
	})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.EqualValues(t, 2, fields["fields_found"])
	assert.NotContains(t, fields, "navigation")
	assert.Equal(t, "no_match", fields["fields"].([]any)[0].(map[string]any)["status"])
}
