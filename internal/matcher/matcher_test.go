package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-autofill/internal/analyzer"
	"github.com/jonathan/job-autofill/internal/fieldmap"
)

func signature(name, id, label, controlType string, required bool) analyzer.Signature {
	sig := analyzer.Signature{Name: name, ID: id, Label: label, ControlType: controlType, Required: required}
	for _, s := range []string{name, id, label} {
		if s == "" {
			continue
		}
		if sig.Combined != "" {
			sig.Combined += " "
		}
		sig.Combined += toLower(s)
	}
	return sig
}

func toLower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + 'a' - 'A'
		}
	}
	return string(out)
}

func TestMatch_FirstNameScore(t *testing.T) {
	sig := signature("first_name", "", "First Name", "text", true)

	res := Match(sig, fieldmap.Default())

	require.NotNil(t, res)
	assert.Equal(t, fieldmap.FirstName, res.Attribute.Name)
	assert.Equal(t, "first_name", res.Pattern)
	assert.Equal(t, 10+ExactMatchBonus+TypeMatchBonus+RequiredBonus, res.Score)
	assert.Equal(t, 45, res.Score)
}

func TestMatch_Deterministic(t *testing.T) {
	sig := signature("applicant_email", "email-1", "Email address", "email", false)
	table := fieldmap.Default()

	first := Match(sig, table)
	require.NotNil(t, first)
	for i := 0; i < 50; i++ {
		again := Match(sig, table)
		require.NotNil(t, again)
		assert.Equal(t, first.Attribute.Name, again.Attribute.Name)
		assert.Equal(t, first.Score, again.Score)
	}
	assert.Equal(t, fieldmap.Email, first.Attribute.Name)
}

func TestMatch_NoMatch(t *testing.T) {
	assert.Nil(t, Match(signature("captcha_token", "", "Are you human?", "text", false), fieldmap.Default()))
	assert.Nil(t, Match(analyzer.Signature{}, fieldmap.Default()))
}

func TestMatch_SpecificBeatsGeneric(t *testing.T) {
	tests := []struct {
		name string
		sig  analyzer.Signature
		want string
	}{
		{"last name over full name", signature("", "", "Last Name", "text", false), fieldmap.LastName},
		{"reference email over email", signature("", "", "Reference Email", "email", false), fieldmap.ReferenceEmail},
		{"work authorization select", signature("", "", "Are you legally authorized to work in the US?", "select", true), fieldmap.WorkAuth},
		{"sponsorship", signature("", "", "Will you require sponsorship?", "radio", false), fieldmap.RequireSponsorship},
		{"resume upload", signature("resume", "", "Resume/CV", "file", true), fieldmap.Resume},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Match(tt.sig, fieldmap.Default())
			require.NotNil(t, res)
			assert.Equal(t, tt.want, res.Attribute.Name)
		})
	}
}

func TestMatch_TieKeepsFirstAttribute(t *testing.T) {
	table := fieldmap.Table{
		{Name: "a", Patterns: []string{"code"}, Priority: 5},
		{Name: "b", Patterns: []string{"code"}, Priority: 5},
	}

	res := Match(signature("", "", "Promo code", "text", false), table)

	require.NotNil(t, res)
	assert.Equal(t, "a", res.Attribute.Name)
}

func TestScore_Bonuses(t *testing.T) {
	attr := &fieldmap.Attribute{Name: "x", Priority: 7, ControlTypes: []string{"text"}}

	assert.Equal(t, 7, Score(analyzer.Signature{ControlType: "select"}, attr, "zip"))
	assert.Equal(t, 7+TypeMatchBonus, Score(analyzer.Signature{ControlType: "text"}, attr, "zip"))
	assert.Equal(t, 7+ExactMatchBonus, Score(analyzer.Signature{ID: "ZIP", ControlType: "select"}, attr, "zip"))
	assert.Equal(t, 7+RequiredBonus, Score(analyzer.Signature{Required: true}, attr, "zip"))
}
