package filler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-autofill/internal/dom"
)

func TestKind(t *testing.T) {
	doc := parse(t, `
		<input id="a"><input id="b" type="EMAIL"><input id="c" type="radio"><input id="d" type="checkbox">
		<input id="e" type="file"><input id="f" type="hidden"><input id="g" type="submit">
		<textarea id="h"></textarea><select id="i"></select><button id="j">Go</button>`)

	tests := map[string]ControlKind{
		"a": KindText, "b": KindText, "c": KindRadio, "d": KindCheckbox, "e": KindFile,
		"f": KindUnsupported, "g": KindUnsupported, "h": KindTextarea, "i": KindSelect, "j": KindUnsupported,
	}
	for id, want := range tests {
		assert.Equal(t, want, Kind(doc.ByID(id)), id)
	}
}

func TestIdentity(t *testing.T) {
	doc := parse(t, `<input id="e" type="Email" name="email" placeholder="you@example.com">`)
	assert.Equal(t, "input|email|email|e|you@example.com", Identity(doc.ByID("e")))
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"true", "Yes", " 1 ", "on", "enabled", "Authorized", "checked"} {
		assert.True(t, Truthy(v), v)
	}
	for _, v := range []string{"", "no", "false", "0", "maybe"} {
		assert.False(t, Truthy(v), v)
	}
}

func TestMatchOption(t *testing.T) {
	options := []dom.Option{
		{Index: 0, Text: "Select", Value: ""},
		{Index: 1, Text: "Bachelor of Science", Value: "bs"},
		{Index: 2, Text: "California", Value: "CA"},
		{Index: 3, Text: "Texas", Value: "TX", Disabled: true},
	}

	tests := []struct {
		name      string
		value     string
		wantIndex int
		wantOK    bool
	}{
		{"exact text", "california", 2, true},
		{"exact value", "ca", 2, true},
		{"containment", "Bachelor", 1, true},
		{"fuzzy", "Californa", 2, true},
		{"disabled never matches", "Texas", 0, false},
		{"empty value", "  ", 0, false},
		{"no match", "Ohio", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, ok := MatchOption(options, tt.value)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantIndex, opt.Index)
			}
		})
	}
}

func TestFuzzyRatio(t *testing.T) {
	assert.InDelta(t, 1.0, FuzzyRatio("New-York", "new york"), 1e-9)
	assert.InDelta(t, 0.8, FuzzyRatio("Californa", "California"), 1e-9)
	assert.InDelta(t, 0.0, FuzzyRatio("", ""), 1e-9)
	assert.InDelta(t, 0.0, FuzzyRatio("abc", "xyz"), 1e-9)
}
