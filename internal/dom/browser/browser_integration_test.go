//go:build integration

package browser_test

import (
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-autofill/internal/autofill"
	"github.com/jonathan/job-autofill/internal/dom"
	"github.com/jonathan/job-autofill/internal/dom/browser"
	"github.com/jonathan/job-autofill/internal/filler"
	"github.com/jonathan/job-autofill/internal/types"
)

// These tests drive a real headless Chrome. They are skipped when no Chrome binary is found.

const formPage = `<!DOCTYPE html>
<html><head><title>Apply</title></head><body>
<form id="application">
  <label for="first">First Name</label><input id="first" name="first_name">
  <label for="email">Email</label><input id="email" type="email" name="email">
  <label for="country">Country</label>
  <select id="country" name="country">
    <option value="">Select...</option>
    <option value="ca">Canada</option>
    <option value="us">United States</option>
  </select>
</form>
<script>
  window.changes = 0;
  document.getElementById('first').addEventListener('change', function () { window.changes++; });
</script>
</body></html>`

func openTestPage(t *testing.T) *browser.Document {
	t.Helper()
	found := false
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			found = true
			break
		}
	}
	if !found {
		t.Skip("Chrome not installed, skipping browser integration test")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(formPage))
	}))
	t.Cleanup(srv.Close)

	opts := browser.DefaultOptions()
	opts.Timeout = 30 * time.Second
	doc, release, err := browser.Open(t.Context(), srv.URL, opts)
	require.NoError(t, err)
	t.Cleanup(release)
	return doc
}

func TestIntegration_ElementAccessors(t *testing.T) {
	doc := openTestPage(t)

	assert.Equal(t, "Apply", doc.Title())
	first := doc.ByID("first")
	require.NotNil(t, first)
	assert.Equal(t, "input", first.Tag())
	assert.Equal(t, "first_name", first.Attr("name"))
	assert.True(t, first.Visible())

	country := doc.ByID("country")
	require.NotNil(t, country)
	opts := country.Options()
	require.Len(t, opts, 3)
	assert.Equal(t, "United States", opts[2].Text)

	require.NoError(t, country.SelectIndex(2))
	assert.Equal(t, "us", country.Value())

	require.NoError(t, first.Mark(dom.IndicatorFilled))
	assert.Equal(t, "filled", first.Attr("data-autofill-state"))
	assert.Nil(t, doc.ByID("missing"))
}

func TestIntegration_AutofillLivePage(t *testing.T) {
	doc := openTestPage(t)
	o := autofill.New(&autofill.Config{}, filler.New(&filler.Options{}))

	result, err := o.Start(t.Context(), doc, &types.Profile{
		FirstName: "Jane",
		Email:     "jane@example.com",
		Country:   "United States",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.FieldsFound)
	assert.Equal(t, 3, result.FieldsFilled)
	assert.Equal(t, "Jane", doc.ByID("first").Value())
	assert.Equal(t, "us", doc.ByID("country").Value())

	var changes int
	require.NoError(t, doc.Run(chromedp.Evaluate("window.changes", &changes)))
	assert.Equal(t, 1, changes, "page listeners observe the change event")
}
