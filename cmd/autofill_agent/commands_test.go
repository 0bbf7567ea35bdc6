package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-autofill/internal/config"
	"github.com/jonathan/job-autofill/internal/dom/htmldom"
	"github.com/jonathan/job-autofill/internal/observability"
	"github.com/jonathan/job-autofill/internal/settings"
	"github.com/jonathan/job-autofill/internal/types"
)

const applicationPage = `<!DOCTYPE html>
<html><head><title>Apply</title></head>
<body>
<form id="application" action="/apply">
  <label for="first_name">First Name</label>
  <input type="text" id="first_name" name="first_name">
  <label for="last_name">Last Name</label>
  <input type="text" id="last_name" name="last_name">
  <label for="email">Email</label>
  <input type="email" id="email" name="email" required>
  <label for="phone">Phone</label>
  <input type="tel" id="phone" name="phone" maxlength="14">
  <button type="submit">Submit Application</button>
</form>
</body></html>`

const jobPage = `<!DOCTYPE html>
<html><head><title>Senior Go Engineer - Acme</title></head>
<body>
<h1 class="job-title">Senior Go Engineer</h1>
<div class="company-name">Acme</div>
<div class="job-location">Remote, US</div>
<div class="job-description">
  We are hiring a senior engineer to build distributed services in Go and PostgreSQL.
  You will own APIs end to end and mentor other engineers. This is a full-time remote role.
  Requirements: 5+ years of experience with Go, Kubernetes and SQL.
</div>
<a href="/apply">Apply now</a>
</body></html>`

const profileJSON = `{
  "firstName": "Jane",
  "lastName": "Doe",
  "email": "jane@example.com",
  "phone": "5551234567"
}`

func TestFillCommand_FillsSavedPage(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	pagePath := writeFile(t, dir, "apply.html", applicationPage)
	profilePath := writeFile(t, dir, "profile.json", profileJSON)
	outPath := filepath.Join(dir, "out", "filled.html")
	reportPath := filepath.Join(dir, "out", "report.json")

	output, err := execute(t, "fill", "--page", pagePath, "--profile", profilePath, "--out", outPath, "--report", reportPath)
	require.NoError(t, err)
	assert.Contains(t, output, "AUTOFILL RESULT")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var result types.FillResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.FormsFound)
	assert.Equal(t, 4, result.FieldsFound)
	assert.Equal(t, 4, result.FieldsFilled)
	assert.Equal(t, 0, result.FieldsFailed)
	assert.Equal(t, 100.0, result.SuccessRate)
	assert.Empty(t, result.Navigation, "auto navigation is off by default")

	filled, err := os.ReadFile(outPath)
	require.NoError(t, err)
	html := string(filled)
	assert.Contains(t, html, `value="Jane"`)
	assert.Contains(t, html, `value="Doe"`)
	assert.Contains(t, html, `value="jane@example.com"`)
	assert.Contains(t, html, `value="(555) 123-4567"`)
	assert.Contains(t, html, `data-autofill-state="filled"`)
}

func TestFillCommand_PageContextOutlivesLoad(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	profilePath := writeFile(t, dir, "profile.json", profileJSON)

	var (
		released   bool
		releaseErr error
	)
	orig := pageLoader
	t.Cleanup(func() { pageLoader = orig })
	pageLoader = func(ctx context.Context, _ *config.Config, _, _ string) (*page, error) {
		doc, err := htmldom.ParseString(applicationPage, "https://example.com/apply")
		if err != nil {
			return nil, err
		}
		// A browser tab dies with its context; the page must still be usable at release.
		return &page{doc: doc, mem: doc, release: func() {
			released = true
			releaseErr = ctx.Err()
		}}, nil
	}

	output, err := execute(t, "fill", "--page", "tab", "--profile", profilePath)
	require.NoError(t, err)
	assert.Contains(t, output, "AUTOFILL RESULT")
	assert.True(t, released)
	assert.NoError(t, releaseErr, "page context was cancelled before the fill finished")
}

func TestFillCommand_WritesCoverLetterForJob(t *testing.T) {
	isolateEnv(t)
	var got types.JobRecord
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/cover-letter" || r.Header.Get("Authorization") != "Bearer opaque-token" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"coverLetter":"Dear Acme team"}`)
	}))
	defer apiServer.Close()

	form := `<form id="application">
  <label for="first_name">First Name</label><input type="text" id="first_name" name="first_name">
  <label for="letter">Cover Letter</label><textarea id="letter" name="cover_letter"></textarea>
  <button type="submit">Submit Application</button>
</form>`
	dir := t.TempDir()
	pagePath := writeFile(t, dir, "job.html", strings.Replace(jobPage, `<a href="/apply">Apply now</a>`, form, 1))
	profilePath := writeFile(t, dir, "profile.json", profileJSON)
	outPath := filepath.Join(dir, "filled.html")

	_, err := execute(t, "fill", "--page", pagePath, "--profile", profilePath, "--api-url", apiServer.URL, "--api-token", "opaque-token", "--out", outPath)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", got.Title)

	filled, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(filled), "Dear Acme team")
}

func TestFillCommand_SubmitFromSettings(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	pagePath := writeFile(t, dir, "apply.html", applicationPage)
	profilePath := writeFile(t, dir, "profile.json", profileJSON)
	reportPath := filepath.Join(dir, "report.json")

	_, err := execute(t, "settings", "set", settings.KeyAutoSubmit, "true")
	require.NoError(t, err)

	_, err = execute(t, "fill", "--page", pagePath, "--profile", profilePath, "--report", reportPath)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var result types.FillResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "submit", result.Navigation)
}

func TestFillCommand_MissingProfile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	pagePath := writeFile(t, dir, "apply.html", applicationPage)

	_, err := execute(t, "fill", "--page", pagePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profile")
}

func TestFillCommand_RequiresPage(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "fill")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestFillCommand_OutWithBrowser(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "fill", "--page", "x.html", "--use-browser", "--out", "y.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--out is not available")
}

func TestMatchCommand(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	pagePath := writeFile(t, dir, "apply.html", applicationPage)

	output, err := execute(t, "match", "--page", pagePath)
	require.NoError(t, err)
	assert.Contains(t, output, "Matched 4 of 4 fields")
	assert.Contains(t, output, "firstName")
	assert.Contains(t, output, "phone")
}

func TestDetectCommand_SavedPage(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	pagePath := writeFile(t, dir, "job.html", jobPage)
	outPath := filepath.Join(dir, "job.json")

	output, err := execute(t, "detect", "--page", pagePath, "--page-url", "https://careers.acme.com/jobs/42", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, output, "DETECTED JOB POSTING")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var job types.JobRecord
	require.NoError(t, json.Unmarshal(data, &job))
	assert.Equal(t, "Senior Go Engineer", job.Title)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "careers.acme.com", job.Site)
	assert.Equal(t, "https://careers.acme.com/jobs/42", job.URL)
	assert.Contains(t, job.Keywords.Skills, "Go")
	assert.Equal(t, "senior", job.Keywords.ExperienceLevel)
	assert.Len(t, job.Hash, 64)
}

func TestDetectCommand_NotAJob(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	pagePath := writeFile(t, dir, "apply.html", `<html><body><p>Hello</p></body></html>`)

	output, err := execute(t, "detect", "--page", pagePath)
	require.NoError(t, err)
	assert.Contains(t, output, "No job posting detected")
}

func TestDetectJob_RemotePageIsCached(t *testing.T) {
	isolateEnv(t)
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, jobPage)
	}))
	defer server.Close()

	store := settings.NewMemoryStore()
	cfg := &config.Config{}

	job, err := detectJob(t.Context(), cfg, store, server.URL+"/jobs/1", "", false)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "Senior Go Engineer", job.Title)

	_, err = detectJob(t.Context(), cfg, store, server.URL+"/jobs/1", "", false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	_, err = detectJob(t.Context(), cfg, store, server.URL+"/jobs/1", "", true)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestWatcher_AnalyzesLastURLOfBurst(t *testing.T) {
	isolateEnv(t)
	var (
		mu        sync.Mutex
		requested []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requested = append(requested, r.URL.Path)
		mu.Unlock()
		_, _ = fmt.Fprint(w, jobPage)
	}))
	defer server.Close()

	store := settings.NewMemoryStore()
	require.NoError(t, settings.Save(t.Context(), store, settings.KeyAnalyzedURLs, []string{server.URL + "/jobs/seen"}))

	var out strings.Builder
	w := &watcher{
		ctx:     t.Context(),
		cfg:     &config.Config{DebounceMS: 60000},
		store:   store,
		printer: observability.NewPrinter(&out),
		out:     &out,
	}
	in := strings.Join([]string{
		server.URL + "/jobs/1",
		"",
		server.URL + "/jobs/2",
		server.URL + "/jobs/seen",
	}, "\n")
	require.NoError(t, w.run(strings.NewReader(in)))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/jobs/2"}, requested)
	assert.Contains(t, out.String(), "Detected 1 job posting(s)")

	var analyzed []string
	require.NoError(t, settings.Load(t.Context(), store, settings.KeyAnalyzedURLs, &analyzed))
	assert.ElementsMatch(t, []string{server.URL + "/jobs/2", server.URL + "/jobs/seen"}, analyzed)
}

func TestWatchCommand_Disabled(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "settings", "set", settings.KeyAutoDetect, "false")
	require.NoError(t, err)

	output, err := execute(t, "watch", "--urls", filepath.Join(t.TempDir(), "missing.txt"))
	require.NoError(t, err)
	assert.Contains(t, output, "disabled")
}

func TestValidateProfileCommand(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	valid := writeFile(t, dir, "valid.json", profileJSON)
	output, err := execute(t, "validate-profile", "--profile", valid)
	require.NoError(t, err)
	assert.Contains(t, output, "is valid: Jane Doe")

	invalid := writeFile(t, dir, "invalid.json", `{"email": "nope", "workAuthorization": "maybe"}`)
	output, err = execute(t, "validate-profile", "--profile", invalid)
	require.Error(t, err)
	assert.Contains(t, output, "2 problem(s)")
	assert.Contains(t, output, "workAuthorization")

	_, err = execute(t, "validate-profile", "--profile", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile file not found")

	malformed := writeFile(t, dir, "malformed.json", `{"firstName": `)
	_, err = execute(t, "validate-profile", "--profile", malformed)
	require.Error(t, err)
	assert.NotEqual(t, "profile validation failed", err.Error())
}

func TestSettingsCommands(t *testing.T) {
	isolateEnv(t)

	output, err := execute(t, "settings", "get", settings.KeyAutoNavigate)
	require.NoError(t, err)
	assert.Equal(t, "null\n", output)

	_, err = execute(t, "settings", "set", settings.KeyAutoNavigate, "true")
	require.NoError(t, err)

	output, err = execute(t, "settings", "get", settings.KeyAutoNavigate)
	require.NoError(t, err)
	assert.Equal(t, "true\n", output)

	_, err = execute(t, "settings", "set", settings.KeyAutoNavigate, "yes please")
	require.Error(t, err)

	_, err = execute(t, "settings", "delete", settings.KeyAutoNavigate)
	require.NoError(t, err)

	output, err = execute(t, "settings", "get", settings.KeyAutoNavigate)
	require.NoError(t, err)
	assert.Equal(t, "null\n", output)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	profilePath := writeFile(t, dir, "profile.json", profileJSON)
	cfgPath := writeFile(t, dir, "config.json", `{"api_url": "https://file.example.com", "field_delay_ms": 250}`)
	t.Setenv("AUTOFILL_API_URL", "https://env.example.com")

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })
	require.NoError(t, rootCmd.ParseFlags([]string{"--config", cfgPath, "--profile", profilePath}))

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.APIURL)
	assert.Equal(t, profilePath, cfg.Profile)
	assert.Equal(t, 250, cfg.FieldDelayMS)
	assert.Equal(t, config.Defaults().MaxAttempts, cfg.MaxAttempts)
}

func TestFileResume(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Jane_Doe_CV.pdf", "%PDF-1.4")

	name, data, err := fileResume{path: path}.Resume(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Jane_Doe_CV.pdf", name)
	assert.Equal(t, []byte("%PDF-1.4"), data)

	_, _, err = fileResume{path: filepath.Join(dir, "missing.pdf")}.Resume(t.Context())
	assert.Error(t, err)
}
