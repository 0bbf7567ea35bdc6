package jobdetect

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-autofill/internal/dom/htmldom"
	"github.com/jonathan/job-autofill/internal/schemas"
)

const postingBody = `
<h1 class="job-title">Senior Go Engineer</h1>
<div class="company-name">Acme</div>
<div class="job-location">Remote, US</div>
<div class="salary">$150,000 - $180,000</div>
<div class="job-description">
  We are hiring a senior engineer to build distributed services.
  You will own APIs end to end and mentor other engineers. This is a full-time remote role.
  Requirements: 5+ years of experience with Go, Kubernetes and PostgreSQL.
</div>
<a class="apply" href="/apply">Apply now</a>`

func page(t *testing.T, pageURL, head, body string) *htmldom.Document {
	t.Helper()
	doc, err := htmldom.ParseString("<html><head>"+head+"</head><body>"+body+"</body></html>", pageURL)
	require.NoError(t, err)
	return doc
}

func TestDetect(t *testing.T) {
	longDescription := `<div class="job-description">` + strings.Repeat("Build and operate services. ", 6) + `</div>`

	tests := []struct {
		name string
		url  string
		body string
		want bool
	}{
		{"generic posting", "https://careers.acme.com/jobs/42", postingBody, true},
		{"title and description", "https://careers.acme.com/jobs/42", `<h2 class="jobTitle">Designer</h2>` + longDescription, true},
		{"h1 with apply and description", "https://acme.com/careers/1", `<h1>Designer</h1><button>Apply</button>` + longDescription, true},
		{"h1 with apply only", "https://acme.com/welcome", `<h1>Welcome</h1><a href="/apply">Apply for a card</a>`, false},
		{"blog post", "https://acme.com/blog/1", `<h1>Our new office</h1><p>We moved.</p>`, false},
		{"greenhouse posting", "https://boards.greenhouse.io/acme/jobs/123", `<div id="app_body"><h1 class="app-title">Engineer</h1></div>`, true},
		{"greenhouse board index", "https://boards.greenhouse.io/acme", `<div id="app_body"><h1 class="app-title">Open roles</h1></div>`, false},
		{"linkedin view", "https://www.linkedin.com/jobs/view/123", `<div class="jobs-unified-top-card"><h1>Engineer</h1></div>`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(page(t, tt.url, "", tt.body)))
		})
	}
}

func TestExtract_GenericSite(t *testing.T) {
	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	doc := page(t, "https://careers.acme.com/jobs/42", "<title>Senior Go Engineer - Acme</title>", postingBody)

	job := Extract(doc, now)

	assert.Equal(t, "Senior Go Engineer", job.Title)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "Remote, US", job.Location)
	assert.Equal(t, "$150,000 - $180,000", job.Salary)
	assert.Equal(t, "5+ years of experience with Go, Kubernetes and PostgreSQL.", job.Requirements)
	assert.Equal(t, "full-time", job.Type)
	assert.Equal(t, "https://careers.acme.com/jobs/42", job.URL)
	assert.Equal(t, "careers.acme.com", job.Site)
	assert.Equal(t, now, job.ExtractedAt)
	assert.True(t, strings.HasPrefix(job.Description, "We are hiring a senior engineer"))
	assert.NotContains(t, job.Description, "\n")

	sum := sha256.Sum256([]byte(job.Description))
	assert.Equal(t, hex.EncodeToString(sum[:]), job.Hash)

	assert.Equal(t, []string{"Go", "PostgreSQL", "Kubernetes"}, job.Keywords.Skills)
	assert.Equal(t, "senior", job.Keywords.ExperienceLevel)
	assert.Equal(t, "remote", job.Keywords.WorkMode)
	assert.Equal(t, "full-time", job.Keywords.EmploymentType)
	assert.Equal(t, 5, job.Keywords.YearsRequired)

	data, err := job.ToJSON()
	require.NoError(t, err)
	assert.NoError(t, schemas.ValidateJobRecord(data))
}

func TestExtract_Fallbacks(t *testing.T) {
	doc := page(t, "https://www.acme.com/careers/staff",
		`<title>Staff Engineer | Acme</title><meta property="og:site_name" content="Acme Corp">`,
		`<article>Join us. Pay: $120k - $150k per year. Hybrid in Austin.</article>`)

	job := Extract(doc, time.Now())

	assert.Equal(t, "Staff Engineer", job.Title)
	assert.Equal(t, "Acme Corp", job.Company)
	assert.Equal(t, "$120k - $150k", job.Salary)
	assert.Equal(t, "acme.com", job.Site)
	assert.Equal(t, "lead", job.Keywords.ExperienceLevel, "title level wins")
	assert.Equal(t, "hybrid", job.Keywords.WorkMode)
	assert.Empty(t, job.Requirements)
}

func TestExtract_KnownPlatform(t *testing.T) {
	doc := page(t, "https://boards.greenhouse.io/acme/jobs/123", "", `
		<div id="app_body">
			<h1 class="app-title">Backend Engineer</h1>
			<span class="company-name">Acme</span>
			<div class="location">New York, NY</div>
			<div id="content">Work on Python and Redis services.</div>
		</div>`)

	job := Extract(doc, time.Now())

	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "New York, NY", job.Location)
	assert.Equal(t, "Work on Python and Redis services.", job.Description)
	assert.Equal(t, "greenhouse", job.Site)
	assert.Equal(t, []string{"Python", "Redis"}, job.Keywords.Skills)
}

func TestExtract_Truncates(t *testing.T) {
	doc := page(t, "https://acme.com/jobs/1", "",
		`<h1 class="job-title">`+strings.Repeat("T", 300)+`</h1>`+
			`<div class="job-description">`+strings.Repeat("é", 6000)+`</div>`)

	job := Extract(doc, time.Now())

	assert.Len(t, []rune(job.Title), MaxShortField)
	assert.Len(t, []rune(job.Description), MaxDescription)
}
