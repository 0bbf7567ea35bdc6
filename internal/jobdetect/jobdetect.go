// Package jobdetect decides whether a page shows a job posting and extracts a normalized
// job record from it.
package jobdetect

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/job-autofill/internal/discovery"
	"github.com/jonathan/job-autofill/internal/dom"
	"github.com/jonathan/job-autofill/internal/fetch"
	"github.com/jonathan/job-autofill/internal/types"
)

// Field length limits of a JobRecord, in runes.
const (
	MaxShortField    = 200
	MaxRequirements  = 2000
	MaxDescription   = 5000
	minDescriptionLn = 100
)

// Detect reports whether doc displays a job posting. Known boards are recognized by URL
// path and page markers; other sites need a job-title element together with an apply
// button or a description block.
func Detect(doc dom.Document) bool {
	pageURL := doc.URL()
	if rule, ok := siteRules[fetch.DetectPlatform(pageURL)]; ok {
		if pathMatches(pageURL, rule.pathHints) && present(doc, rule.markers) {
			return true
		}
	}

	title := firstText(doc, genericTitle[:len(genericTitle)-1])
	apply := hasApplyButton(doc)
	description := len(firstText(doc, genericDescription[:5])) >= minDescriptionLn
	if title != "" && (apply || description) {
		return true
	}
	return firstText(doc, []string{"h1"}) != "" && apply && description
}

// Extract builds a JobRecord from doc using the platform's selectors first and generic
// selectors after. Every field is whitespace-normalized and truncated.
func Extract(doc dom.Document, now time.Time) *types.JobRecord {
	pageURL := doc.URL()
	platform := fetch.DetectPlatform(pageURL)
	rule := siteRules[platform]

	title := pick(doc, rule.title, genericTitle)
	if title == "" {
		title = titleFromDocument(doc.Title())
	}
	company := pick(doc, rule.company, genericCompany)
	if company == "" {
		company = metaContent(doc, "og:site_name")
	}
	description := pick(doc, rule.description, genericDescription)
	requirements := pick(doc, rule.requirements, genericRequirements)
	if requirements == "" {
		requirements = requirementsSection(description)
	}
	salary := pick(doc, rule.salary, genericSalary)
	if salary == "" {
		salary = salaryRe.FindString(description)
	}

	keywords := ExtractKeywords(strings.Join([]string{title, description, requirements}, "\n"))
	if level := ExperienceLevel(title); level != "" {
		keywords.ExperienceLevel = level
	}
	jobType := pick(doc, rule.jobType, genericJobType)
	if jobType == "" {
		jobType = keywords.EmploymentType
	}

	description = truncate(description, MaxDescription)
	sum := sha256.Sum256([]byte(description))
	return &types.JobRecord{
		Title:        truncate(title, MaxShortField),
		Company:      truncate(company, MaxShortField),
		Location:     truncate(pick(doc, rule.location, genericLocation), MaxShortField),
		Description:  description,
		Requirements: truncate(requirements, MaxRequirements),
		Salary:       truncate(salary, MaxShortField),
		Type:         truncate(jobType, MaxShortField),
		URL:          pageURL,
		Site:         siteName(platform, pageURL),
		Keywords:     keywords,
		ExtractedAt:  now,
		Hash:         hex.EncodeToString(sum[:]),
	}
}

var (
	salaryRe       = regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d+)?[kK]?(?:\s*(?:-|–|to)\s*\$?\s?\d[\d,]*(?:\.\d+)?[kK]?)?`)
	requirementsRe = regexp.MustCompile(`(?i)(requirements|qualifications|what you'll need|what we're looking for)\s*:?`)
	titleSplitRe   = regexp.MustCompile(`\s+[-|–]\s+`)
)

// requirementsSection returns the description text after its requirements heading.
func requirementsSection(description string) string {
	loc := requirementsRe.FindStringIndex(description)
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(description[loc[1]:])
}

func titleFromDocument(title string) string {
	parts := titleSplitRe.Split(title, 2)
	return strings.TrimSpace(parts[0])
}

func siteName(platform fetch.Platform, pageURL string) string {
	if platform != fetch.PlatformUnknown {
		return string(platform)
	}
	if u, err := url.Parse(pageURL); err == nil && u.Hostname() != "" {
		return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	}
	return string(fetch.PlatformUnknown)
}

func pathMatches(pageURL string, hints []string) bool {
	if len(hints) == 0 {
		return true
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	for _, h := range hints {
		if strings.Contains(u.Path, h) {
			return true
		}
	}
	return false
}

func present(doc dom.Document, selectors []string) bool {
	for _, s := range selectors {
		if len(doc.Query(s)) > 0 {
			return true
		}
	}
	return false
}

func hasApplyButton(doc dom.Document) bool {
	for _, b := range doc.Query("a, " + discovery.ButtonSelector) {
		if strings.Contains(strings.ToLower(discovery.ButtonText(b)), "apply") {
			return true
		}
	}
	return false
}

// pick returns the first non-empty text found with the site selectors, then the generic ones.
func pick(doc dom.Document, site, generic []string) string {
	if text := firstText(doc, site); text != "" {
		return text
	}
	return firstText(doc, generic)
}

func firstText(doc dom.Document, selectors []string) string {
	for _, s := range selectors {
		for _, el := range doc.Query(s) {
			text := el.Text()
			if el.Tag() == "img" {
				text = el.Attr("alt")
			}
			if text = dom.NormalizeSpace(text); text != "" {
				return text
			}
		}
	}
	return ""
}

func metaContent(doc dom.Document, property string) string {
	for _, m := range doc.Query(dom.AttrSelector("meta", "property", property)) {
		if c := dom.NormalizeSpace(m.Attr("content")); c != "" {
			return c
		}
	}
	return ""
}

func truncate(s string, limit int) string {
	s = dom.NormalizeSpace(s)
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimSpace(string(r[:limit]))
}
