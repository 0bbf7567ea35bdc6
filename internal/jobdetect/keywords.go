package jobdetect

import (
	"regexp"
	"strconv"

	"github.com/jonathan/job-autofill/internal/types"
)

type pattern struct {
	name string
	re   *regexp.Regexp
}

// word wraps an alternation in boundaries that treat + and # as word characters,
// so "c++" and "c#" match while "java" does not match inside "javascript".
func word(alternation string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\w+#])(?:` + alternation + `)(?:$|[^\w+#])`)
}

var skillPatterns = []pattern{
	{"Go", regexp.MustCompile(`(?:^|[^\w+#])Go(?:$|[^\w+#])|(?i:golang)`)},
	{"Python", word(`python`)},
	{"Java", word(`java`)},
	{"JavaScript", word(`javascript|ecmascript`)},
	{"TypeScript", word(`typescript`)},
	{"React", word(`react(?:\.js|js)?`)},
	{"Node.js", word(`node\.?js|node`)},
	{"Angular", word(`angular(?:js)?`)},
	{"Vue", word(`vue(?:\.js|js)?`)},
	{"Ruby", word(`ruby`)},
	{"Rails", word(`rails|ruby on rails`)},
	{"PHP", word(`php`)},
	{"C++", word(`c\+\+`)},
	{"C#", word(`c#`)},
	{"Rust", word(`rust`)},
	{"Kotlin", word(`kotlin`)},
	{"Swift", word(`swift`)},
	{"Scala", word(`scala`)},
	{"SQL", word(`sql`)},
	{"PostgreSQL", word(`postgres(?:ql)?`)},
	{"MySQL", word(`mysql`)},
	{"MongoDB", word(`mongo(?:db)?`)},
	{"Redis", word(`redis`)},
	{"Kafka", word(`kafka`)},
	{"GraphQL", word(`graphql`)},
	{"REST", word(`restful|rest apis?`)},
	{"Docker", word(`docker`)},
	{"Kubernetes", word(`kubernetes|k8s`)},
	{"Terraform", word(`terraform`)},
	{"AWS", word(`aws|amazon web services`)},
	{"GCP", word(`gcp|google cloud(?: platform)?`)},
	{"Azure", word(`azure`)},
	{"Linux", word(`linux`)},
	{"Git", word(`git`)},
	{"CI/CD", word(`ci/cd|continuous integration`)},
	{"Machine Learning", word(`machine learning|ml`)},
	{"TensorFlow", word(`tensorflow`)},
	{"PyTorch", word(`pytorch`)},
	{"Spark", word(`spark`)},
	{"Airflow", word(`airflow`)},
	{"HTML", word(`html5?`)},
	{"CSS", word(`css3?`)},
	{"Figma", word(`figma`)},
}

// Order matters: the first matching level, work mode or employment type wins.
var (
	levelPatterns = []pattern{
		{"lead", word(`lead|principal|staff|head of|director`)},
		{"senior", word(`senior|sr\.?`)},
		{"mid", word(`mid[- ]level|intermediate`)},
		{"entry", word(`entry[- ]level|junior|jr\.?|graduate|new grad`)},
	}
	workModePatterns = []pattern{
		{"hybrid", word(`hybrid`)},
		{"remote", word(`remote|work from home|wfh`)},
		{"onsite", word(`on-?site|in[- ]office|in person`)},
	}
	employmentPatterns = []pattern{
		{"full-time", word(`full[- ]time`)},
		{"part-time", word(`part[- ]time`)},
		{"contract", word(`contract|contractor|freelance|temporary`)},
		{"internship", word(`internship|intern`)},
	}
	yearsRe = regexp.MustCompile(`(?i)(\d{1,2})\+?\s*(?:(?:-|–|to)\s*\d{1,2}\s*)?\+?\s*years?\s+(?:of\s+)?(?:[a-z/-]+\s+){0,3}?experience`)
)

// ExtractKeywords scans text against fixed vocabularies. It does not interpret meaning:
// every result is a literal pattern hit.
func ExtractKeywords(text string) types.JobKeywords {
	var kw types.JobKeywords
	for _, p := range skillPatterns {
		if p.re.MatchString(text) {
			kw.Skills = append(kw.Skills, p.name)
		}
	}
	kw.ExperienceLevel = first(levelPatterns, text)
	kw.WorkMode = first(workModePatterns, text)
	kw.EmploymentType = first(employmentPatterns, text)
	if m := yearsRe.FindStringSubmatch(text); m != nil {
		kw.YearsRequired, _ = strconv.Atoi(m[1])
	}
	return kw
}

// ExperienceLevel classifies a single string, typically a job title.
func ExperienceLevel(text string) string {
	return first(levelPatterns, text)
}

func first(patterns []pattern, text string) string {
	for _, p := range patterns {
		if p.re.MatchString(text) {
			return p.name
		}
	}
	return ""
}
