package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board or applicant tracking system.
type Platform string

const (
	// PlatformLinkedIn is the LinkedIn jobs board
	PlatformLinkedIn Platform = "linkedin"
	// PlatformIndeed is the Indeed jobs board
	PlatformIndeed Platform = "indeed"
	// PlatformGlassdoor is the Glassdoor jobs board
	PlatformGlassdoor Platform = "glassdoor"
	// PlatformZipRecruiter is the ZipRecruiter jobs board
	PlatformZipRecruiter Platform = "ziprecruiter"
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformAshby is the Ashby ATS platform
	PlatformAshby Platform = "ashby"
	// PlatformSmartRecruiters is the SmartRecruiters ATS platform
	PlatformSmartRecruiters Platform = "smartrecruiters"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

var platformHosts = []struct {
	platform Platform
	hosts    []string
}{
	{PlatformLinkedIn, []string{"linkedin.com"}},
	{PlatformIndeed, []string{"indeed.com"}},
	{PlatformGlassdoor, []string{"glassdoor.com", "glassdoor.co.uk"}},
	{PlatformZipRecruiter, []string{"ziprecruiter.com"}},
	{PlatformGreenhouse, []string{"greenhouse.io"}},
	{PlatformLever, []string{"lever.co"}},
	{PlatformWorkday, []string{"myworkdayjobs.com", "workday.com"}},
	{PlatformAshby, []string{"ashbyhq.com"}},
	{PlatformSmartRecruiters, []string{"smartrecruiters.com"}},
}

// DetectPlatform identifies the job board platform from a URL's host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, p := range platformHosts {
		for _, h := range p.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p.platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformLinkedIn:
		return []string{".jobs-description__content", ".jobs-description", ".description__text", ".show-more-less-html__markup"}
	case PlatformIndeed:
		return []string{"#jobDescriptionText", ".jobsearch-jobDescriptionText", ".jobsearch-JobComponent-description"}
	case PlatformGlassdoor:
		return []string{"[class*='JobDetails_jobDescription']", ".jobDescriptionContent", "#JobDescriptionContainer"}
	case PlatformZipRecruiter:
		return []string{".job_description", "[class*='job_description']", ".jobDescriptionSection"}
	case PlatformGreenhouse:
		return []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
			".job-post-container",
		}
	case PlatformLever:
		return []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
			".content",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobPostingDescription']",
			"[data-automation-id='jobDescription']",
			".gwt-HTML",
			".job-description",
		}
	case PlatformAshby:
		return []string{"[class*='_descriptionText']", ".ashby-job-posting-description", "main"}
	case PlatformSmartRecruiters:
		return []string{".job-sections", "[itemprop='description']", ".job-description"}
	default:
		return JobPostingSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		"#application-form",
		".application-form",
		".apply-button-container",
		"[data-testid='application-form']",
		".voluntary-disclosure",
		".eeo-statement",
		".eeo-section",
		".self-identification",
		".social-share",
		".share-buttons",
		".cookie-banner",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common, ".application--wrapper", ".voluntary-self-id", "#usa_self_id_section")
	case PlatformLever:
		return append(common, ".apply-section", ".lever-application-form", ".posting-apply")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']", ".application-section")
	case PlatformLinkedIn:
		return append(common, ".jobs-apply-button--top-card", ".job-details-jobs-unified-top-card__job-insight")
	default:
		return common
	}
}
