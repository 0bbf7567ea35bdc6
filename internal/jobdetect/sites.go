package jobdetect

import "github.com/jonathan/job-autofill/internal/fetch"

// siteRule lists the selectors that identify and describe a posting on one platform.
type siteRule struct {
	pathHints    []string // URL path fragments of posting pages
	markers      []string // any match means a posting is displayed
	title        []string
	company      []string
	location     []string
	description  []string
	requirements []string
	salary       []string
	jobType      []string
}

var siteRules = map[fetch.Platform]siteRule{
	fetch.PlatformLinkedIn: {
		pathHints:   []string{"/jobs/view", "/jobs/collections", "/jobs/search"},
		markers:     []string{".jobs-details", ".job-view-layout", ".jobs-unified-top-card", ".top-card-layout"},
		title:       []string{".job-details-jobs-unified-top-card__job-title", ".jobs-unified-top-card__job-title", ".top-card-layout__title", "h1"},
		company:     []string{".job-details-jobs-unified-top-card__company-name", ".jobs-unified-top-card__company-name", ".topcard__org-name-link"},
		location:    []string{".job-details-jobs-unified-top-card__bullet", ".jobs-unified-top-card__bullet", ".topcard__flavor--bullet"},
		description: []string{".jobs-description__content", ".jobs-description", ".description__text"},
		salary:      []string{".salary", ".compensation__salary"},
	},
	fetch.PlatformIndeed: {
		pathHints:   []string{"/viewjob", "/rc/clk", "/jobs"},
		markers:     []string{"#jobDescriptionText", ".jobsearch-JobComponent"},
		title:       []string{".jobsearch-JobInfoHeader-title", "h1"},
		company:     []string{"[data-testid='inlineHeader-companyName']", ".jobsearch-CompanyInfoContainer a"},
		location:    []string{"[data-testid='inlineHeader-companyLocation']", "[data-testid='job-location']"},
		description: []string{"#jobDescriptionText"},
		salary:      []string{"#salaryInfoAndJobType", "[data-testid='attribute_snippet_testid']"},
		jobType:     []string{"[data-testid='jobsearch-JobInfoHeader-jobType']"},
	},
	fetch.PlatformGlassdoor: {
		pathHints:   []string{"/job-listing", "/Job/"},
		markers:     []string{"[data-test='job-details']", "#JobDescriptionContainer"},
		title:       []string{"[data-test='job-title']", "h1"},
		company:     []string{"[data-test='employer-name']"},
		location:    []string{"[data-test='location']"},
		description: []string{"[class*='JobDetails_jobDescription']", "#JobDescriptionContainer"},
		salary:      []string{"[data-test='detailSalary']"},
	},
	fetch.PlatformZipRecruiter: {
		pathHints:   []string{"/jobs/", "/c/", "/job/"},
		markers:     []string{".job_description", ".job_header"},
		title:       []string{".job_title", "h1"},
		company:     []string{".hiring_company_text", ".hiring_company"},
		location:    []string{".location_text", ".job_location"},
		description: []string{".job_description"},
		salary:      []string{".pay_range", ".salary"},
	},
	fetch.PlatformGreenhouse: {
		pathHints:   []string{"/jobs/"},
		markers:     []string{"#app_body", ".job__description", "#application_form", "#application-form"},
		title:       []string{".job__title h1", ".app-title", "h1"},
		company:     []string{".company-name", ".job__title .company"},
		location:    []string{".job__location", ".location"},
		description: []string{".job__description", "#content"},
	},
	fetch.PlatformLever: {
		pathHints:   []string{"/"},
		markers:     []string{".posting-page", ".posting-headline"},
		title:       []string{".posting-headline h2", "h2"},
		company:     []string{".main-header-logo img[alt]", ".main-header-text"},
		location:    []string{".posting-categories .location", ".sort-by-location"},
		description: []string{".posting-page [data-qa='job-description']", ".section-wrapper.page-full-width", ".posting-description"},
		jobType:     []string{".posting-categories .commitment"},
	},
	fetch.PlatformWorkday: {
		pathHints:   []string{"/job/", "/details/"},
		markers:     []string{"[data-automation-id='jobPostingHeader']", "[data-automation-id='jobPostingDescription']"},
		title:       []string{"[data-automation-id='jobPostingHeader']", "h1", "h2"},
		location:    []string{"[data-automation-id='locations'] dd", "[data-automation-id='locations']"},
		description: []string{"[data-automation-id='jobPostingDescription']"},
		jobType:     []string{"[data-automation-id='time'] dd"},
	},
	fetch.PlatformAshby: {
		markers:     []string{"[class*='_jobPostingHeader']", "[class*='_descriptionText']"},
		title:       []string{"h1"},
		location:    []string{"[class*='_location']"},
		description: []string{"[class*='_descriptionText']"},
	},
	fetch.PlatformSmartRecruiters: {
		markers:     []string{".job-sections", "[itemprop='description']"},
		title:       []string{".job-title", "h1"},
		company:     []string{"[itemprop='hiringOrganization'] [itemprop='name']"},
		location:    []string{"[itemprop='jobLocation']", ".job-detail"},
		description: []string{".job-sections", "[itemprop='description']"},
	},
}

// Generic selectors used on unknown sites and as fallback for known ones.
var (
	genericTitle = []string{
		"[class*='job-title']", "[class*='jobtitle']", "[class*='jobTitle']",
		"[data-testid*='job-title']", "[itemprop='title']", "h1",
	}
	genericCompany = []string{
		"[class*='company-name']", "[class*='companyName']", "[class*='employer']",
		"[itemprop='hiringOrganization']", "[data-testid*='company']",
	}
	genericLocation = []string{
		"[class*='job-location']", "[class*='jobLocation']", "[itemprop='jobLocation']",
		"[class*='location']", "[data-testid*='location']",
	}
	genericDescription = []string{
		"[class*='job-description']", "[id*='job-description']", "[class*='jobDescription']",
		"[id*='jobDescription']", "[itemprop='description']", "[class*='description']", "article",
	}
	genericRequirements = []string{
		"[class*='requirements']", "[class*='qualifications']", "[id*='requirements']", "[id*='qualifications']",
	}
	genericSalary = []string{
		"[class*='salary']", "[class*='compensation']", "[itemprop='baseSalary']", "[class*='pay-range']",
	}
	genericJobType = []string{
		"[class*='employment-type']", "[class*='job-type']", "[itemprop='employmentType']",
	}
)
