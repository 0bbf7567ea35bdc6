package fieldmap

// Attribute names.
const (
	FirstName             = "firstName"
	LastName              = "lastName"
	FullName              = "fullName"
	Email                 = "email"
	Phone                 = "phone"
	Address               = "address"
	City                  = "city"
	State                 = "state"
	ZipCode               = "zipCode"
	Country               = "country"
	Location              = "location"
	ProfessionalTitle     = "professionalTitle"
	CurrentCompany        = "currentCompany"
	YearsExperience       = "yearsExperience"
	Institution           = "institution"
	Degree                = "degree"
	FieldOfStudy          = "fieldOfStudy"
	GraduationYear        = "graduationYear"
	LinkedInURL           = "linkedinUrl"
	GithubURL             = "githubUrl"
	PortfolioURL          = "portfolioUrl"
	Website               = "website"
	WorkAuth              = "workAuth"
	VisaStatus            = "visaStatus"
	RequireSponsorship    = "requireSponsorship"
	Skills                = "skills"
	DesiredSalary         = "desiredSalary"
	SalaryMin             = "salaryMin"
	SalaryMax             = "salaryMax"
	AvailableStartDate    = "availableStartDate"
	Summary               = "summary"
	CoverLetter           = "coverLetter"
	Resume                = "resume"
	Gender                = "gender"
	VeteranStatus         = "veteranStatus"
	DisabilityStatus      = "disabilityStatus"
	Ethnicity             = "ethnicity"
	HowDidYouHear         = "howDidYouHear"
	CurrentlyEmployed     = "currentlyEmployed"
	CanContactEmployer    = "canContactEmployer"
	WillingToTravel       = "willingToTravel"
	WillingToWorkOvertime = "willingToWorkOvertime"
	WillingToRelocate     = "willingToRelocate"
	WhyInterested         = "whyInterested"
	CareerGoals           = "careerGoals"
	ReferenceName         = "referenceName"
	ReferenceTitle        = "referenceTitle"
	ReferenceCompany      = "referenceCompany"
	ReferenceEmail        = "referenceEmail"
	ReferencePhone        = "referencePhone"
	ReferenceRelationship = "referenceRelationship"
)

var (
	textLike   = []string{TypeText}
	choiceText = []string{TypeSelect, TypeRadio, TypeText}
	yesNo      = []string{TypeSelect, TypeRadio, TypeCheckbox}
	longText   = []string{TypeTextarea, TypeText}
)

// Priorities. Attributes identified by long, specific phrases (screening questions,
// references) outrank the short generic patterns they tend to contain. Below those the
// weight follows how reliable an attribute's patterns are, not its section of the form.
const (
	priorityReference = 12
	priorityScreening = 11
	priorityHigh      = 10
	priorityStrong    = 9
	priorityMedium    = 8
	priorityModerate  = 7
	priorityLow       = 6
	priorityLowest    = 5
)

func buildDefault() Table {
	return Table{
		// Identity
		{
			Name:         FirstName,
			Patterns:     []string{"first_name", "firstname", "first name", "fname", "given name", "given_name", "givenname", "legal first", "preferred first"},
			ControlTypes: textLike,
			Priority:     priorityHigh,
		},
		{
			Name:         LastName,
			Patterns:     []string{"last_name", "lastname", "last name", "lname", "surname", "family name", "family_name", "familyname"},
			ControlTypes: textLike,
			Priority:     priorityHigh,
		},
		{
			Name:         FullName,
			Patterns:     []string{"full_name", "fullname", "full name", "your name", "legal name", "candidate name", "name"},
			ControlTypes: textLike,
			Priority:     priorityMedium,
		},

		// Contact
		{
			Name:         Email,
			Patterns:     []string{"email", "e-mail", "email_address", "emailaddress"},
			ControlTypes: []string{TypeEmail, TypeText},
			Priority:     priorityStrong,
		},
		{
			Name:         Phone,
			Patterns:     []string{"phone", "telephone", "mobile", "cellphone", "cell phone", "phone_number", "contact number"},
			ControlTypes: []string{TypeTel, TypeText},
			Priority:     priorityStrong,
		},
		{
			Name:         Address,
			Patterns:     []string{"street", "address_line", "addressline", "address1", "address line", "street address", "address"},
			ControlTypes: longText,
			Priority:     priorityModerate,
		},
		{
			Name:         City,
			Patterns:     []string{"city", "town"},
			ControlTypes: choiceText,
			Priority:     priorityMedium,
		},
		{
			Name:         State,
			Patterns:     []string{"state", "province", "region"},
			ControlTypes: choiceText,
			Priority:     priorityModerate,
		},
		{
			Name:         ZipCode,
			Patterns:     []string{"zip", "postal", "postcode", "zip_code"},
			ControlTypes: textLike,
			Priority:     priorityMedium,
		},
		{
			Name:         Country,
			Patterns:     []string{"country", "nation"},
			ControlTypes: choiceText,
			Priority:     priorityModerate,
		},
		{
			Name:         Location,
			Patterns:     []string{"location", "current location", "where are you based", "residence"},
			ControlTypes: choiceText,
			Priority:     priorityLow,
		},

		// Career
		{
			Name:         ProfessionalTitle,
			Patterns:     []string{"current title", "current_title", "job title", "jobtitle", "headline", "professional title", "position title"},
			ControlTypes: textLike,
			Priority:     priorityModerate,
		},
		{
			Name:         CurrentCompany,
			Patterns:     []string{"current company", "current_company", "company", "employer", "organization"},
			ControlTypes: textLike,
			Priority:     priorityStrong,
		},
		{
			Name:         YearsExperience,
			Patterns:     []string{"years of experience", "years_experience", "experience_years", "yearsofexperience", "years experience", "how many years", "total experience"},
			ControlTypes: []string{TypeSelect, TypeNumber, TypeText},
			Priority:     priorityModerate,
		},
		{
			Name:         Institution,
			Patterns:     []string{"school", "university", "college", "institution"},
			ControlTypes: choiceText,
			Priority:     priorityModerate,
		},
		{
			Name:         Degree,
			Patterns:     []string{"degree", "qualification"},
			ControlTypes: choiceText,
			Priority:     priorityModerate,
		},
		{
			Name:         FieldOfStudy,
			Patterns:     []string{"field of study", "field_of_study", "major", "discipline", "area of study"},
			ControlTypes: choiceText,
			Priority:     priorityMedium,
		},
		{
			Name:         GraduationYear,
			Patterns:     []string{"graduation", "grad year", "graduation_year", "year of completion"},
			ControlTypes: []string{TypeSelect, TypeNumber, TypeText},
			Priority:     priorityMedium,
		},

		// Links
		{
			Name:         LinkedInURL,
			Patterns:     []string{"linkedin"},
			ControlTypes: []string{TypeURL, TypeText},
			Priority:     priorityMedium,
		},
		{
			Name:         GithubURL,
			Patterns:     []string{"github"},
			ControlTypes: []string{TypeURL, TypeText},
			Priority:     priorityMedium,
		},
		{
			Name:         PortfolioURL,
			Patterns:     []string{"portfolio", "personal site", "personal website"},
			ControlTypes: []string{TypeURL, TypeText},
			Priority:     priorityMedium,
		},
		{
			Name:         Website,
			Patterns:     []string{"website", "personal url", "homepage", "url"},
			ControlTypes: []string{TypeURL, TypeText},
			Priority:     priorityLow,
		},

		// Work authorization
		{
			Name:         WorkAuth,
			Patterns:     []string{"authorized to work", "work authorization", "legally authorized", "eligible to work", "work_auth", "right to work", "authorization"},
			ControlTypes: choiceText,
			Priority:     priorityStrong,
			Aliases: map[string][]string{
				"yes": {"Yes", "Authorized to work", "I am authorized"},
				"no":  {"No", "Not authorized"},
			},
		},
		{
			Name:         VisaStatus,
			Patterns:     []string{"visa status", "visa_status", "visa type", "visa"},
			ControlTypes: choiceText,
			Priority:     priorityStrong,
		},
		{
			Name:         RequireSponsorship,
			Patterns:     []string{"require sponsorship", "need sponsorship", "require visa sponsorship", "sponsorship"},
			ControlTypes: yesNo,
			Priority:     priorityHigh,
		},

		// Compensation and availability
		{
			Name:         Skills,
			Patterns:     []string{"skills", "technologies", "tech stack"},
			ControlTypes: longText,
			Priority:     priorityLow,
		},
		{
			Name:         DesiredSalary,
			Patterns:     []string{"salary", "compensation", "pay expectation", "desired pay"},
			ControlTypes: []string{TypeText, TypeNumber, TypeSelect},
			Priority:     priorityModerate,
		},
		{
			Name:         SalaryMin,
			Patterns:     []string{"minimum salary", "salary_min", "min salary", "salary min"},
			ControlTypes: []string{TypeText, TypeNumber},
			Priority:     priorityMedium,
		},
		{
			Name:         SalaryMax,
			Patterns:     []string{"maximum salary", "salary_max", "max salary", "salary max"},
			ControlTypes: []string{TypeText, TypeNumber},
			Priority:     priorityMedium,
		},
		{
			Name:         AvailableStartDate,
			Patterns:     []string{"start date", "start_date", "earliest start", "availability", "notice period"},
			ControlTypes: []string{TypeDate, TypeText},
			Priority:     priorityLow,
		},

		// Free text
		{
			Name:         Summary,
			Patterns:     []string{"summary", "about you", "about yourself", "bio", "introduction"},
			ControlTypes: longText,
			Priority:     priorityLowest,
		},
		{
			Name:         CoverLetter,
			Patterns:     []string{"cover letter", "cover_letter", "coverletter", "motivation letter"},
			ControlTypes: []string{TypeTextarea, TypeFile},
			Priority:     priorityLow,
		},
		{
			Name:         Resume,
			Patterns:     []string{"resume", "résumé", "curriculum vitae", "cv"},
			ControlTypes: []string{TypeFile},
			Priority:     priorityStrong,
		},

		// Voluntary self-identification
		{
			Name:         Gender,
			Patterns:     []string{"gender", "sex"},
			ControlTypes: choiceText,
			Priority:     priorityLow,
			Aliases: map[string][]string{
				"male":       {"Male", "Man"},
				"female":     {"Female", "Woman"},
				"non_binary": {"Non-binary", "Nonbinary", "Non binary"},
				"decline":    {"Decline to self-identify", "Prefer not to say", "I don't wish to answer"},
			},
		},
		{
			Name:         VeteranStatus,
			Patterns:     []string{"veteran", "military"},
			ControlTypes: choiceText,
			Priority:     priorityLow,
			Aliases: map[string][]string{
				"not_veteran":       {"I am not a protected veteran", "Not a veteran", "No"},
				"protected_veteran": {"I identify as one or more of the classifications of protected veteran", "Protected veteran", "Yes"},
				"decline":           {"I don't wish to answer", "Decline to self-identify", "Prefer not to say"},
			},
		},
		{
			Name:         DisabilityStatus,
			Patterns:     []string{"disability", "disabled"},
			ControlTypes: choiceText,
			Priority:     priorityLow,
			Aliases: map[string][]string{
				"no":      {"No, I do not have a disability", "No"},
				"yes":     {"Yes, I have a disability", "Yes"},
				"decline": {"I do not want to answer", "Decline to self-identify", "Prefer not to say"},
			},
		},
		{
			Name:         Ethnicity,
			Patterns:     []string{"ethnicity", "race/ethnicity", "racial", "hispanic"},
			ControlTypes: choiceText,
			Priority:     priorityLow,
			Aliases: map[string][]string{
				"decline": {"Decline to self-identify", "I don't wish to answer", "Prefer not to say"},
			},
		},
		{
			Name:         HowDidYouHear,
			Patterns:     []string{"how did you hear", "hear about", "how did you find", "referral source", "source"},
			ControlTypes: choiceText,
			Priority:     priorityLow,
			Aliases: map[string][]string{
				"linkedin":        {"LinkedIn"},
				"indeed":          {"Indeed"},
				"job_board":       {"Job Board", "Online job board", "Job posting"},
				"referral":        {"Employee Referral", "Referral", "Friend or colleague"},
				"company_website": {"Company Website", "Careers page", "Company careers site"},
				"other":           {"Other"},
			},
		},

		// Screening questions
		{
			Name:         CurrentlyEmployed,
			Patterns:     []string{"currently employed", "are you employed", "current employment status"},
			ControlTypes: yesNo,
			Priority:     priorityScreening,
		},
		{
			Name:         CanContactEmployer,
			Patterns:     []string{"contact your current employer", "contact your employer", "contact employer", "may we contact"},
			ControlTypes: yesNo,
			Priority:     priorityScreening,
		},
		{
			Name:         WillingToTravel,
			Patterns:     []string{"willing to travel", "able to travel", "travel required", "travel up to"},
			ControlTypes: yesNo,
			Priority:     priorityScreening,
		},
		{
			Name:         WillingToWorkOvertime,
			Patterns:     []string{"overtime", "work extra hours"},
			ControlTypes: yesNo,
			Priority:     priorityScreening,
		},
		{
			Name:         WillingToRelocate,
			Patterns:     []string{"relocate", "relocation"},
			ControlTypes: yesNo,
			Priority:     priorityScreening,
		},
		{
			Name:         WhyInterested,
			Patterns:     []string{"why are you interested", "why do you want", "why this role", "interest in this", "why_interested"},
			ControlTypes: longText,
			Priority:     priorityScreening,
		},
		{
			Name:         CareerGoals,
			Patterns:     []string{"career goals", "career_goals", "where do you see yourself", "long-term goals"},
			ControlTypes: longText,
			Priority:     priorityScreening,
		},

		// References
		{
			Name:         ReferenceName,
			Patterns:     []string{"reference name", "reference_name", "referee name", "reference full name"},
			ControlTypes: textLike,
			Priority:     priorityReference,
		},
		{
			Name:         ReferenceTitle,
			Patterns:     []string{"reference title", "reference job title", "reference_title", "referee title"},
			ControlTypes: textLike,
			Priority:     priorityReference,
		},
		{
			Name:         ReferenceCompany,
			Patterns:     []string{"reference company", "reference_company", "referee company", "reference organization"},
			ControlTypes: textLike,
			Priority:     priorityReference,
		},
		{
			Name:         ReferenceEmail,
			Patterns:     []string{"reference email", "reference_email", "referee email"},
			ControlTypes: []string{TypeEmail, TypeText},
			Priority:     priorityReference,
		},
		{
			Name:         ReferencePhone,
			Patterns:     []string{"reference phone", "reference_phone", "referee phone"},
			ControlTypes: []string{TypeTel, TypeText},
			Priority:     priorityReference,
		},
		{
			Name:         ReferenceRelationship,
			Patterns:     []string{"reference relationship", "relationship to reference", "relationship"},
			ControlTypes: choiceText,
			Priority:     priorityReference,
			Aliases: map[string][]string{
				"manager":       {"Manager", "Supervisor", "Direct manager"},
				"colleague":     {"Colleague", "Coworker", "Peer"},
				"direct_report": {"Direct report", "Subordinate"},
				"mentor":        {"Mentor"},
				"client":        {"Client", "Customer"},
				"professor":     {"Professor", "Teacher", "Academic"},
			},
		},
	}
}
