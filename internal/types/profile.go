// Package types provides type definitions for structured data shared across the autofill engine.
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Work authorization values as stored on the remote profile.
const (
	WorkAuthAuthorized        = "authorized"
	WorkAuthCitizen           = "citizen"
	WorkAuthPermanentResident = "permanent_resident"
	WorkAuthVisaRequired      = "visa_required"
	WorkAuthNotAuthorized     = "not_authorized"
)

// Education is one education entry of a profile.
type Education struct {
	Institution    string `json:"institution,omitempty"`
	Degree         string `json:"degree,omitempty"`
	FieldOfStudy   string `json:"fieldOfStudy,omitempty"`
	GraduationYear string `json:"graduationYear,omitempty"`
}

// Reference is one professional reference of a profile.
type Reference struct {
	FullName     string `json:"fullName,omitempty"`
	JobTitle     string `json:"jobTitle,omitempty"`
	Company      string `json:"company,omitempty"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

// Profile is the user profile fetched from the remote API. Optional booleans are
// pointers so that "unanswered" is distinguishable from "no".
type Profile struct {
	FirstName         string `json:"firstName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	FullName          string `json:"fullName,omitempty"`
	Email             string `json:"email,omitempty" validate:"omitempty,email"`
	Phone             string `json:"phone,omitempty"`
	CurrentAddress    string `json:"currentAddress,omitempty"`
	Location          string `json:"location,omitempty"`
	City              string `json:"city,omitempty"`
	State             string `json:"state,omitempty"`
	ZipCode           string `json:"zipCode,omitempty"`
	Country           string `json:"country,omitempty"`
	ProfessionalTitle string `json:"professionalTitle,omitempty"`
	CurrentCompany    string `json:"currentCompany,omitempty"`

	YearsExperience *float64    `json:"yearsExperience,omitempty" validate:"omitempty,gte=0,lte=70"`
	Education       []Education `json:"education,omitempty" validate:"dive"`

	LinkedInURL  string `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
	GithubURL    string `json:"githubUrl,omitempty" validate:"omitempty,url"`
	PortfolioURL string `json:"portfolioUrl,omitempty" validate:"omitempty,url"`
	Website      string `json:"website,omitempty" validate:"omitempty,url"`

	WorkAuthorization string `json:"workAuthorization,omitempty" validate:"omitempty,oneof=authorized citizen permanent_resident visa_required not_authorized"`
	VisaStatus        string `json:"visaStatus,omitempty"`

	Skills           []string `json:"skills,omitempty"`
	DesiredSalaryMin *int     `json:"desiredSalaryMin,omitempty" validate:"omitempty,gte=0"`
	DesiredSalaryMax *int     `json:"desiredSalaryMax,omitempty" validate:"omitempty,gte=0"`
	AvailableStart   string   `json:"availableStartDate,omitempty"`
	Summary          string   `json:"summary,omitempty"`
	CoverLetter      string   `json:"coverLetter,omitempty"`

	Gender           string `json:"gender,omitempty"`
	VeteranStatus    string `json:"veteranStatus,omitempty"`
	DisabilityStatus string `json:"disabilityStatus,omitempty"`
	Ethnicity        string `json:"ethnicity,omitempty"`
	HowDidYouHear    string `json:"howDidYouHear,omitempty"`

	CurrentlyEmployed     *bool `json:"currentlyEmployed,omitempty"`
	CanContactEmployer    *bool `json:"canContactEmployer,omitempty"`
	WillingToTravel       *bool `json:"willingToTravel,omitempty"`
	WillingToWorkOvertime *bool `json:"willingToWorkOvertime,omitempty"`
	WillingToRelocate     *bool `json:"willingToRelocate,omitempty"`

	References []Reference `json:"references,omitempty" validate:"dive"`

	WhyInterestedInRole string `json:"whyInterestedInRole,omitempty"`
	CareerGoals         string `json:"careerGoals,omitempty"`
}

// Validate validates the Profile using the validator.
func (p *Profile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// DisplayName returns the full name, composing it from first and last name when needed.
func (p *Profile) DisplayName() string {
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// Bool returns a pointer to b, for building profiles in code.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to i.
func Int(i int) *int { return &i }
