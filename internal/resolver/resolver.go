// Package resolver computes the literal value to write into a matched field from the user profile.
package resolver

import (
	"strconv"
	"strings"

	"github.com/jonathan/job-autofill/internal/analyzer"
	"github.com/jonathan/job-autofill/internal/dom"
	"github.com/jonathan/job-autofill/internal/fieldmap"
	"github.com/jonathan/job-autofill/internal/types"
)

var countryAliases = map[string][]string{
	"united states":  {"United States", "United States of America", "USA", "US", "U.S."},
	"usa":            {"United States", "United States of America", "USA", "US", "U.S."},
	"us":             {"United States", "United States of America", "USA", "US", "U.S."},
	"united kingdom": {"United Kingdom", "UK", "Great Britain", "England"},
	"uk":             {"United Kingdom", "UK", "Great Britain", "England"},
}

// Resolve returns the value to write for attr, or ok=false when the profile has nothing
// for it. A returned value is never empty.
func Resolve(doc dom.Document, el dom.Element, attr *fieldmap.Attribute, p *types.Profile, sig analyzer.Signature) (string, bool) {
	if attr == nil || p == nil {
		return "", false
	}
	r := &resolution{doc: doc, el: el, attr: attr, p: p, sig: sig}
	value, ok := r.resolve()
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

type resolution struct {
	doc     dom.Document
	el      dom.Element
	attr    *fieldmap.Attribute
	p       *types.Profile
	sig     analyzer.Signature
	choices []Choice
	listed  bool
}

func (r *resolution) isChoice() bool {
	return r.sig.ControlType == "select" || r.sig.ControlType == "radio"
}

func (r *resolution) options() []Choice {
	if !r.listed {
		r.choices = Choices(r.doc, r.el, r.sig)
		r.listed = true
	}
	return r.choices
}

func (r *resolution) resolve() (string, bool) {
	p := r.p
	switch r.attr.Name {
	case fieldmap.FirstName:
		if p.FirstName != "" {
			return p.FirstName, true
		}
		first, _ := splitName(p.FullName)
		return first, first != ""
	case fieldmap.LastName:
		if p.LastName != "" {
			return p.LastName, true
		}
		_, last := splitName(p.FullName)
		return last, last != ""
	case fieldmap.FullName:
		return nonEmpty(p.DisplayName())
	case fieldmap.Email:
		return nonEmpty(p.Email)
	case fieldmap.Phone:
		return r.phone(p.Phone)
	case fieldmap.Address:
		return nonEmpty(p.CurrentAddress)
	case fieldmap.City:
		city := p.City
		if city == "" {
			city, _ = splitLocation(p.Location)
		}
		return r.enumerated(city, nil)
	case fieldmap.State:
		state := p.State
		if state == "" {
			_, state = splitLocation(p.Location)
		}
		return r.enumerated(state, nil)
	case fieldmap.ZipCode:
		return nonEmpty(p.ZipCode)
	case fieldmap.Country:
		return r.enumerated(p.Country, countryAliases[strings.ToLower(strings.TrimSpace(p.Country))])
	case fieldmap.Location:
		return r.enumerated(location(p), nil)
	case fieldmap.ProfessionalTitle:
		return nonEmpty(p.ProfessionalTitle)
	case fieldmap.CurrentCompany:
		return nonEmpty(p.CurrentCompany)
	case fieldmap.YearsExperience:
		return r.experience()
	case fieldmap.Institution, fieldmap.Degree, fieldmap.FieldOfStudy, fieldmap.GraduationYear:
		return r.education()
	case fieldmap.LinkedInURL:
		return nonEmpty(p.LinkedInURL)
	case fieldmap.GithubURL:
		return nonEmpty(p.GithubURL)
	case fieldmap.PortfolioURL:
		return nonEmpty(firstNonEmpty(p.PortfolioURL, p.Website))
	case fieldmap.Website:
		return nonEmpty(firstNonEmpty(p.Website, p.PortfolioURL))
	case fieldmap.WorkAuth:
		return r.authorization(p.WorkAuthorization)
	case fieldmap.VisaStatus:
		return r.authorization(firstNonEmpty(p.VisaStatus, p.WorkAuthorization))
	case fieldmap.RequireSponsorship:
		status := firstNonEmpty(p.WorkAuthorization, p.VisaStatus)
		if status == "" {
			return "", false
		}
		return r.boolean(status == types.WorkAuthVisaRequired || p.VisaStatus == types.WorkAuthVisaRequired)
	case fieldmap.Skills:
		return nonEmpty(strings.Join(p.Skills, ", "))
	case fieldmap.DesiredSalary:
		return r.salary()
	case fieldmap.SalaryMin:
		return intValue(p.DesiredSalaryMin)
	case fieldmap.SalaryMax:
		return intValue(p.DesiredSalaryMax)
	case fieldmap.AvailableStartDate:
		return nonEmpty(p.AvailableStart)
	case fieldmap.Summary:
		return nonEmpty(p.Summary)
	case fieldmap.CoverLetter:
		if r.sig.ControlType == "file" {
			return "", false
		}
		return nonEmpty(p.CoverLetter)
	case fieldmap.Resume:
		if r.sig.ControlType != "file" {
			return "", false
		}
		return "resume", true
	case fieldmap.Gender:
		return r.enumerated(p.Gender, nil)
	case fieldmap.VeteranStatus:
		return r.enumerated(p.VeteranStatus, nil)
	case fieldmap.DisabilityStatus:
		return r.enumerated(p.DisabilityStatus, nil)
	case fieldmap.Ethnicity:
		return r.enumerated(p.Ethnicity, nil)
	case fieldmap.HowDidYouHear:
		return r.enumerated(p.HowDidYouHear, nil)
	case fieldmap.CurrentlyEmployed:
		return r.optionalBoolean(p.CurrentlyEmployed)
	case fieldmap.CanContactEmployer:
		return r.optionalBoolean(p.CanContactEmployer)
	case fieldmap.WillingToTravel:
		return r.optionalBoolean(p.WillingToTravel)
	case fieldmap.WillingToWorkOvertime:
		return r.optionalBoolean(p.WillingToWorkOvertime)
	case fieldmap.WillingToRelocate:
		return r.optionalBoolean(p.WillingToRelocate)
	case fieldmap.WhyInterested:
		return nonEmpty(p.WhyInterestedInRole)
	case fieldmap.CareerGoals:
		return nonEmpty(p.CareerGoals)
	case fieldmap.ReferenceName, fieldmap.ReferenceTitle, fieldmap.ReferenceCompany,
		fieldmap.ReferenceEmail, fieldmap.ReferencePhone, fieldmap.ReferenceRelationship:
		return r.reference()
	default:
		return "", false
	}
}

func (r *resolution) phone(raw string) (string, bool) {
	return nonEmpty(FormatPhone(raw, r.sig.MaxLength, r.sig.Pattern))
}

func (r *resolution) experience() (string, bool) {
	if r.p.YearsExperience == nil {
		return "", false
	}
	years := *r.p.YearsExperience
	if !r.isChoice() {
		return FormatYears(years), true
	}
	if c, ok := ExperienceChoice(r.options(), years); ok {
		return c.Label(), true
	}
	return ExperienceBucket(years), true
}

func (r *resolution) education() (string, bool) {
	if len(r.p.Education) == 0 {
		return "", false
	}
	edu := r.p.Education[0]
	var value string
	switch r.attr.Name {
	case fieldmap.Institution:
		value = edu.Institution
	case fieldmap.Degree:
		value = edu.Degree
	case fieldmap.FieldOfStudy:
		value = edu.FieldOfStudy
	case fieldmap.GraduationYear:
		value = edu.GraduationYear
	}
	return r.enumerated(value, nil)
}

func (r *resolution) reference() (string, bool) {
	if len(r.p.References) == 0 {
		return "", false
	}
	ref := r.p.References[0]
	switch r.attr.Name {
	case fieldmap.ReferenceName:
		return nonEmpty(ref.FullName)
	case fieldmap.ReferenceTitle:
		return nonEmpty(ref.JobTitle)
	case fieldmap.ReferenceCompany:
		return nonEmpty(ref.Company)
	case fieldmap.ReferenceEmail:
		return nonEmpty(ref.Email)
	case fieldmap.ReferencePhone:
		return r.phone(ref.Phone)
	default:
		return r.enumerated(ref.Relationship, nil)
	}
}

func (r *resolution) salary() (string, bool) {
	lo, hi := r.p.DesiredSalaryMin, r.p.DesiredSalaryMax
	switch {
	case lo != nil && hi != nil && *lo != *hi:
		if r.isChoice() {
			if c, ok := BestChoice(r.options(), []string{strconv.Itoa(*lo)}); ok {
				return c.Label(), true
			}
		}
		return strconv.Itoa(*lo) + " - " + strconv.Itoa(*hi), true
	case lo != nil:
		return intValue(lo)
	default:
		return intValue(hi)
	}
}

// authorization collapses a work-authorization enum to a yes/no answer for choice
// controls and passes it through unchanged for free-text controls.
func (r *resolution) authorization(status string) (string, bool) {
	if status == "" {
		return "", false
	}
	if !r.isChoice() {
		return status, true
	}
	authorized, known := authorizedStatus(status)
	if !known {
		if c, ok := BestChoice(r.options(), []string{status}); ok {
			return c.Label(), true
		}
		return status, true
	}
	return r.boolean(authorized)
}

func authorizedStatus(status string) (authorized bool, known bool) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case types.WorkAuthAuthorized, types.WorkAuthCitizen, types.WorkAuthPermanentResident:
		return true, true
	case types.WorkAuthVisaRequired, types.WorkAuthNotAuthorized:
		return false, true
	default:
		return false, false
	}
}

func (r *resolution) optionalBoolean(b *bool) (string, bool) {
	if b == nil {
		return "", false
	}
	return r.boolean(*b)
}

// boolean picks the DOM option carrying the right affirmative/negative marker,
// falling back to a literal Yes/No when no options can be inspected.
func (r *resolution) boolean(want bool) (string, bool) {
	if r.isChoice() {
		if c, ok := ChooseBoolean(r.options(), want); ok {
			return c.Label(), true
		}
	}
	if want {
		return "Yes", true
	}
	return "No", true
}

// enumerated maps a canonical profile value (or one of its aliases) onto the option text
// the page actually offers; without options it falls back to the first alias.
func (r *resolution) enumerated(value string, extra []string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	aliases := r.aliasesFor(value)
	candidates := append([]string{value, strings.ReplaceAll(value, "_", " ")}, aliases...)
	candidates = append(candidates, extra...)

	if r.isChoice() {
		if choices := r.options(); len(choices) > 0 {
			if c, ok := BestChoice(choices, candidates); ok {
				return c.Label(), true
			}
		}
	}
	if len(aliases) > 0 {
		return aliases[0], true
	}
	return value, true
}

// aliasesFor resolves value as a canonical key, or as an alias of one, case-insensitively.
func (r *resolution) aliasesFor(value string) []string {
	if len(r.attr.Aliases) == 0 {
		return nil
	}
	key := strings.ToLower(strings.TrimSpace(value))
	if aliases := r.attr.AliasesFor(key); len(aliases) > 0 {
		return aliases
	}
	normalized := strings.ReplaceAll(strings.ReplaceAll(key, " ", "_"), "-", "_")
	if aliases := r.attr.AliasesFor(normalized); len(aliases) > 0 {
		return aliases
	}
	for canonical, aliases := range r.attr.Aliases {
		for _, a := range aliases {
			if strings.EqualFold(a, value) {
				return r.attr.AliasesFor(canonical)
			}
		}
	}
	return nil
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func splitLocation(loc string) (city, state string) {
	parts := strings.Split(loc, ",")
	if len(parts) > 0 {
		city = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		state = strings.TrimSpace(parts[1])
	}
	return city, state
}

func location(p *types.Profile) string {
	if p.Location != "" {
		return p.Location
	}
	var parts []string
	for _, s := range []string{p.City, p.State} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func intValue(i *int) (string, bool) {
	if i == nil {
		return "", false
	}
	return strconv.Itoa(*i), true
}
