package user

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/irsalhamdi/learner-portal/validate"
)

const (
	learnerTypeMessage = "Please specify which category you fall into."
	stateMessage       = "State is a required field"
)

type AddlFields struct {
	Company            string `json:"company" validate:"max=128"`
	JobTitle           string `json:"job_title" validate:"max=128"`
	Industry           string `json:"industry" validate:"max=60"`
	JobFunction        string `json:"job_function" validate:"max=60"`
	CompanySize        *int   `json:"company_size" validate:"omitempty,min=0"`
	YearsExperience    *int   `json:"years_experience" validate:"omitempty,min=0"`
	LeadershipLevel    string `json:"leadership_level" validate:"max=60"`
	HighestEducation   string `json:"highest_education" validate:"max=60"`
	TypeIsStudent      bool   `json:"type_is_student"`
	TypeIsProfessional bool   `json:"type_is_professional"`
	TypeIsEducator     bool   `json:"type_is_educator"`
	TypeIsOther        bool   `json:"type_is_other"`
}

// AddlFieldsForm is the body of the additional profile fields form.
type AddlFieldsForm struct {
	Profile AddlFields `json:"user_profile"`
}

// Validate checks field lengths and that a learner type was picked.
func (f AddlFieldsForm) Validate() error {
	fields := validate.FieldErrors{}

	if err := validate.Check(f); err != nil {
		var fe validate.FieldErrors
		if !errors.As(err, &fe) {
			return err
		}
		for k, v := range fe {
			fields[k] = v
		}
	}

	p := f.Profile
	if !p.TypeIsStudent && !p.TypeIsProfessional && !p.TypeIsEducator && !p.TypeIsOther {
		fields["user_profile.type_is_student"] = learnerTypeMessage
	}

	if len(fields) > 0 {
		return fields
	}
	return nil
}

// Apply copies the form onto p and marks the fields as collected.
func (f AddlFieldsForm) Apply(p *Profile) Profile {
	var out Profile
	if p != nil {
		out = *p
	}

	in := f.Profile
	out.Company = in.Company
	out.JobTitle = in.JobTitle
	out.Industry = in.Industry
	out.JobFunction = in.JobFunction
	out.CompanySize = in.CompanySize
	out.YearsExperience = in.YearsExperience
	out.LeadershipLevel = in.LeadershipLevel
	out.HighestEducation = in.HighestEducation
	out.TypeIsStudent = in.TypeIsStudent
	out.TypeIsProfessional = in.TypeIsProfessional
	out.TypeIsEducator = in.TypeIsEducator
	out.TypeIsOther = in.TypeIsOther
	out.AddlFieldFlag = true
	return out
}

// LegalAddress is the part of the upstream legal address the learner edits.
// A state is required for the United States and Canada.
type LegalAddress struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Country   string `json:"country" validate:"required"`
	State     string `json:"state" validate:"required_if=Country US,required_if=Country CA"`
}

type ProfileFields struct {
	Gender      *string `json:"gender"`
	YearOfBirth *int    `json:"year_of_birth" validate:"required"`
}

// ProfileForm is the body of the profile form: the learner's name, legal
// address and demographics.
type ProfileForm struct {
	Name         string        `json:"name" validate:"required,min=2,max=255"`
	LegalAddress LegalAddress  `json:"legal_address"`
	Profile      ProfileFields `json:"user_profile"`
}

func (f ProfileForm) Validate() error {
	err := validate.Check(f)

	var fe validate.FieldErrors
	if !errors.As(err, &fe) {
		return err
	}
	if _, ok := fe["legal_address.state"]; ok {
		fe["legal_address.state"] = stateMessage
	}
	return fe
}

// Apply returns u with the form's name and legal address, and u's profile
// with the form's demographics. Legal address keys the form does not carry
// are kept as stored upstream.
func (f ProfileForm) Apply(u CurrentUser) (CurrentUser, Profile, error) {
	var addr map[string]any
	if len(u.LegalAddress) > 0 {
		if err := json.Unmarshal(u.LegalAddress, &addr); err != nil {
			return CurrentUser{}, Profile{}, fmt.Errorf("decoding legal address: %w", err)
		}
	}
	if addr == nil {
		addr = make(map[string]any)
	}

	la := f.LegalAddress
	addr["first_name"] = la.FirstName
	addr["last_name"] = la.LastName
	addr["country"] = la.Country
	addr["state"] = nil
	if la.State != "" {
		addr["state"] = la.State
	}

	raw, err := json.Marshal(addr)
	if err != nil {
		return CurrentUser{}, Profile{}, fmt.Errorf("encoding legal address: %w", err)
	}

	out := u
	out.Name = f.Name
	out.LegalAddress = raw

	var p Profile
	if u.Profile != nil {
		p = *u.Profile
	}
	p.Gender = ""
	if f.Profile.Gender != nil {
		p.Gender = *f.Profile.Gender
	}
	p.YearOfBirth = f.Profile.YearOfBirth

	return out, p, nil
}
