// Package user reads the learner's upstream account and edits it: the
// profile form and the additional profile fields asked before entering a
// course.
package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/learner-portal/upstream"
)

const (
	Key    = "current_user"
	mePath = "/api/users/me"
)

type Profile struct {
	Gender             string `json:"gender,omitempty"`
	YearOfBirth        *int   `json:"year_of_birth,omitempty"`
	AddlFieldFlag      bool   `json:"addl_field_flag"`
	Company            string `json:"company,omitempty"`
	JobTitle           string `json:"job_title,omitempty"`
	Industry           string `json:"industry,omitempty"`
	JobFunction        string `json:"job_function,omitempty"`
	CompanySize        *int   `json:"company_size,omitempty"`
	YearsExperience    *int   `json:"years_experience,omitempty"`
	LeadershipLevel    string `json:"leadership_level,omitempty"`
	HighestEducation   string `json:"highest_education,omitempty"`
	TypeIsStudent      bool   `json:"type_is_student"`
	TypeIsProfessional bool   `json:"type_is_professional"`
	TypeIsEducator     bool   `json:"type_is_educator"`
	TypeIsOther        bool   `json:"type_is_other"`
}

type CurrentUser struct {
	ID              int             `json:"id"`
	Username        string          `json:"username"`
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	IsAnonymous     bool            `json:"is_anonymous"`
	IsAuthenticated bool            `json:"is_authenticated"`
	IsStaff         bool            `json:"is_staff"`
	LegalAddress    json.RawMessage `json:"legal_address,omitempty"`
	Profile         *Profile        `json:"user_profile"`
}

// NeedsAddlFields reports whether the learner must fill in the additional
// profile fields before going to a course. enabled is the feature flag.
func (u *CurrentUser) NeedsAddlFields(enabled bool) bool {
	if !enabled || u == nil {
		return false
	}
	return u.Profile == nil || !u.Profile.AddlFieldFlag
}

func Fetch(ctx context.Context, cl *upstream.Client) (CurrentUser, error) {
	var u CurrentUser
	if err := cl.Get(ctx, upstream.Query{Key: Key, Path: mePath}, &u); err != nil {
		return CurrentUser{}, fmt.Errorf("fetching current user: %w", err)
	}
	return u, nil
}

type profileUpdate struct {
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	LegalAddress json.RawMessage `json:"legal_address,omitempty"`
	Profile      Profile         `json:"user_profile"`
}

// Update saves the profile for u and returns the account as stored upstream.
func Update(ctx context.Context, cl *upstream.Client, u CurrentUser, p Profile) (CurrentUser, error) {
	defer cl.Invalidate(ctx, Key, "enrollments", "program_enrollments")

	body := profileUpdate{Name: u.Name, Email: u.Email, LegalAddress: u.LegalAddress, Profile: p}

	var out CurrentUser
	if err := cl.Send(ctx, http.MethodPatch, mePath, body, &out); err != nil {
		return CurrentUser{}, fmt.Errorf("updating profile: %w", err)
	}
	return out, nil
}
