// Package course models courses and their runs as served by the upstream
// catalog, and derives everything the learner sees about a run: whether it is
// open, archived or upcoming, which run is the relevant one, and what the
// certificate costs.
package course

import (
	"time"

	"github.com/irsalhamdi/learner-portal/core/cart"
)

// Page holds the marketing page fields attached to a course or run.
type Page struct {
	PageURL                    string `json:"page_url"`
	Description                string `json:"description"`
	Length                     string `json:"length"`
	Effort                     string `json:"effort"`
	FeatureImageSrc            string `json:"feature_image_src"`
	FinancialAssistanceFormURL string `json:"financial_assistance_form_url"`
	Live                       bool   `json:"live"`
}

// Detail is the short course record embedded in a run.
type Detail struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	ReadableID      string `json:"readable_id"`
	FeatureImageSrc string `json:"feature_image_src"`
}

// Run is a single scheduled offering of a course.
type Run struct {
	ID              int        `json:"id"`
	Title           string     `json:"title"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	EnrollmentStart *time.Time `json:"enrollment_start"`
	EnrollmentEnd   *time.Time `json:"enrollment_end"`
	ExpirationDate  *time.Time `json:"expiration_date"`
	UpgradeDeadline *time.Time `json:"upgrade_deadline"`
	CoursewareURL   string     `json:"courseware_url"`
	CoursewareID    string     `json:"courseware_id"`
	RunTag          string     `json:"run_tag"`
	Live            bool       `json:"live"`
	IsSelfPaced     bool       `json:"is_self_paced"`
	IsUpgradable    bool       `json:"is_upgradable"`
	IsEnrollable    bool       `json:"is_enrollable"`
	IsEnrolled      bool       `json:"is_enrolled"`

	ApprovedFlexiblePriceExists bool `json:"approved_flexible_price_exists"`

	Products []cart.Product `json:"products"`
	Page     *Page          `json:"page"`
	Course   *Detail        `json:"course"`
}

type Department struct {
	Name string `json:"name"`
}

// ProgramRef is the short program record embedded in a course.
type ProgramRef struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	ReadableID string `json:"readable_id"`
}

type Course struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	ReadableID  string       `json:"readable_id"`
	NextRunID   *int         `json:"next_run_id"`
	Runs        []Run        `json:"courseruns"`
	Programs    []ProgramRef `json:"programs"`
	Departments []Department `json:"departments"`
	Page        *Page        `json:"page"`
}
