package enrollment

import (
	"net/url"
	"time"

	"github.com/irsalhamdi/learner-portal/core/course"
)

// Card is the dashboard entry for one enrollment.
type Card struct {
	EnrollmentID       int                 `json:"enrollment_id"`
	RunID              int                 `json:"run_id"`
	CourseID           int                 `json:"course_id"`
	Title              string              `json:"title"`
	CourseNumber       string              `json:"course_number"`
	FeatureImageSrc    string              `json:"feature_image_src,omitempty"`
	CoursewareURL      string              `json:"courseware_url,omitempty"`
	DateText           string              `json:"date_text,omitempty"`
	EmailsSubscription bool                `json:"emails_subscription"`
	Mode               string              `json:"enrollment_mode"`
	State              State               `json:"state"`
	Upgrade            *course.Certificate `json:"upgrade,omitempty"`
}

// NewCard builds the dashboard card. The courseware link is only given once
// the run started; needsAddlFields sends the learner through the additional
// profile fields form first.
func NewCard(e *RunEnrollment, now time.Time, cartBase string, needsAddlFields bool) Card {
	card := Card{
		EnrollmentID:       e.ID,
		RunID:              e.Run.ID,
		CourseID:           e.CourseID(),
		Title:              e.Run.Title,
		DateText:           StartDateText(&e.Run, now),
		EmailsSubscription: e.EmailsSubscription,
		Mode:               e.EnrollmentMode,
		State:              StateOf(e),
	}

	if d := e.Run.Course; d != nil {
		card.Title = d.Title
		card.CourseNumber = d.ReadableID
		card.FeatureImageSrc = d.FeatureImageSrc
	}

	if e.Run.IsLinkable(now) {
		card.CoursewareURL = CoursewareURL(e.Run.CoursewareURL, needsAddlFields)
	}

	if e.CanUpgrade(now) {
		card.Upgrade = course.NewCertificate(&e.Run, nil, cartBase)
	}

	return card
}

// CoursewareURL marks the course home link when the learner still owes the
// additional profile fields.
func CoursewareURL(raw string, needsAddlFields bool) string {
	if !needsAddlFields || raw == "" {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set("needs_addl_fields", "true")
	u.RawQuery = q.Encode()
	return u.String()
}

// StartDateText describes where the run is in its schedule.
func StartDateText(r *course.Run, now time.Time) string {
	switch {
	case r == nil || r.StartDate == nil:
		return ""
	case r.EndDate != nil && r.EndDate.Before(now):
		return "Ended: " + course.PrettyDate(r.EndDate)
	case r.StartDate.After(now):
		return "Starts: " + course.PrettyDate(r.StartDate)
	case r.IsSelfPaced:
		return "Active from: " + course.Anytime
	default:
		return "Active from: " + course.PrettyDate(r.StartDate)
	}
}
