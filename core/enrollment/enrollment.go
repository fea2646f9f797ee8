// Package enrollment covers the learner's course run enrollments: their
// state, the dashboard card for each, and the enroll, unenroll and email
// subscription mutations.
package enrollment

import (
	"time"

	"github.com/irsalhamdi/learner-portal/core/course"
)

const (
	ModeAudit    = "audit"
	ModeVerified = "verified"
)

type Grade struct {
	Grade       float64 `json:"grade"`
	LetterGrade string  `json:"letter_grade"`
	Passed      bool    `json:"passed"`
	SetByAdmin  bool    `json:"set_by_admin"`
}

// RunEnrollment is the learner's seat in one course run.
type RunEnrollment struct {
	ID                 int        `json:"id"`
	Run                course.Run `json:"run"`
	EmailsSubscription bool       `json:"edx_emails_subscription"`
	EnrollmentMode     string     `json:"enrollment_mode"`
	Grades             []Grade    `json:"grades"`
}

// HasPassingGrade reports whether any grade on the enrollment is passing.
func (e *RunEnrollment) HasPassingGrade() bool {
	if e == nil {
		return false
	}
	for _, g := range e.Grades {
		if g.Passed {
			return true
		}
	}
	return false
}

// CourseID is the id of the enrolled course, or 0 when the run does not say.
func (e *RunEnrollment) CourseID() int {
	if e == nil || e.Run.Course == nil {
		return 0
	}
	return e.Run.Course.ID
}

// CanUpgrade reports whether the learner may still buy the certificate.
func (e *RunEnrollment) CanUpgrade(now time.Time) bool {
	return e != nil && e.EnrollmentMode != ModeVerified && e.Run.CanUpgrade(now)
}

type State string

const (
	NotEnrolled State = "not_enrolled"
	Enrolled    State = "enrolled"
	Passed      State = "passed"
	NotPassed   State = "not_passed"
)

// StateOf derives the card state from what the server reported. A graded
// enrollment without a passing grade is NotPassed; ungraded ones stay
// Enrolled.
func StateOf(e *RunEnrollment) State {
	switch {
	case e == nil:
		return NotEnrolled
	case e.HasPassingGrade():
		return Passed
	case len(e.Grades) > 0:
		return NotPassed
	default:
		return Enrolled
	}
}

// ForCourse returns the enrollment in any run of c.
func ForCourse(enrollments []RunEnrollment, c *course.Course) *RunEnrollment {
	if c == nil {
		return nil
	}
	for i := range enrollments {
		e := &enrollments[i]
		if (e.CourseID() != 0 && e.CourseID() == c.ID) || c.FindRun(e.Run.ID) != nil {
			return e
		}
	}
	return nil
}

// Find returns the enrollment with the given id.
func Find(enrollments []RunEnrollment, id int) *RunEnrollment {
	for i := range enrollments {
		if enrollments[i].ID == id {
			return &enrollments[i]
		}
	}
	return nil
}
