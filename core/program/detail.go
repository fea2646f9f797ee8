package program

import (
	"time"

	"github.com/irsalhamdi/learner-portal/core/course"
)

// CourseOffer is the run offered for one course of a program.
type CourseOffer struct {
	CourseID    int                 `json:"course_id"`
	Title       string              `json:"title"`
	ReadableID  string              `json:"readable_id"`
	Run         *course.Dates       `json:"run,omitempty"`
	Enrollable  bool                `json:"enrollable"`
	Archived    bool                `json:"archived"`
	Certificate *course.Certificate `json:"certificate,omitempty"`
}

// Detail is the program page: every course with its relevant run.
type Detail struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	ReadableID  string        `json:"readable_id"`
	CourseCount int           `json:"course_count"`
	Courses     []CourseOffer `json:"courses"`
}

func NewDetail(p *Program, now time.Time, cartBase string) Detail {
	d := Detail{
		ID:          p.ID,
		Title:       p.Title,
		ReadableID:  p.ReadableID,
		CourseCount: len(p.Courses),
		Courses:     make([]CourseOffer, 0, len(p.Courses)),
	}

	for i := range p.Courses {
		c := &p.Courses[i]
		offer := CourseOffer{CourseID: c.ID, Title: c.Title, ReadableID: c.ReadableID}

		if run := c.RelevantRun(nil); run != nil {
			offer.Archived = run.IsArchived(now)
			dates := course.RunDates(run, now, offer.Archived, false)
			offer.Run = &dates
			offer.Enrollable = run.IsWithinEnrollmentPeriod(now)
			if !offer.Archived {
				offer.Certificate = course.NewCertificate(run, c.Page, cartBase)
			}
		}

		d.Courses = append(d.Courses, offer)
	}
	return d
}
