package course

import (
	"time"

	"github.com/irsalhamdi/learner-portal/core/cart"
)

const (
	archivedWarning  = "This course is no longer active, but you can still access selected content."
	noSessionWarning = "No sessions of this course are currently open for enrollment. More sessions may be added in the future."
	noCertificate    = "No certificate available."

	SelfPaced       = "Self-paced"
	InstructorPaced = "Instructor-paced"
)

// Certificate describes the paid certificate track for a run.
type Certificate struct {
	ProductID              int    `json:"product_id"`
	Price                  string `json:"price"`
	CartURL                string `json:"cart_url"`
	FinancialAssistanceURL string `json:"financial_assistance_url,omitempty"`
	UpgradeDeadline        string `json:"upgrade_deadline,omitempty"`
}

// InfoBox is everything the course page shows about enrolling.
type InfoBox struct {
	CourseID         int          `json:"course_id"`
	Title            string       `json:"title"`
	RunID            int          `json:"run_id,omitempty"`
	RunTitle         string       `json:"run_title,omitempty"`
	Archived         bool         `json:"archived"`
	Enrollable       bool         `json:"enrollable"`
	EnrollmentFuture bool         `json:"enrollment_future"`
	Warning          string       `json:"warning,omitempty"`
	Dates            *Dates       `json:"dates,omitempty"`
	MoreDates        []Dates      `json:"more_dates,omitempty"`
	Format           string       `json:"format,omitempty"`
	Length           string       `json:"length,omitempty"`
	Effort           string       `json:"effort,omitempty"`
	Certificate      *Certificate `json:"certificate,omitempty"`
	CertificateNote  string       `json:"certificate_note,omitempty"`
	Programs         []ProgramRef `json:"programs,omitempty"`
}

// NewInfoBox derives the course page enrollment box. override is the session
// the learner picked, if any; cartBase is the upstream site root used for the
// checkout hand-off.
func NewInfoBox(c *Course, override *Run, now time.Time, cartBase string) InfoBox {
	box := InfoBox{CourseID: c.ID, Title: c.Title, Programs: c.Programs}
	if c.Page != nil {
		box.Length = c.Page.Length
		box.Effort = c.Page.Effort
	}

	run := c.RelevantRun(override)
	if run == nil {
		box.Warning = noSessionWarning
		box.CertificateNote = noCertificate
		return box
	}

	box.RunID = run.ID
	box.RunTitle = run.Title
	box.Archived = run.IsArchived(now)
	box.Enrollable = run.IsWithinEnrollmentPeriod(now)
	box.EnrollmentFuture = run.IsEnrollmentFuture(now)

	dates := RunDates(run, now, box.Archived, false)
	box.Dates = &dates

	if box.Archived {
		box.Warning = archivedWarning
	}

	for _, other := range SelectableRuns(c.Runs, run, now) {
		other := other
		box.MoreDates = append(box.MoreDates, RunDates(&other, now, false, true))
	}

	box.Format = InstructorPaced
	if box.Archived || run.IsSelfPaced {
		box.Format = SelfPaced
	}

	if !box.Archived {
		box.Certificate = NewCertificate(run, c.Page, cartBase)
	}
	if box.Certificate == nil {
		box.CertificateNote = noCertificate
	}
	return box
}

// NewCertificate describes buying the certificate for run, or nil when the
// run sells none. page is the course page; the run's own page is used when
// it is nil.
func NewCertificate(run *Run, page *Page, cartBase string) *Certificate {
	product := run.Product()
	if product == nil {
		return nil
	}

	cert := &Certificate{
		ProductID:       product.ID,
		Price:           cart.FormatPrice(cart.EffectivePrice(product)),
		CartURL:         cart.AddURL(cartBase, product.ID),
		UpgradeDeadline: PrettyDate(run.UpgradeDeadline),
	}
	if page == nil {
		page = run.Page
	}
	if run.IsFinancialAssistanceAvailable(page) {
		cert.FinancialAssistanceURL = page.FinancialAssistanceFormURL
	}
	return cert
}
