package course

import (
	"time"

	"github.com/irsalhamdi/learner-portal/core/cart"
)

// The predicates below take the instant to evaluate at and accept a nil run.
// A missing date never makes a run unavailable: an undated run is treated as
// perpetually open and never archived.

// IsArchived reports whether the run has ended while its enrollment window is
// still nominally open, so content stays reachable.
func (r *Run) IsArchived(now time.Time) bool {
	if r == nil || r.EndDate == nil {
		return false
	}
	if !now.After(*r.EndDate) {
		return false
	}
	return r.EnrollmentEnd == nil || now.Before(*r.EnrollmentEnd)
}

// IsWithinEnrollmentPeriod reports whether enrollment is open at now.
func (r *Run) IsWithinEnrollmentPeriod(now time.Time) bool {
	if r == nil {
		return false
	}
	if r.EnrollmentStart != nil && r.EnrollmentStart.After(now) {
		return false
	}
	return r.EnrollmentEnd == nil || r.EnrollmentEnd.After(now)
}

// IsEnrollmentFuture reports whether enrollment has a start date still ahead.
func (r *Run) IsEnrollmentFuture(now time.Time) bool {
	return r != nil && r.EnrollmentStart != nil && r.EnrollmentStart.After(now)
}

// IsSelfPacedAndStarted reports whether the run's start date can be shown as
// "Anytime".
func (r *Run) IsSelfPacedAndStarted(now time.Time) bool {
	return r != nil && r.IsSelfPaced && r.StartDate != nil && r.StartDate.Before(now)
}

// IsFinancialAssistanceAvailable reports whether to offer the financial
// assistance form. page is the course page; when nil the run's own page is
// used.
func (r *Run) IsFinancialAssistanceAvailable(page *Page) bool {
	if r == nil {
		return false
	}
	if page == nil {
		page = r.Page
	}
	return page != nil && page.FinancialAssistanceFormURL != "" && !r.ApprovedFlexiblePriceExists
}

// IsLinkable reports whether the learner can be sent to the courseware.
func (r *Run) IsLinkable(now time.Time) bool {
	if r == nil || r.CoursewareURL == "" {
		return false
	}
	return r.StartDate == nil || !r.StartDate.After(now)
}

// IsCatalogVisible reports whether the run qualifies its course for the
// catalog: live, dated, and with an enrollment window that has opened and not
// closed.
func (r *Run) IsCatalogVisible(now time.Time) bool {
	if r == nil || !r.Live || r.StartDate == nil || r.EnrollmentStart == nil {
		return false
	}
	if r.EnrollmentStart.After(now) {
		return false
	}
	return r.EnrollmentEnd == nil || r.EnrollmentEnd.After(now)
}

// Product returns the run's certificate product, or nil when it has none.
func (r *Run) Product() *cart.Product {
	if r == nil || len(r.Products) == 0 {
		return nil
	}
	return &r.Products[0]
}

// CanUpgrade reports whether a learner on the free track may still buy the
// certificate for this run.
func (r *Run) CanUpgrade(now time.Time) bool {
	if r == nil || !r.IsUpgradable || r.Product() == nil {
		return false
	}
	return r.UpgradeDeadline == nil || r.UpgradeDeadline.After(now)
}
