package course

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/irsalhamdi/learner-portal/core/cart"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func days(n int) *time.Time {
	t := now.AddDate(0, 0, n)
	return &t
}

func TestIsArchived(t *testing.T) {
	tests := []struct {
		name string
		run  *Run
		want bool
	}{
		{"nil run", nil, false},
		{"undated", &Run{}, false},
		{"ended, enrollment open-ended", &Run{EndDate: days(-1)}, true},
		{"ended, enrollment still open", &Run{EndDate: days(-1), EnrollmentEnd: days(30)}, true},
		{"ended, enrollment closed", &Run{EndDate: days(-1), EnrollmentEnd: days(-2)}, false},
		{"running", &Run{StartDate: days(-10), EndDate: days(10)}, false},
		{"no end date", &Run{StartDate: days(-100)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.run.IsArchived(now); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIsWithinEnrollmentPeriod(t *testing.T) {
	tests := []struct {
		name string
		run  *Run
		want bool
	}{
		{"nil run", nil, false},
		{"undated is always open", &Run{}, true},
		{"opened, open-ended", &Run{EnrollmentStart: days(-1)}, true},
		{"opened, closes later", &Run{EnrollmentStart: days(-1), EnrollmentEnd: days(1)}, true},
		{"not yet open", &Run{EnrollmentStart: days(1)}, false},
		{"closed", &Run{EnrollmentStart: days(-10), EnrollmentEnd: days(-1)}, false},
		{"closes exactly now", &Run{EnrollmentEnd: &now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.run.IsWithinEnrollmentPeriod(now); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIsEnrollmentFuture(t *testing.T) {
	if (&Run{}).IsEnrollmentFuture(now) {
		t.Error("undated run reported as future")
	}
	if !(&Run{EnrollmentStart: days(3)}).IsEnrollmentFuture(now) {
		t.Error("future enrollment not reported")
	}
	if (&Run{EnrollmentStart: days(-3)}).IsEnrollmentFuture(now) {
		t.Error("past enrollment reported as future")
	}
}

func TestIsSelfPacedAndStarted(t *testing.T) {
	tests := []struct {
		name string
		run  *Run
		want bool
	}{
		{"self-paced started", &Run{IsSelfPaced: true, StartDate: days(-1)}, true},
		{"self-paced upcoming", &Run{IsSelfPaced: true, StartDate: days(1)}, false},
		{"self-paced undated", &Run{IsSelfPaced: true}, false},
		{"instructor-paced started", &Run{StartDate: days(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.run.IsSelfPacedAndStarted(now); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIsFinancialAssistanceAvailable(t *testing.T) {
	page := &Page{FinancialAssistanceFormURL: "/finaid/form/"}

	if !(&Run{}).IsFinancialAssistanceAvailable(page) {
		t.Error("form url present, no approved price: expected available")
	}
	if (&Run{ApprovedFlexiblePriceExists: true}).IsFinancialAssistanceAvailable(page) {
		t.Error("approved flexible price must hide the form")
	}
	if (&Run{}).IsFinancialAssistanceAvailable(&Page{}) {
		t.Error("empty form url must hide the form")
	}
	if (&Run{}).IsFinancialAssistanceAvailable(nil) {
		t.Error("no page at all must hide the form")
	}
	if !(&Run{Page: page}).IsFinancialAssistanceAvailable(nil) {
		t.Error("run page should be used when no course page is given")
	}
}

func TestPredicatesOnUndatedRun(t *testing.T) {
	var r Run

	if r.IsArchived(now) || r.IsEnrollmentFuture(now) || r.IsSelfPacedAndStarted(now) {
		t.Fatal("undated run must not be archived, future, or started")
	}
	if !r.IsWithinEnrollmentPeriod(now) {
		t.Fatal("undated run must be open")
	}
	if r.IsCatalogVisible(now) {
		t.Fatal("undated run is not catalog visible")
	}
}

func TestIsLinkable(t *testing.T) {
	if (&Run{StartDate: days(-1)}).IsLinkable(now) {
		t.Error("no courseware url must not be linkable")
	}
	if (&Run{CoursewareURL: "/courses/x", StartDate: days(1)}).IsLinkable(now) {
		t.Error("upcoming run must not be linkable")
	}
	if !(&Run{CoursewareURL: "/courses/x", StartDate: days(-1)}).IsLinkable(now) {
		t.Error("started run with courseware should be linkable")
	}
}

func TestCanUpgrade(t *testing.T) {
	product := []cart.Product{{ID: 1, Price: decimal.NewFromInt(999)}}

	tests := []struct {
		name string
		run  *Run
		want bool
	}{
		{"upgradable, no deadline", &Run{IsUpgradable: true, Products: product}, true},
		{"deadline ahead", &Run{IsUpgradable: true, Products: product, UpgradeDeadline: days(2)}, true},
		{"deadline passed", &Run{IsUpgradable: true, Products: product, UpgradeDeadline: days(-2)}, false},
		{"not upgradable", &Run{Products: product}, false},
		{"no product", &Run{IsUpgradable: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.run.CanUpgrade(now); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
