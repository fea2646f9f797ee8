package course

import "time"

const (
	prettyLayout = "January 2, 2006"
	shortLayout  = "Jan 2, 2006"
)

// Anytime replaces the start date of self-paced runs that already started.
const Anytime = "Anytime"

// PrettyDate formats t as "January 2, 2006"; nil yields "".
func PrettyDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(prettyLayout)
}

// ShortDate formats t as "Jan 2, 2006"; nil yields "".
func ShortDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(shortLayout)
}

// MinDate returns the earliest non-nil date, or nil.
func MinDate(dates ...*time.Time) *time.Time {
	return extreme(dates, func(a, b time.Time) bool { return a.Before(b) })
}

// MaxDate returns the latest non-nil date, or nil.
func MaxDate(dates ...*time.Time) *time.Time {
	return extreme(dates, func(a, b time.Time) bool { return a.After(b) })
}

func extreme(dates []*time.Time, better func(a, b time.Time) bool) *time.Time {
	var out *time.Time
	for _, d := range dates {
		if d == nil {
			continue
		}
		if out == nil || better(*d, *out) {
			out = d
		}
	}
	return out
}

// SameDayOrLater compares calendar days in a's location.
func SameDayOrLater(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.In(a.Location()).Date()
	da := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	db := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return !da.Before(db)
}

// Dates is the start/end block shown for a run.
type Dates struct {
	RunID          int    `json:"run_id"`
	Start          string `json:"start"`
	End            string `json:"end,omitempty"`
	ContentAnytime bool   `json:"content_anytime,omitempty"`
}

// RunDates builds the date block for r. Archived runs only show their start
// and flag that content is available anytime; short selects the compact
// format used in the "more dates" list.
func RunDates(r *Run, now time.Time, archived, short bool) Dates {
	if r == nil {
		return Dates{}
	}

	format := PrettyDate
	if short {
		format = ShortDate
	}

	if archived {
		return Dates{RunID: r.ID, Start: PrettyDate(r.StartDate), ContentAnytime: true}
	}

	d := Dates{RunID: r.ID, Start: format(r.StartDate), End: format(r.EndDate)}
	if r.IsSelfPacedAndStarted(now) {
		d.Start = Anytime
	}
	return d
}
