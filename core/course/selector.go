package course

import "time"

// SelectableRuns lists the other sessions a learner may pick instead of the
// relevant one, in source order. Only runs currently open for enrollment are
// offered, and nothing is offered when the relevant run is archived.
func SelectableRuns(runs []Run, relevant *Run, now time.Time) []Run {
	if relevant == nil || len(runs) < 2 || relevant.IsArchived(now) {
		return nil
	}

	var out []Run
	for i := range runs {
		r := &runs[i]
		if r.ID == relevant.ID {
			continue
		}
		if r.IsEnrollable || r.IsWithinEnrollmentPeriod(now) {
			out = append(out, *r)
		}
	}
	return out
}
