package course

// ResolveRelevantRun picks the run to present for a course.
//
// A run the learner explicitly picked wins when it belongs to the course.
// Otherwise the course's next_run_id is honoured, and failing that the first
// run in source order is used. The upstream makes no ordering promise, so when
// several runs are enrollable the UI offers SelectableRuns instead of relying
// on this default.
//
// The result always points at an element of runs or of c.Runs, never at a
// copy, and is nil when there is nothing to act on.
func ResolveRelevantRun(c *Course, runs []Run, override *Run) *Run {
	if len(runs) == 0 {
		return nil
	}

	if override != nil {
		if r := findRun(runs, override.ID); r != nil {
			return r
		}
		if c != nil {
			if r := findRun(c.Runs, override.ID); r != nil {
				return r
			}
		}
	}

	if c != nil && c.NextRunID != nil {
		if r := findRun(runs, *c.NextRunID); r != nil {
			return r
		}
	}

	return &runs[0]
}

// RelevantRun resolves against the course's own runs.
func (c *Course) RelevantRun(override *Run) *Run {
	if c == nil {
		return nil
	}
	return ResolveRelevantRun(c, c.Runs, override)
}

// FindRun returns the course run with the given id.
func (c *Course) FindRun(id int) *Run {
	if c == nil {
		return nil
	}
	return findRun(c.Runs, id)
}

func findRun(runs []Run, id int) *Run {
	for i := range runs {
		if runs[i].ID == id {
			return &runs[i]
		}
	}
	return nil
}
