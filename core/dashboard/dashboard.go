// Package dashboard assembles the learner's home: their course enrollments
// and a drawer for every program they follow.
package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/learner-portal/api/web"
	"github.com/irsalhamdi/learner-portal/core/enrollment"
	"github.com/irsalhamdi/learner-portal/core/program"
	"github.com/irsalhamdi/learner-portal/core/user"
	"github.com/irsalhamdi/learner-portal/upstream"
)

type Dashboard struct {
	NeedsAddlFields bool              `json:"needs_addl_fields"`
	Enrollments     []enrollment.Card `json:"enrollments"`
	Programs        []program.Drawer  `json:"programs"`
}

// Build derives the dashboard from fetched snapshots.
func Build(enrollments []enrollment.RunEnrollment, programs []program.Enrollment, needsAddlFields bool, now time.Time, cartBase string) Dashboard {
	d := Dashboard{
		NeedsAddlFields: needsAddlFields,
		Enrollments:     make([]enrollment.Card, 0, len(enrollments)),
		Programs:        make([]program.Drawer, 0, len(programs)),
	}

	for i := range enrollments {
		d.Enrollments = append(d.Enrollments, enrollment.NewCard(&enrollments[i], now, cartBase, needsAddlFields))
	}
	for i := range programs {
		d.Programs = append(d.Programs, program.NewDrawer(&programs[i]))
	}
	return d
}

// Load fetches everything the dashboard needs for the current learner.
func Load(ctx context.Context, cl *upstream.Client, addlFieldsEnabled bool, now time.Time) (Dashboard, error) {
	u, err := user.Fetch(ctx, cl)
	if err != nil {
		return Dashboard{}, err
	}

	enrollments, err := enrollment.FetchAll(ctx, cl)
	if err != nil {
		return Dashboard{}, err
	}

	programs, err := program.FetchEnrollments(ctx, cl)
	if err != nil {
		return Dashboard{}, err
	}

	return Build(enrollments, programs, u.NeedsAddlFields(addlFieldsEnabled), now, cl.BaseURL()), nil
}

func HandleShow(cl *upstream.Client, addlFieldsEnabled bool) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		d, err := Load(ctx, cl, addlFieldsEnabled, time.Now())
		if err != nil {
			return upstream.AsWebError(fmt.Errorf("loading dashboard: %w", err))
		}
		return web.Respond(ctx, w, d, http.StatusOK)
	}
}
