package enrollment

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/irsalhamdi/learner-portal/upstream"
)

// Cache keys of the learner's enrollment queries. Every mutation drops both.
const (
	Key        = "enrollments"
	ProgramKey = "program_enrollments"
)

// FetchAll loads the learner's run enrollments.
func FetchAll(ctx context.Context, cl *upstream.Client) ([]RunEnrollment, error) {
	var out []RunEnrollment
	if err := cl.Get(ctx, upstream.Query{Key: Key, Path: "/api/enrollments/"}, &out); err != nil {
		return nil, fmt.Errorf("fetching enrollments: %w", err)
	}
	return out, nil
}

// Enroll submits the enrollment form for a run.
func Enroll(ctx context.Context, cl *upstream.Client, runID int) error {
	defer cl.Invalidate(ctx, Key, ProgramKey)

	if err := cl.PostForm(ctx, "/enrollments/", url.Values{"run": {strconv.Itoa(runID)}}); err != nil {
		return fmt.Errorf("enrolling in run %d: %w", runID, err)
	}
	return nil
}

// Deactivate unenrolls the learner.
func Deactivate(ctx context.Context, cl *upstream.Client, id int) error {
	defer cl.Invalidate(ctx, Key, ProgramKey)

	path := fmt.Sprintf("/api/enrollments/%d/", id)
	if err := cl.Send(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("unenrolling %d: %w", id, err)
	}
	return nil
}

// SetEmailsSubscription turns course emails on or off for an enrollment.
func SetEmailsSubscription(ctx context.Context, cl *upstream.Client, id int, subscribe bool) error {
	defer cl.Invalidate(ctx, Key, ProgramKey)

	// The service reads the checkbox value, so "off" is the empty string.
	body := map[string]string{"receive_emails": ""}
	if subscribe {
		body["receive_emails"] = "on"
	}

	path := fmt.Sprintf("/api/enrollments/%d/", id)
	if err := cl.Send(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("updating email subscription of %d: %w", id, err)
	}
	return nil
}
