package course

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/irsalhamdi/learner-portal/api/web"
	"github.com/irsalhamdi/learner-portal/upstream"
)

var ErrNotFound = errors.New("course not found")

const coursesPath = "/api/courses/"

func listParams(page int, ids []int) url.Values {
	q := url.Values{
		"page":                    {strconv.Itoa(page)},
		"live":                    {"true"},
		"page__live":              {"true"},
		"courserun_is_enrollable": {"true"},
	}
	if len(ids) > 0 {
		q.Set("id", web.JoinIDs(ids))
	}
	return q
}

// FetchPage loads one page of the live catalog, optionally restricted to ids.
func FetchPage(ctx context.Context, cl *upstream.Client, page int, ids []int) (upstream.Page[Course], error) {
	if page < 1 {
		page = 1
	}

	var out upstream.Page[Course]
	q := upstream.Query{
		Key:    fmt.Sprintf("courses:%d:%s", page, web.JoinIDs(ids)),
		Path:   coursesPath,
		Params: listParams(page, ids),
		Shared: true,
	}
	if err := cl.Get(ctx, q, &out); err != nil {
		return upstream.Page[Course]{}, fmt.Errorf("fetching courses page %d: %w", page, err)
	}
	return out, nil
}

// Fetch loads a single course with the runs as seen by the current learner.
func Fetch(ctx context.Context, cl *upstream.Client, id int) (Course, error) {
	var out []Course
	q := upstream.Query{
		Key:    "course:" + strconv.Itoa(id),
		Path:   coursesPath,
		Params: url.Values{"id": {strconv.Itoa(id)}, "live": {"true"}},
	}
	if err := cl.Get(ctx, q, &out); err != nil {
		if upstream.IsNotFound(err) {
			return Course{}, ErrNotFound
		}
		return Course{}, fmt.Errorf("fetching course %d: %w", id, err)
	}

	for _, c := range out {
		if c.ID == id {
			return c, nil
		}
	}
	return Course{}, ErrNotFound
}
