package program

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/irsalhamdi/learner-portal/api/web"
	"github.com/irsalhamdi/learner-portal/core/enrollment"
	"github.com/irsalhamdi/learner-portal/upstream"
)

var ErrNotFound = errors.New("program not found")

const programsPath = "/api/v2/programs/"

// FetchPage loads one page of live programs, optionally restricted to ids.
func FetchPage(ctx context.Context, cl *upstream.Client, page int, ids []int) (upstream.Page[Program], error) {
	if page < 1 {
		page = 1
	}

	params := url.Values{
		"page":       {strconv.Itoa(page)},
		"live":       {"true"},
		"page__live": {"true"},
	}
	idList := web.JoinIDs(ids)
	if idList != "" {
		params.Set("id", idList)
	}

	var out upstream.Page[Program]
	q := upstream.Query{
		Key:    fmt.Sprintf("programs:%d:%s", page, idList),
		Path:   programsPath,
		Params: params,
		Shared: true,
	}
	if err := cl.Get(ctx, q, &out); err != nil {
		return upstream.Page[Program]{}, fmt.Errorf("fetching programs page %d: %w", page, err)
	}
	return out, nil
}

// Fetch loads a single live program.
func Fetch(ctx context.Context, cl *upstream.Client, id int) (Program, error) {
	res, err := FetchPage(ctx, cl, 1, []int{id})
	if err != nil {
		if upstream.IsNotFound(err) {
			return Program{}, ErrNotFound
		}
		return Program{}, err
	}

	for _, p := range res.Results {
		if p.ID == id {
			return p, nil
		}
	}
	return Program{}, ErrNotFound
}

// FetchEnrollments loads the learner's program enrollments.
func FetchEnrollments(ctx context.Context, cl *upstream.Client) ([]Enrollment, error) {
	var out []Enrollment
	q := upstream.Query{Key: enrollment.ProgramKey, Path: "/api/program_enrollments/"}
	if err := cl.Get(ctx, q, &out); err != nil {
		return nil, fmt.Errorf("fetching program enrollments: %w", err)
	}
	return out, nil
}
