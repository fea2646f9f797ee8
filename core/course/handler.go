package course

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/irsalhamdi/learner-portal/api/web"
	"github.com/irsalhamdi/learner-portal/api/weberr"
	"github.com/irsalhamdi/learner-portal/upstream"
	"github.com/irsalhamdi/learner-portal/validate"
)

// CatalogPage is one page of catalog cards.
type CatalogPage struct {
	Count       int      `json:"count"`
	Page        int      `json:"page"`
	HasNext     bool     `json:"has_next"`
	Departments []string `json:"departments"`
	Results     []Card   `json:"results"`
}

func HandleList(cl *upstream.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		page, err := web.QueryInt(r, "page", 1)
		if err != nil {
			return weberr.BadRequest(err)
		}
		ids, err := web.QueryIDs(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		res, err := FetchPage(ctx, cl, page, ids)
		if err != nil {
			return upstream.AsWebError(err)
		}

		depts := make([][]Department, len(res.Results))
		for i := range res.Results {
			depts[i] = res.Results[i].Departments
		}

		return web.Respond(ctx, w, CatalogPage{
			Count:       res.Count,
			Page:        page,
			HasNext:     res.Next != nil,
			Departments: append([]string{AllDepartments}, DepartmentNames(depts...)...),
			Results:     Catalog(res.Results, r.URL.Query().Get("department"), time.Now()),
		}, http.StatusOK)
	}
}

// OverrideKey is the session key holding the run picked for a course.
func OverrideKey(courseID int) string {
	return fmt.Sprintf("course:%d:run", courseID)
}

func HandleShow(cl *upstream.Client, sess *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.ParamID(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		c, err := Fetch(ctx, cl, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return upstream.AsWebError(err)
		}

		override := c.FindRun(sess.GetInt(ctx, OverrideKey(id)))

		return web.Respond(ctx, w, NewInfoBox(&c, override, time.Now(), cl.BaseURL()), http.StatusOK)
	}
}

type selectRun struct {
	RunID int `json:"run_id" validate:"required,gt=0"`
}

// HandleSelectRun remembers the session the learner picked in the date
// selector and answers with the updated info box.
func HandleSelectRun(cl *upstream.Client, sess *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.ParamID(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var in selectRun
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if err := validate.Check(in); err != nil {
			var fe validate.FieldErrors
			if errors.As(err, &fe) {
				return weberr.Invalid(err, fe)
			}
			return weberr.BadRequest(err)
		}

		c, err := Fetch(ctx, cl, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return upstream.AsWebError(err)
		}

		run := c.FindRun(in.RunID)
		if run == nil {
			err := fmt.Errorf("run %d does not belong to course %d", in.RunID, id)
			return weberr.Invalid(err, map[string]string{"run_id": "run_id is not a session of this course"})
		}

		sess.Put(ctx, OverrideKey(id), run.ID)

		return web.Respond(ctx, w, NewInfoBox(&c, run, time.Now(), cl.BaseURL()), http.StatusOK)
	}
}
