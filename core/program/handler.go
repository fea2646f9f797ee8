package program

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/irsalhamdi/learner-portal/api/web"
	"github.com/irsalhamdi/learner-portal/api/weberr"
	"github.com/irsalhamdi/learner-portal/core/course"
	"github.com/irsalhamdi/learner-portal/upstream"
)

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

		depts := make([][]course.Department, len(res.Results))
		for i := range res.Results {
			depts[i] = res.Results[i].Departments
		}

		return web.Respond(ctx, w, CatalogPage{
			Count:       res.Count,
			Page:        page,
			HasNext:     res.Next != nil,
			Departments: append([]string{course.AllDepartments}, course.DepartmentNames(depts...)...),
			Results:     Catalog(res.Results, r.URL.Query().Get("department")),
		}, http.StatusOK)
	}
}

func HandleShow(cl *upstream.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.ParamID(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		p, err := Fetch(ctx, cl, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return upstream.AsWebError(err)
		}

		return web.Respond(ctx, w, NewDetail(&p, time.Now(), cl.BaseURL()), http.StatusOK)
	}
}
