package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/irsalhamdi/learner-portal/api/middleware"
	"github.com/irsalhamdi/learner-portal/api/web"
	"github.com/irsalhamdi/learner-portal/api/weberr"
	"github.com/irsalhamdi/learner-portal/core/cart"
	"github.com/irsalhamdi/learner-portal/core/course"
	"github.com/irsalhamdi/learner-portal/core/dashboard"
	"github.com/irsalhamdi/learner-portal/core/enrollment"
	"github.com/irsalhamdi/learner-portal/core/notice"
	"github.com/irsalhamdi/learner-portal/core/program"
	"github.com/irsalhamdi/learner-portal/core/user"
	"github.com/irsalhamdi/learner-portal/database"
	"github.com/irsalhamdi/learner-portal/metrics"
	"github.com/irsalhamdi/learner-portal/rate"
	"github.com/irsalhamdi/learner-portal/upstream"
)

type APIConfig struct {
	CorsOrigin        string
	Log               logrus.FieldLogger
	DB                *sqlx.DB
	Session           *scs.SessionManager
	Upstream          *upstream.Client
	Limiter           *rate.Limiter
	Metrics           *metrics.Metrics
	SessionCookie     string
	CSRFCookie        string
	SupportEmail      string
	AddlProfileFields bool
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.Router.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	a.mw = append(a.mw, middleware.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Metrics(cfg.Metrics))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())
	a.mw = append(a.mw, middleware.Credentials(cfg.SessionCookie, cfg.CSRFCookie))

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := middleware.Authenticate()
	mutation := []web.Middleware{authen, middleware.CSRF(), middleware.RateLimit(cfg.Limiter)}

	cl := cfg.Upstream
	notices := notice.NewQueue(cfg.Session)
	deps := enrollment.Deps{
		Client:       cl,
		Notices:      notices,
		SupportEmail: cfg.SupportEmail,
		Log:          cfg.Log,
	}

	a.Handle(http.MethodGet, "/healthz", handleHealth(cfg.DB))

	a.Handle(http.MethodGet, "/catalog/courses", course.HandleList(cl))
	a.Handle(http.MethodGet, "/catalog/programs", program.HandleList(cl))

	a.Handle(http.MethodGet, "/courses/{id}", course.HandleShow(cl, cfg.Session))
	a.Handle(http.MethodPut, "/courses/{id}/run", course.HandleSelectRun(cl, cfg.Session), middleware.CSRF())
	a.Handle(http.MethodGet, "/programs/{id}", program.HandleShow(cl))

	a.Handle(http.MethodGet, "/dashboard", dashboard.HandleShow(cl, cfg.AddlProfileFields), authen)

	a.Handle(http.MethodPost, "/enrollments", enrollment.HandleEnroll(deps), mutation...)
	a.Handle(http.MethodDelete, "/enrollments/{id}", enrollment.HandleUnenroll(deps), mutation...)
	a.Handle(http.MethodPatch, "/enrollments/{id}", enrollment.HandleSubscription(deps), mutation...)

	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(cl, cfg.AddlProfileFields), authen)
	a.Handle(http.MethodPatch, "/profile", user.HandleUpdateProfile(cl, cfg.AddlProfileFields), mutation...)
	a.Handle(http.MethodPatch, "/profile/addl-fields", user.HandleUpdateAddlFields(cl), mutation...)

	a.Handle(http.MethodGet, "/notifications", notice.HandleList(notices))
	a.Handle(http.MethodGet, "/cart/add", cart.HandleAdd(cl.BaseURL()), authen)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  web.RequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}

func handleHealth(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		status := struct {
			Status string `json:"status"`
		}{Status: "ok"}

		if db != nil {
			if err := database.StatusCheck(ctx, db); err != nil {
				return weberr.NewError(err, "database not ready", http.StatusServiceUnavailable)
			}
		}

		return web.Respond(ctx, w, status, http.StatusOK)
	}
}
