package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/irsalhamdi/learner-portal/api/web"
	"github.com/irsalhamdi/learner-portal/api/weberr"
	"github.com/irsalhamdi/learner-portal/core/claims"
)

// Credentials lifts the upstream session and CSRF cookies into the request
// claims. Their absence is not an error: catalog pages are public.
func Credentials(sessionCookie, csrfCookie string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var cl claims.Claims
			if c, err := r.Cookie(sessionCookie); err == nil {
				cl.SessionID = c.Value
			}
			if c, err := r.Cookie(csrfCookie); err == nil {
				cl.CSRFToken = c.Value
			}

			return handler(claims.Set(ctx, cl), w, r)
		}
		return h
	}
	return m
}

// Authenticate rejects requests without an upstream session.
func Authenticate() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !claims.IsAuthenticated(ctx) {
				return weberr.NotAuthorized(errors.New("no upstream session"))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// CSRF requires state-changing requests to echo the CSRF cookie in the
// X-CSRFToken header, the same check the upstream applies.
func CSRF() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return handler(ctx, w, r)
			}

			cl, err := claims.Get(ctx)
			if err != nil {
				return weberr.Forbidden(err)
			}
			header := r.Header.Get("X-CSRFToken")
			if cl.CSRFToken == "" || subtle.ConstantTimeCompare([]byte(header), []byte(cl.CSRFToken)) != 1 {
				return weberr.Forbidden(errors.New("csrf token missing or incorrect"))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
