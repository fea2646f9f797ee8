package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/irsalhamdi/learner-portal/api/web"
	"github.com/irsalhamdi/learner-portal/api/weberr"
	"github.com/irsalhamdi/learner-portal/core/claims"
	"github.com/irsalhamdi/learner-portal/rate"
)

// RateLimit throttles per learner, falling back to the client address for
// anonymous requests.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			id := ""
			if cl, err := claims.Get(ctx); err == nil {
				id = cl.Scope()
			}
			if id == "" {
				id = r.RemoteAddr
				if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
					id = host
				}
			}

			if !lim.Check(id) {
				return weberr.TooManyRequests(fmt.Errorf("rate limit exceeded for %s", id))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
