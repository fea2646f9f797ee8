package test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/irsalhamdi/learner-portal/api"
	"github.com/irsalhamdi/learner-portal/cache"
	"github.com/irsalhamdi/learner-portal/config"
	"github.com/irsalhamdi/learner-portal/metrics"
	"github.com/irsalhamdi/learner-portal/rate"
	"github.com/irsalhamdi/learner-portal/session"
	"github.com/irsalhamdi/learner-portal/upstream"
)

const (
	sessionID = "learner-session"
	csrfToken = "learner-csrf"
)

// TestEnv runs the portal against a fake upstream.
type TestEnv struct {
	*httptest.Server
	Upstream *httptest.Server
	Learner  *http.Client
}

func NewTestEnv(t *testing.T, upstreamHandler http.Handler) *TestEnv {
	t.Helper()

	up := httptest.NewServer(upstreamHandler)
	t.Cleanup(up.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	mtr := metrics.New()
	sess := session.NewManager(config.Session{Lifetime: time.Hour, CookieName: "portal_session"}, nil)

	cl := upstream.New(upstream.Config{
		BaseURL:       up.URL,
		Timeout:       time.Second,
		SessionCookie: "sessionid",
		CSRFCookie:    "csrftoken",
		Log:           log,
		Local:         cache.NewStore(time.Minute),
		Metrics:       mtr,
	})

	srv := httptest.NewServer(api.APIMux(api.APIConfig{
		Log:           log,
		Session:       sess,
		Upstream:      cl,
		Limiter:       rate.NewLimiter(100, 100, time.Minute),
		Metrics:       mtr,
		SessionCookie: "sessionid",
		CSRFCookie:    "csrftoken",
		SupportEmail:  "help@example.com",
	}))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	jar.SetCookies(u, []*http.Cookie{
		{Name: "sessionid", Value: sessionID},
		{Name: "csrftoken", Value: csrfToken},
	})

	return &TestEnv{
		Server:   srv,
		Upstream: up,
		Learner:  &http.Client{Jar: jar},
	}
}

func date(d time.Duration) string {
	return time.Now().Add(d).UTC().Format(time.RFC3339)
}

const day = 24 * time.Hour

func courseJSON() string {
	return fmt.Sprintf(`{
		"id": 3,
		"title": "Circuits",
		"readable_id": "course-v1:ex+6.002x",
		"next_run_id": null,
		"departments": [{"name": "Electrical Engineering"}],
		"courseruns": [
			{"id": 50, "title": "Spring", "start_date": %q, "end_date": %q, "enrollment_start": %q, "enrollment_end": null, "is_enrollable": true, "live": true, "products": []},
			{"id": 51, "title": "Fall", "start_date": %q, "end_date": %q, "enrollment_start": %q, "enrollment_end": null, "is_enrollable": true, "live": true, "products": []}
		]
	}`,
		date(-day), date(90*day), date(-30*day),
		date(30*day), date(120*day), date(-30*day),
	)
}
