// Package upstream talks to the course service that owns courses, programs,
// enrollments and learner profiles. Requests run on behalf of the learner:
// their session and CSRF cookies are forwarded as received.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/irsalhamdi/learner-portal/api/web"
	"github.com/irsalhamdi/learner-portal/cache"
	"github.com/irsalhamdi/learner-portal/core/claims"
	"github.com/irsalhamdi/learner-portal/metrics"
)

const (
	CSRFHeader      = "X-CSRFToken"
	RequestIDHeader = "X-Request-Id"

	maxBodyBytes = 4 << 20
	maxErrorBody = 512
)

type Config struct {
	BaseURL       string
	Timeout       time.Duration
	SessionCookie string
	CSRFCookie    string
	Log           logrus.FieldLogger
	Local         *cache.Store
	Shared        *cache.Shared
	SharedTTL     time.Duration
	Metrics       *metrics.Metrics
	// Transport overrides the default round tripper, mostly for tests.
	Transport http.RoundTripper
}

type Client struct {
	base          string
	http          *http.Client
	log           logrus.FieldLogger
	local         *cache.Store
	shared        *cache.Shared
	sharedTTL     time.Duration
	metrics       *metrics.Metrics
	sessionCookie string
	csrfCookie    string
}

func New(cfg Config) *Client {
	local := cfg.Local
	if local == nil {
		local = cache.NewStore(30 * time.Second)
	}

	log := cfg.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
			// Form posts answer with a redirect to a page meant for the
			// browser; the redirect itself is the success signal.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log:           log,
		local:         local,
		shared:        cfg.Shared,
		sharedTTL:     cfg.SharedTTL,
		metrics:       cfg.Metrics,
		sessionCookie: cfg.SessionCookie,
		csrfCookie:    cfg.CSRFCookie,
	}
}

// BaseURL is the root of the course service site, also used for links the
// browser follows directly such as the cart.
func (c *Client) BaseURL() string {
	return c.base
}

// Query names a cacheable read.
type Query struct {
	// Key identifies the query, e.g. "enrollments" or "course:12".
	Key    string
	Path   string
	Params url.Values
	// Shared queries return the same data for every learner and may be kept
	// in the cross-instance cache.
	Shared bool
}

func (q Query) target() string {
	if len(q.Params) == 0 {
		return q.Path
	}
	return q.Path + "?" + q.Params.Encode()
}

// Page is the envelope of paginated list endpoints.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Get runs q and decodes the result into dest, serving it from cache when a
// live entry exists. A response overtaken by a fresher one for the same key
// is dropped from the cache and the fresher payload is returned instead.
func (c *Client) Get(ctx context.Context, q Query, dest any) error {
	key := c.cacheKey(ctx, q.Key, q.Shared)

	if raw, ok := c.local.Get(key); ok {
		c.metrics.CacheLookup("local", true)
		return c.decode(q, raw, dest)
	}
	c.metrics.CacheLookup("local", false)

	token := c.local.Begin()

	if q.Shared && c.shared.Enabled() {
		var raw json.RawMessage
		err := c.shared.Get(ctx, key, &raw)
		c.metrics.CacheLookup("shared", err == nil)
		if err == nil {
			c.local.Commit(key, token, raw)
			return c.decode(q, raw, dest)
		}
	}

	raw, err := c.do(ctx, http.MethodGet, q.target(), nil)
	if err != nil {
		return err
	}
	if !json.Valid(raw) {
		return &Error{Kind: Malformed, Method: http.MethodGet, Path: q.Path, Err: fmt.Errorf("invalid json body")}
	}

	if !c.local.Commit(key, token, raw) {
		c.metrics.StaleDiscarded()
		c.logger(ctx).WithField("key", q.Key).Debug("discarding stale upstream response")
		if fresh, ok := c.local.Get(key); ok {
			raw = fresh
		}
	}

	if q.Shared {
		if err := c.shared.Set(ctx, key, json.RawMessage(raw), c.sharedTTL); err != nil {
			c.logger(ctx).WithError(err).Warn("writing shared cache")
		}
	}

	return c.decode(q, raw, dest)
}

// Invalidate drops the current learner's cached results for keys, fencing off
// reads already in flight.
func (c *Client) Invalidate(ctx context.Context, keys ...string) {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = c.cacheKey(ctx, k, false)
	}
	c.local.Invalidate(scoped...)
}

// InvalidateShared drops results shared by every learner.
func (c *Client) InvalidateShared(ctx context.Context, keys ...string) error {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = c.cacheKey(ctx, k, true)
	}
	c.local.Invalidate(scoped...)
	return c.shared.Delete(ctx, scoped...)
}

// Send performs a mutation. body, when non-nil, is sent as JSON; dest, when
// non-nil, receives the decoded response.
func (c *Client) Send(ctx context.Context, method, path string, body, dest any) error {
	var r io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s body: %w", method, path, err)
		}
		r = bytes.NewReader(payload)
	}

	raw, err := c.do(ctx, method, path, r)
	if err != nil {
		return err
	}

	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return &Error{Kind: Malformed, Method: method, Path: path, Err: err}
	}
	return nil
}

// PostForm submits a form the way a browser would, adding the CSRF token as
// csrfmiddlewaretoken. The response body is ignored.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) error {
	values := url.Values{}
	for k, v := range form {
		values[k] = v
	}
	if cl, err := claims.Get(ctx); err == nil && cl.CSRFToken != "" {
		values.Set("csrfmiddlewaretoken", cl.CSRFToken)
	}

	_, err := c.send(ctx, http.MethodPost, path, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
	return err
}

func (c *Client) do(ctx context.Context, method, target string, body io.Reader) ([]byte, error) {
	return c.send(ctx, method, target, body, "application/json")
}

func (c *Client) send(ctx context.Context, method, target string, body io.Reader, contentType string) ([]byte, error) {
	path := target
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+target, body)
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if id := web.RequestID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	if cl, err := claims.Get(ctx); err == nil {
		if cl.SessionID != "" {
			req.AddCookie(&http.Cookie{Name: c.sessionCookie, Value: cl.SessionID})
		}
		if cl.CSRFToken != "" {
			req.AddCookie(&http.Cookie{Name: c.csrfCookie, Value: cl.CSRFToken})
			if method != http.MethodGet && method != http.MethodHead {
				req.Header.Set(CSRFHeader, cl.CSRFToken)
			}
		}
	}
	if method != http.MethodGet && method != http.MethodHead {
		// The service checks the referer on secure mutations.
		req.Header.Set("Referer", c.base+"/")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(method, Transport.String(), time.Since(start))
		return nil, &Error{Kind: Transport, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.ObserveUpstream(method, Transport.String(), time.Since(start))
		return nil, &Error{Kind: Transport, Method: method, Path: path, Err: fmt.Errorf("reading body: %w", err)}
	}

	c.logger(ctx).WithFields(logrus.Fields{
		"upstream_method": method,
		"upstream_path":   path,
		"upstream_status": resp.StatusCode,
		"since":           time.Since(start).Nanoseconds(),
	}).Debug("upstream call")

	if resp.StatusCode >= http.StatusBadRequest {
		c.metrics.ObserveUpstream(method, Application.String(), time.Since(start))
		b := string(raw)
		if len(b) > maxErrorBody {
			b = b[:maxErrorBody]
		}
		return nil, &Error{Kind: Application, Method: method, Path: path, Status: resp.StatusCode, Body: b}
	}

	c.metrics.ObserveUpstream(method, "ok", time.Since(start))
	return raw, nil
}

func (c *Client) decode(q Query, raw []byte, dest any) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return &Error{Kind: Malformed, Method: http.MethodGet, Path: q.Path, Err: err}
	}
	return nil
}

func (c *Client) cacheKey(ctx context.Context, key string, shared bool) string {
	if shared {
		return "shared:" + key
	}
	scope := "anon"
	if cl, err := claims.Get(ctx); err == nil && cl.Authenticated() {
		scope = cl.Scope()
	}
	return scope + ":" + key
}

func (c *Client) logger(ctx context.Context) logrus.FieldLogger {
	if id := web.RequestID(ctx); id != "" {
		return c.log.WithField("req_id", id)
	}
	return c.log
}
