package upstream

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/learner-portal/api/weberr"
)

// Kind classifies why a call to the course service failed.
type Kind int

const (
	// Transport means no response arrived: DNS, refused connection, timeout.
	Transport Kind = iota + 1
	// Application means the service answered with a 4xx or 5xx status.
	Application
	// Malformed means the service answered 2xx with a body we cannot decode.
	Malformed
)

func (k Kind) String() string {
	switch k {
	case Transport:
		return "transport"
	case Application:
		return "application"
	case Malformed:
		return "malformed"
	}
	return "unknown"
}

type Error struct {
	Kind   Kind
	Method string
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case Application:
		return fmt.Sprintf("upstream %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
	default:
		return fmt.Sprintf("upstream %s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the upstream HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ue *Error
	if errors.As(err, &ue) && ue.Kind == Application {
		return ue.Status
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// AsWebError maps an upstream failure onto the response the portal should
// send. Errors that did not come from the course service pass through.
func AsWebError(err error) error {
	var ue *Error
	if !errors.As(err, &ue) {
		return err
	}

	fields := weberr.WithFields(map[string]any{
		"upstream_method": ue.Method,
		"upstream_path":   ue.Path,
		"upstream_kind":   ue.Kind.String(),
		"upstream_status": ue.Status,
	})

	if ue.Kind != Application {
		return weberr.BadGateway(err, fields)
	}

	switch ue.Status {
	case http.StatusBadRequest:
		return weberr.BadRequest(err, fields)
	case http.StatusUnauthorized:
		return weberr.NotAuthorized(err, fields)
	case http.StatusForbidden:
		return weberr.Forbidden(err, fields)
	case http.StatusNotFound:
		return weberr.NotFound(err, fields)
	case http.StatusTooManyRequests:
		return weberr.TooManyRequests(err, fields)
	}
	return weberr.BadGateway(err, fields)
}
