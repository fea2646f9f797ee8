package weberr

import (
	"net/http"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type RequestError struct {
	Err error
}

func (r *RequestError) Error() string { return r.Err.Error() }

func (r *RequestError) Unwrap() error { return r.Err }

func NewError(err error, msg string, status int, opts ...Opt) error {
	e := &RequestError{Err: err}
	opts = append(opts, WithResponse(
		&ErrorResponse{Error: msg},
		status,
	))

	return Wrap(e, opts...)
}

func NotFound(err error, opts ...Opt) error {
	return NewError(err, "the resource could not be found", http.StatusNotFound, opts...)
}

func NotAuthorized(err error, opts ...Opt) error {
	return NewError(err, "not authorized to access resource", http.StatusUnauthorized, opts...)
}

func Forbidden(err error, opts ...Opt) error {
	return NewError(err, "access to the resource is forbidden", http.StatusForbidden, opts...)
}

func InternalError(err error, opts ...Opt) error {
	return NewError(err, "the server encountered a problem and could not process your request", http.StatusInternalServerError, opts...)
}

func BadRequest(err error, opts ...Opt) error {
	return NewError(err, "bad request", http.StatusBadRequest, opts...)
}

func TooManyRequests(err error, opts ...Opt) error {
	return NewError(err, "too many requests, slow down", http.StatusTooManyRequests, opts...)
}

func BadGateway(err error, opts ...Opt) error {
	return NewError(err, "the course service is unavailable, try again later", http.StatusBadGateway, opts...)
}

// Invalid reports per-field validation messages alongside a 400.
func Invalid(err error, fields map[string]string, opts ...Opt) error {
	e := &RequestError{Err: err}
	opts = append(opts, WithResponse(
		&ErrorResponse{Error: "validation failed", Fields: fields},
		http.StatusBadRequest,
	))
	return Wrap(e, opts...)
}
