// Package weberr decorates errors with the HTTP response they should produce
// and with structured log fields, without losing the wrapped cause.
package weberr

import "errors"

type Opt func(error) error

func Wrap(err error, opts ...Opt) error {
	for _, opt := range opts {
		err = opt(err)
	}
	return err
}

func WithResponse(body any, status int) Opt {
	return func(err error) error {
		return &responseError{error: err, body: body, status: status}
	}
}

func WithFields(fields map[string]any) Opt {
	return func(err error) error {
		return &fieldsError{error: err, fields: fields}
	}
}

// Response returns the body and status attached by WithResponse anywhere in
// the chain.
func Response(err error) (body any, status int, ok bool) {
	var re *responseError
	if errors.As(err, &re) {
		return re.body, re.status, true
	}
	return nil, 0, false
}

// Fields merges every field set attached by WithFields, outermost last.
func Fields(err error) (map[string]any, bool) {
	var found bool
	fields := make(map[string]any)
	for err != nil {
		var fe *fieldsError
		if !errors.As(err, &fe) {
			break
		}
		for k, v := range fe.fields {
			if _, set := fields[k]; !set {
				fields[k] = v
			}
		}
		found = true
		err = fe.error
	}
	return fields, found
}

type responseError struct {
	error
	body   any
	status int
}

func (e *responseError) Unwrap() error { return e.error }

type fieldsError struct {
	error
	fields map[string]any
}

func (e *fieldsError) Unwrap() error { return e.error }
