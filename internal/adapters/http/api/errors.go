package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/huddle/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBackpressure = errors.New("backpressure")
	ErrUnavailable  = errors.New("unavailable")
)

// kindError tags an underlying error with an API kind and the operation
// that produced it.
type kindError struct {
	op   string
	kind error
	err  error
}

func (e *kindError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.err)
}

func (e *kindError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// WrapKind tags err with kind.
func WrapKind(op string, kind, err error) error {
	return &kindError{op: op, kind: kind, err: err}
}

// NewKind creates an error of kind with no further cause.
func NewKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}

// fromService maps a service error onto an API kind.
func fromService(op string, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return WrapKind(op, ErrBadRequest, err)
	case errors.Is(err, service.ErrNotFound):
		return WrapKind(op, ErrNotFound, err)
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrEventFull),
		errors.Is(err, service.ErrNotAttending):
		return WrapKind(op, ErrConflict, err)
	case errors.Is(err, service.ErrBackpressure):
		return WrapKind(op, ErrBackpressure, err)
	case errors.Is(err, service.ErrStopped):
		return WrapKind(op, ErrUnavailable, err)
	default:
		return err
	}
}

// status returns the HTTP status and error code for err.
func status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
