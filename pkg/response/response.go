package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error Codes
type ErrCode string

var (
	FAILED_REQUEST    ErrCode = "REQUEST_FAILED"
	BAD_REQUEST       ErrCode = "FAILED_TO_DECODE"
	INVALID_INPUT     ErrCode = "INVALID_INPUT"
	UNAUTHORIZED      ErrCode = "UNAUTHORIZED"
	FORBIDDEN         ErrCode = "FORBIDDEN"
	NOT_FOUND         ErrCode = "NOT_FOUND"
	LOCKED            ErrCode = "LOCKED"
	CONFLICT          ErrCode = "CONFLICT"
	PRECONDITION      ErrCode = "PRECONDITION_FAILED"
	TOO_MANY_REQUESTS ErrCode = "TOO_MANY_REQUESTS"
	UPSTREAM_FAILED   ErrCode = "UPSTREAM_FAILED"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("resource not found")
	ErrLocked       = errors.New("resource is locked")
	ErrConflict     = errors.New("conflict")
	ErrPrecondition = errors.New("precondition failed")
	ErrUpstream     = errors.New("upstream failure")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}

// Reason returns the caller-facing message attached with WithReason, or def when
// the chain carries none.
func Reason(err error, def string) string {
	var r *reasonError
	if errors.As(err, &r) {
		return r.msg
	}
	return def
}

type reasonError struct {
	kind error
	msg  string
}

func (e *reasonError) Error() string { return e.msg }
func (e *reasonError) Unwrap() error { return e.kind }

// WithReason tags a sentinel with a message meant for the caller.
func WithReason(kind error, msg string) error {
	return &reasonError{kind: kind, msg: msg}
}

// Fail maps a service error onto an HTTP status and error body.
func Fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, code, msg := classify(err, fallback)
	render.Status(r, status)
	render.JSON(w, r, Error(string(code), msg))
}

func classify(err error, fallback string) (int, ErrCode, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, INVALID_INPUT, Reason(err, ErrBadRequest.Error())
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, UNAUTHORIZED, "unauthorized"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, FORBIDDEN, Reason(err, ErrForbidden.Error())
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, NOT_FOUND, Reason(err, ErrNotFound.Error())
	case errors.Is(err, ErrLocked):
		return http.StatusLocked, LOCKED, "resource is locked"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, CONFLICT, Reason(err, ErrConflict.Error())
	case errors.Is(err, ErrPrecondition):
		return http.StatusUnprocessableEntity, PRECONDITION, Reason(err, ErrPrecondition.Error())
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway, UPSTREAM_FAILED, fallback
	default:
		return http.StatusInternalServerError, FAILED_REQUEST, fallback
	}
}
