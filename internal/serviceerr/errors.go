package serviceerr

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeInvalidRequest         Code = "invalid_request"
	CodeInvalidCredentials     Code = "invalid_credentials"
	CodeUnauthorized           Code = "unauthorized"
	CodeAccessDenied           Code = "access_denied"
	CodeServerError            Code = "server_error"
	CodeTemporarilyUnavailable Code = "temporarily_unavailable"

	CodeConflict Code = "conflict"
	CodeNotFound Code = "not_found"
)

// Error is an error carrying a machine readable code and an optional
// human readable description.
type Error struct {
	Err         Code
	Description string
}

var (
	ErrInvalidRequest         = &Error{Err: CodeInvalidRequest}
	ErrInvalidCredentials     = &Error{Err: CodeInvalidCredentials, Description: "login failed"}
	ErrUnauthorized           = &Error{Err: CodeUnauthorized, Description: "not authenticated"}
	ErrAccessDenied           = &Error{Err: CodeAccessDenied}
	ErrServerError            = &Error{Err: CodeServerError}
	ErrTemporarilyUnavailable = &Error{Err: CodeTemporarilyUnavailable, Description: "backend unreachable"}

	ErrConflict = &Error{Err: CodeConflict, Description: "already exists"}
	ErrNotFound = &Error{Err: CodeNotFound, Description: "not found"}
)

// New returns an error with the given code and description.
func New(code Code, description string) *Error {
	return &Error{Err: code, Description: description}
}

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Err)
	}

	return string(e.Err) + ": " + e.Description
}

// Is reports whether target is an *Error with the same code, so that a
// described error still matches its predefined sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Err == e.Err
}

func (e *Error) HTTPStatus() int {
	switch e.Err {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeInvalidCredentials, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeAccessDenied:
		return http.StatusForbidden
	case CodeTemporarilyUnavailable:
		return http.StatusServiceUnavailable
	case CodeConflict:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the description of err if it is an *Error, or the
// given fallback otherwise.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Description != "" {
		return e.Description
	}

	return fallback
}
