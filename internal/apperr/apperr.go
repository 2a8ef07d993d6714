// Package apperr defines the error taxonomy shared by the service and
// transport layers. Every failure that leaves the service is one of
// these codes.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeInvalidArgument     Code = "INVALID_ARGUMENT"
	CodeNotFound            Code = "NOT_FOUND"
	CodeDisabled            Code = "DISABLED"
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"
	CodeInternal            Code = "INTERNAL"
)

// Error carries a code and a client-facing message. Err holds the cause and
// is never rendered to clients.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, msg string, err error) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

func InvalidArgument(msg string) *Error {
	return New(CodeInvalidArgument, msg, nil)
}

func InvalidArgumentf(format string, args ...any) *Error {
	return New(CodeInvalidArgument, fmt.Sprintf(format, args...), nil)
}

func NotFound(msg string) *Error {
	return New(CodeNotFound, msg, nil)
}

func Disabled(msg string) *Error {
	return New(CodeDisabled, msg, nil)
}

func Upstream(msg string, err error) *Error {
	return New(CodeUpstreamUnavailable, msg, err)
}

func Internal(msg string, err error) *Error {
	return New(CodeInternal, msg, err)
}

// CodeOf reports the code of the first *Error in err's chain. Errors that
// were never classified are INTERNAL.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// MessageOf returns the client-safe message for err. Unclassified errors
// never leak their text.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal error"
}
