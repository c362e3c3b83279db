// Package apperr classifies the failures a browse operation can report.
//
// Every error that reaches the response boundary is rendered the same way
// ({error:true, code, message}); the Kind only selects the code and the HTTP
// status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the error category reported as the response "code".
type Kind string

const (
	KindConfig            Kind = "CONFIG"
	KindValidation        Kind = "VALIDATION"
	KindUnsupportedSource Kind = "UNSUPPORTED_SOURCE"
	KindStorage           Kind = "STORAGE"
	KindNotImplemented    Kind = "NOT_IMPLEMENTED"
	KindInternal          Kind = "INTERNAL"
)

// Error is a categorised error with an optional cause. Note is appended
// after the cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Note    string
}

func (e *Error) Error() string {
	var msg string
	switch {
	case e.Cause == nil:
		msg = e.Message
	case e.Message == "":
		msg = e.Cause.Error()
	default:
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return msg + e.Note
}

// WithNote returns a copy of e with note appended to its message.
func (e *Error) WithNote(note string) *Error {
	c := *e
	c.Note += note
	return &c
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Status returns the HTTP status used when this error ends a request.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func newf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Config reports a malformed or missing descriptor, source or hook.
func Config(format string, args ...any) *Error {
	return newf(KindConfig, nil, format, args...)
}

// Validation reports malformed request parameters.
func Validation(format string, args ...any) *Error {
	return newf(KindValidation, nil, format, args...)
}

// UnsupportedSource reports a data source engine that cannot be served.
func UnsupportedSource(format string, args ...any) *Error {
	return newf(KindUnsupportedSource, nil, format, args...)
}

// Storage wraps an engine-reported failure.
func Storage(cause error, format string, args ...any) *Error {
	return newf(KindStorage, cause, format, args...)
}

// NotImplemented reports a request for a known but unimplemented feature.
func NotImplemented(format string, args ...any) *Error {
	return newf(KindNotImplemented, nil, format, args...)
}

// Internal reports a failure of the browser itself (panics, stray output).
func Internal(format string, args ...any) *Error {
	return newf(KindInternal, nil, format, args...)
}

// As returns err as an *Error, classifying anything foreign as internal.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Cause: err}
}

// KindOf returns the category of err, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return As(err).Kind
}
