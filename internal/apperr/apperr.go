package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure and fixes its HTTP status.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindInvalidState Kind = "INVALID_STATE"
	KindValidation   Kind = "VALIDATION"
	KindDuplicate    Kind = "DUPLICATE"
	KindForbidden    Kind = "FORBIDDEN"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInternal     Kind = "INTERNAL"
)

// Error is a typed domain failure. Code carries the machine-readable
// reason (e.g. TRAINING_NOT_ACTIVE), Message the localized user text.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func NotFound(code, message string) *Error     { return New(KindNotFound, code, message) }
func InvalidState(code, message string) *Error { return New(KindInvalidState, code, message) }
func Validation(message string) *Error         { return New(KindValidation, "VALIDATION", message) }
func Duplicate(code, message string) *Error    { return New(KindDuplicate, code, message) }
func Forbidden(code, message string) *Error    { return New(KindForbidden, code, message) }
func Unauthorized(message string) *Error       { return New(KindUnauthorized, "UNAUTHORIZED", message) }
func Internal(message string) *Error           { return New(KindInternal, "INTERNAL", message) }

// As unwraps err into an *Error if possible.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
