package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for transport mapping. Handlers and middleware
// translate component-level failures into exactly one Kind; the HTTP layer
// renders only the kind's status and a safe message.
type Kind string

const (
	KindValidation           Kind = "VALIDATION"
	KindDuplicateEmail       Kind = "DUPLICATE_EMAIL"
	KindInvalidCredentials   Kind = "INVALID_CREDENTIALS"
	KindNotLoggedIn          Kind = "NOT_LOGGED_IN"
	KindInvalidToken         Kind = "INVALID_TOKEN"
	KindResetTokenInvalid    Kind = "RESET_TOKEN_INVALID"
	KindInvalidOldPassword   Kind = "INVALID_OLD_PASSWORD"
	KindForbidden            Kind = "FORBIDDEN"
	KindSubscriptionRequired Kind = "SUBSCRIPTION_REQUIRED"
	KindNotFound             Kind = "NOT_FOUND"
	KindUploadFailed         Kind = "UPLOAD_FAILED"
	KindEmailDelivery        Kind = "EMAIL_DELIVERY"
	KindStoreUnavailable     Kind = "STORE_UNAVAILABLE"
)

// Error carries a kind, a caller-safe message and an optional internal cause.
// The cause is for logs only and never reaches a response body.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// E builds a domain error.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and safe message to an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Kind == kind
	}
	return false
}

// StatusOf maps an error to its HTTP status. Unclassified errors are
// internal failures.
func StatusOf(err error) int {
	var dErr *Error
	if !errors.As(err, &dErr) {
		return http.StatusInternalServerError
	}
	switch dErr.Kind {
	case KindValidation, KindDuplicateEmail, KindResetTokenInvalid, KindInvalidOldPassword:
		return http.StatusBadRequest
	case KindInvalidCredentials, KindNotLoggedIn, KindInvalidToken:
		return http.StatusUnauthorized
	case KindForbidden, KindSubscriptionRequired:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUploadFailed, KindEmailDelivery, KindStoreUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// MessageOf returns the caller-safe message for an error. Unclassified
// errors get a generic message so internal detail never leaks.
func MessageOf(err error) string {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Message
	}
	return "internal server error"
}
