package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an operation failure.
type Kind uint8

const (
	KindNotFound Kind = iota
	KindConflict
	KindInvalid
	KindForbidden
	// KindIntegrity marks a violation of an invariant this backend is
	// itself responsible for upholding. Distinct from NotFound because it
	// indicates a bug, not an empty result.
	KindIntegrity
)

// Error is a classified failure with a short human-readable reason.
// Reasons never contain internal identifiers or driver state.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func NotFound(reason string) error  { return &Error{Kind: KindNotFound, Reason: reason} }
func Conflict(reason string) error  { return &Error{Kind: KindConflict, Reason: reason} }
func Invalid(reason string) error   { return &Error{Kind: KindInvalid, Reason: reason} }
func Forbidden(reason string) error { return &Error{Kind: KindForbidden, Reason: reason} }
func Integrity(reason string) error { return &Error{Kind: KindIntegrity, Reason: reason} }

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Status maps an error to its HTTP status code. Unclassified errors map
// to 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalid:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing reason for an error. Unclassified
// errors get a generic message so no internal state leaks.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return "unexpected server error"
}
