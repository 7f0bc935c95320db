// Package apierrors carries the error taxonomy of spec.md §7 so the HTTP
// layer can render a structured client error without re-deriving status
// codes from ad hoc error strings.
package apierrors

import (
	"errors"
	"net/http"
)

// Kind identifies one of the documented failure categories.
type Kind string

const (
	// MalformedJson indicates the request body is not valid JSON or
	// violates the schema.
	MalformedJson Kind = "MalformedJson"
	// UndeclaredName indicates a literal references an unknown or
	// wrong-kind name.
	UndeclaredName Kind = "UndeclaredName"
	// EmptyClause indicates a disjunction is empty.
	EmptyClause Kind = "EmptyClause"
	// BadTransition indicates an empty or duplicate endpoint set.
	BadTransition Kind = "BadTransition"
	// Timeout indicates the solver exceeded the configured deadline.
	Timeout Kind = "Timeout"
	// BackendFailure indicates the SMT backend returned unknown under a
	// fail-closed policy, or crashed.
	BackendFailure Kind = "BackendFailure"
)

// Error is a structured, client-facing failure. It satisfies the error
// interface so it can be returned and wrapped like any other Go error.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return string(e.Kind) + ": " + e.Detail
}

// New constructs a structured error of the given kind.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// StatusCode maps a Kind to the HTTP status spec.md §7 prescribes.
func (k Kind) StatusCode() int {
	switch k {
	case MalformedJson, UndeclaredName, EmptyClause, BadTransition:
		return http.StatusBadRequest
	case Timeout:
		return http.StatusGatewayTimeout
	case BackendFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// StatusCode is a convenience accessor on Error itself.
func (e *Error) StatusCode() int {
	if e == nil {
		return http.StatusInternalServerError
	}
	return e.Kind.StatusCode()
}

// As reports whether err is (or wraps) an *Error, mirroring the
// errors.As contract without requiring callers to import errors directly.
func As(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}
