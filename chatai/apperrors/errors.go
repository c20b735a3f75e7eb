// Package apperrors defines the error taxonomy shared by the service,
// the HTTP gateway and the chat client.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	// Validation covers missing or malformed input.
	Validation Kind = "validation_error"
	// Conflict covers duplicate unique fields.
	Conflict Kind = "conflict_error"
	// Auth covers bad credentials. Unknown email and wrong password
	// produce the same error so accounts cannot be enumerated.
	Auth Kind = "auth_error"
	// Adapter covers failures of the external generative API.
	Adapter Kind = "adapter_error"
	// Transport covers network-unreachable failures, which need
	// different handling than malformed requests.
	Transport Kind = "transport_error"
	// Internal is everything unexpected. Details are logged, never
	// returned to the caller.
	Internal Kind = "internal_error"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain, Internal if none is found.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the caller-safe message of an error chain. Errors
// without a kind get a fixed message so internals never leak.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case Auth:
		return http.StatusUnauthorized
	case Adapter:
		return http.StatusBadGateway
	case Transport:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
