// Package apperrors provides the error classification used across the
// attendance service. Every failure surfaced to a caller carries a stable
// machine-readable kind plus a human-readable message; handlers map kinds
// to transport status codes without inspecting error strings.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for handling purposes.
type Kind int

const (
	// KindInternal is the fallback for unexpected errors. Detail is
	// logged server-side and never leaked to the caller.
	KindInternal Kind = iota
	// KindUnauthenticated means no valid identity was presented.
	KindUnauthenticated
	// KindVerificationRequired means the identity exists but has not
	// completed OTP verification. Carries the email a fresh code was
	// sent to.
	KindVerificationRequired
	// KindForbidden means the identity lacks the role or ownership the
	// operation requires.
	KindForbidden
	// KindNotFound means the addressed resource does not exist.
	KindNotFound
	// KindInvalidInput means client-supplied arguments failed
	// validation. Carries per-field messages.
	KindInvalidInput
	// KindConflict means a uniqueness invariant was violated.
	KindConflict
	// KindDeliveryFailed means an outbound notification could not be
	// sent. Logged only, never propagated as an operation failure.
	KindDeliveryFailed
)

// String returns the wire representation of a kind.
func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindVerificationRequired:
		return "OTP_REQUIRED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindConflict:
		return "CONFLICT"
	case KindDeliveryFailed:
		return "DELIVERY_FAILED"
	default:
		return "INTERNAL"
	}
}

// FieldError is one validation message attached to a named input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the concrete error type carried through the service layers.
type Error struct {
	Kind    Kind
	Message string
	// Email is set for KindVerificationRequired so the caller knows
	// where the fresh code was delivered.
	Email string
	// Fields is set for KindInvalidInput.
	Fields []FieldError
	// Err is the wrapped cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap annotates a cause with a kind and message.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Unauthenticated reports a missing or invalid identity.
func Unauthenticated() *Error {
	return New(KindUnauthenticated, "authentication required")
}

// VerificationRequired reports an identity that must verify its email.
func VerificationRequired(email string) *Error {
	return &Error{
		Kind:    KindVerificationRequired,
		Message: "email verification required, a new code has been sent",
		Email:   email,
	}
}

// Forbidden reports insufficient role or ownership.
func Forbidden(message string) *Error {
	if message == "" {
		message = "operation not permitted"
	}
	return New(KindForbidden, message)
}

// NotFound reports a missing resource by name.
func NotFound(resource string) *Error {
	return New(KindNotFound, resource+" not found")
}

// InvalidInput reports validation failures with per-field messages.
func InvalidInput(fields ...FieldError) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Message: "invalid input",
		Fields:  fields,
	}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// Internal wraps an unexpected error without exposing its detail.
func Internal(err error) *Error {
	return Wrap(err, KindInternal, "internal error")
}

// KindOf extracts the kind from any error in the chain, defaulting to
// KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As extracts the typed error from a chain, or nil.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
