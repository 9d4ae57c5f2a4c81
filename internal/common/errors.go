// Package common defines shared constants, sentinel errors and the typed
// domain errors used across the server layers of taskkeeper. Callers should
// use errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")
)

// AuthErrorKind is one of the fixed, coarse categories of authentication
// failure. The set is closed on purpose: callers never learn more than the
// category.
type AuthErrorKind int

const (
	AuthMissingCredential AuthErrorKind = iota + 1
	AuthExpired
	AuthInvalid
	AuthInternal
	AuthInvalidCredentials
)

func (k AuthErrorKind) String() string {
	switch k {
	case AuthMissingCredential:
		return "missing_credential"
	case AuthExpired:
		return "expired"
	case AuthInvalid:
		return "invalid"
	case AuthInternal:
		return "internal"
	case AuthInvalidCredentials:
		return "invalid_credentials"
	default:
		return "unknown"
	}
}

// AuthError reports an authentication failure of a given kind.
type AuthError struct {
	Kind AuthErrorKind
}

// NewAuthError returns an *AuthError of the given kind.
func NewAuthError(kind AuthErrorKind) *AuthError {
	return &AuthError{Kind: kind}
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case AuthMissingCredential:
		return "access denied, no token provided"
	case AuthExpired:
		return "token expired"
	case AuthInvalid:
		return "invalid token"
	case AuthInvalidCredentials:
		return "invalid email or password"
	default:
		return "authentication failed"
	}
}

// Is makes errors.Is(err, &AuthError{Kind: k}) match on kind.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// IsAuthKind reports whether err is an *AuthError of the given kind.
func IsAuthKind(err error, kind AuthErrorKind) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Kind == kind
}

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError reports a uniqueness conflict, e.g. a duplicate email.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Unwrap() error { return ErrorNotFound }

// AuthorizationError reports access to a resource owned by another account.
type AuthorizationError struct{}

func (e *AuthorizationError) Error() string { return "access to this resource is not allowed" }
