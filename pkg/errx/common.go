package errx

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/joopert/translate-app/pkg/logx"
)

// Common error constructors for convenience

// Validation creates a validation error
func Validation(code, message string) *Error {
	return New(code, message, CategoryValidation)
}

// Authentication creates an authentication error
func Authentication(code, message string) *Error {
	return New(code, message, CategoryAuthentication)
}

// Authorization creates an authorization error
func Authorization(code, message string) *Error {
	return New(code, message, CategoryAuthorization)
}

// NotFound creates a not found error
func NotFound(code, message string) *Error {
	return New(code, message, CategoryNotFound)
}

// Conflict creates a conflict error
func Conflict(code, message string) *Error {
	return New(code, message, CategoryConflict)
}

// RateLimit creates a rate limit error
func RateLimit(code, message string) *Error {
	return New(code, message, CategoryRateLimit)
}

// InternalWithRef wraps a truly unexpected failure. The full detail is logged
// server-side under a random correlation id; the caller only ever sees the
// generic message embedding that id, never the underlying error text.
func InternalWithRef(err error) *Error {
	ref := uuid.NewString()
	logx.WithField("ref", ref).Errorf("internal error: %v", err)

	return &Error{
		Code:     "INTERNAL_SERVER_ERROR",
		Message:  fmt.Sprintf("An unexpected error occurred. Reference code: %s", ref),
		Category: CategoryServerError,
		Field:    FieldGeneral,
		Location: LocationBody,
		Err:      err,
	}
}
