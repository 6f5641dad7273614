package errx

import (
	"errors"
	"fmt"
)

// Error is the shared error type crossing module boundaries. It carries a
// stable code, a human-readable message, the taxonomy category, and the
// offending field/location. Provider-specific errors are translated into
// this type at the narrowest point and never cross into public contracts.
type Error struct {
	// Code is the stable error code (e.g. AUTH_INVALID_TOKEN)
	Code string `json:"code"`

	// Message is the human-readable error message
	Message string `json:"message"`

	// Category drives the transport status mapping
	Category Category `json:"category"`

	// Field names the offending field, or FieldGeneral
	Field string `json:"field"`

	// Location is where the field came from in the request
	Location Location `json:"location"`

	// Err is the underlying error (not exported in JSON)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the transport status for this error's category.
func (e *Error) HTTPStatus() int {
	return e.Category.HTTPStatus()
}

// WithField sets the offending field and returns the error for chaining
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithLocation sets the request location and returns the error for chaining
func (e *Error) WithLocation(loc Location) *Error {
	e.Location = loc
	return e
}

// WithMessage replaces the message and returns the error for chaining
func (e *Error) WithMessage(message string) *Error {
	e.Message = message
	return e
}

// WithCause attaches the underlying error and returns the error for chaining
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// New creates a new Error
func New(code, message string, category Category) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Category: category,
		Field:    FieldGeneral,
		Location: LocationBody,
	}
}

// Wrap wraps an existing error with additional context.
// If err is already an *Error its code, category, field and location survive.
func Wrap(err error, message string, category Category) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return &Error{
			Code:     existing.Code,
			Message:  message,
			Category: existing.Category,
			Field:    existing.Field,
			Location: existing.Location,
			Err:      err,
		}
	}

	return &Error{
		Code:     string(category),
		Message:  message,
		Category: category,
		Field:    FieldGeneral,
		Location: LocationBody,
		Err:      err,
	}
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, category Category, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...), category)
}

// Is checks if an error matches the target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsCode reports whether err is an *Error carrying the given code.
func IsCode(err error, code *ErrorCode) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code.Code
}
