package errx

import "net/http"

// Category classifies an error and drives the transport status mapping.
type Category string

const (
	// CategoryValidation represents invalid input
	CategoryValidation Category = "validation"

	// CategoryAuthentication represents failed or missing authentication
	CategoryAuthentication Category = "authentication"

	// CategoryAuthorization represents insufficient permissions
	CategoryAuthorization Category = "authorization"

	// CategoryNotFound represents resource not found errors
	CategoryNotFound Category = "not_found"

	// CategoryConflict represents resource conflict errors
	CategoryConflict Category = "conflict"

	// CategoryRateLimit represents throttling by us or an upstream provider
	CategoryRateLimit Category = "rate_limit"

	// CategoryServerError represents unexpected internal failures
	CategoryServerError Category = "server_error"
)

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// HTTPStatus maps a category to its transport status code.
// Every category maps to exactly one status; the boundary relies on this table.
func (c Category) HTTPStatus() int {
	switch c {
	case CategoryValidation:
		return http.StatusBadRequest
	case CategoryAuthentication:
		return http.StatusUnauthorized
	case CategoryAuthorization:
		return http.StatusForbidden
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryConflict:
		return http.StatusConflict
	case CategoryRateLimit:
		return http.StatusTooManyRequests
	case CategoryServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Location identifies which part of the request carried the offending field.
type Location string

const (
	LocationBody    Location = "body"
	LocationQuery   Location = "query"
	LocationHeader  Location = "header"
	LocationCookies Location = "cookies"
	LocationParams  Location = "params"
)

// FieldGeneral is the sentinel field for errors not tied to a single field.
const FieldGeneral = "general"
