package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain errors keep the code they were
// raised with; these cover failures that never reach the domain.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "INVALID_TOKEN"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeBodyTooLarge = "BODY_TOO_LARGE"
)

// importCodePrefix marks CSV import file errors
const importCodePrefix = "ERR_IMPORT_"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Validation -> 400
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	"INVALID_INPUT":    http.StatusBadRequest,
	"INVALID_ITEM":     http.StatusBadRequest,
	"INVALID_CLIENT":   http.StatusBadRequest,
	"INVALID_TAX_RATE": http.StatusBadRequest,
	"INVALID_NAME":     http.StatusBadRequest,
	"INVALID_IBAN":     http.StatusBadRequest,

	// Auth
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenInvalid:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	"BRANDING_NOT_ALLOWED": http.StatusForbidden,

	ErrCodeNotFound: http.StatusNotFound,

	// Conflicts -> 409
	"DUPLICATE_STANDARD_INVOICE": http.StatusConflict,
	"DUPLICATE_BALANCE_INVOICE":  http.StatusConflict,
	"ALREADY_EXISTS":             http.StatusConflict,
	"CONCURRENCY_CONFLICT":       http.StatusConflict,

	// State rules -> 422
	"NO_BALANCE_REMAINING": http.StatusUnprocessableEntity,
	"IMMUTABLE":            http.StatusUnprocessableEntity,
	"INVALID_STATE":        http.StatusUnprocessableEntity,

	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeInternal:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are treated as internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, importCodePrefix) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether code maps to a 4xx status
func IsClientError(code string) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}
