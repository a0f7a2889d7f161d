package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants. All packages MUST use these constants
// instead of hardcoded strings.
const (
	// Validation (400)
	ErrCodeValidationInvalidClock    ErrorCode = "validation_invalid_clock_time"
	ErrCodeValidationInvalidArea     ErrorCode = "validation_invalid_area_code"
	ErrCodeValidationThresholdRange  ErrorCode = "validation_threshold_out_of_range"
	ErrCodeValidationInvalidLogic    ErrorCode = "validation_invalid_criteria_logic"
	ErrCodeValidationMissingField    ErrorCode = "validation_missing_required_field"
	ErrCodeValidationInvalidWeekday  ErrorCode = "validation_invalid_weekday"
	ErrCodeValidationInvalidSettings ErrorCode = "validation_invalid_settings"

	// Offline (503) -- the network itself is unreachable.
	ErrCodeOfflineUnreachable ErrorCode = "offline_network_unreachable"
	ErrCodeOfflineTimeout     ErrorCode = "offline_timeout"

	// API (502) -- the provider answered, but unusably.
	ErrCodeAPIBadStatus   ErrorCode = "api_bad_status"
	ErrCodeAPIMalformed   ErrorCode = "api_malformed_payload"
	ErrCodeAPIRateLimited ErrorCode = "api_rate_limited"

	// Location (403/422)
	ErrCodePermissionLocation ErrorCode = "permission_location_denied"
	ErrCodeLocationManual     ErrorCode = "location_manual_required"

	// Not Found (404)
	ErrCodeNotFoundLocation ErrorCode = "not_found_location"
	ErrCodeNotFoundSettings ErrorCode = "not_found_settings"

	// Internal (500)
	ErrCodeInternalDB         ErrorCode = "internal_database_error"
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// ErrorKind is the coarse recovery category exposed to callers. Every error
// is recoverable by user action; Kind tells the caller which action to offer.
type ErrorKind string

const (
	KindOffline        ErrorKind = "offline"
	KindAPI            ErrorKind = "api"
	KindPermission     ErrorKind = "permission"
	KindManualLocation ErrorKind = "manual_location"
	KindUnknown        ErrorKind = "unknown"
)

// Kind maps an ErrorCode to its recovery category.
func (c ErrorCode) Kind() ErrorKind {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "offline_"):
		return KindOffline
	case strings.HasPrefix(s, "api_"):
		return KindAPI
	case c == ErrCodePermissionLocation:
		return KindPermission
	case c == ErrCodeLocationManual:
		return KindManualLocation
	default:
		return KindUnknown
	}
}

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Returns 500 for unrecognized error codes as a safe default.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest
	case strings.HasPrefix(s, "offline_"):
		return http.StatusServiceUnavailable
	case c == ErrCodeAPIRateLimited:
		return http.StatusTooManyRequests
	case strings.HasPrefix(s, "api_"):
		return http.StatusBadGateway
	case c == ErrCodePermissionLocation:
		return http.StatusForbidden
	case c == ErrCodeLocationManual:
		return http.StatusUnprocessableEntity
	case strings.HasPrefix(s, "not_found_"):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the standard application error type used throughout the service.
// All domain and handler errors should be expressed as AppError to enable
// consistent error formatting, HTTP status mapping, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// Kind returns the recovery category corresponding to this error's code.
func (e *AppError) Kind() ErrorKind {
	return e.Code.Kind()
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error. This is the standard constructor for domain errors.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
