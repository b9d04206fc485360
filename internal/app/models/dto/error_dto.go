package dto

import (
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Error codes, one per engine error kind
const (
	// Resource errors
	ErrorCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrorCodeDuplicateKey  ErrorCode = "DUPLICATE_KEY"
	ErrorCodeHasDependents ErrorCode = "HAS_DEPENDENTS"

	// Enrollment errors
	ErrorCodeAlreadyEnrolled ErrorCode = "ALREADY_ENROLLED"
	ErrorCodeCourseInactive  ErrorCode = "COURSE_INACTIVE"
	ErrorCodeCourseFull      ErrorCode = "COURSE_FULL"

	// Validation errors
	ErrorCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrorCodeMalformedBody   ErrorCode = "MALFORMED_BODY"

	// Server errors
	ErrorCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	ErrorCodeInternalServer   ErrorCode = "INTERNAL"
	ErrorCodeRouteNotFound    ErrorCode = "ROUTE_NOT_FOUND"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code    ErrorCode   `json:"code" example:"COURSE_FULL"`
	Message string      `json:"message" example:"course CS101 is full"`
	Field   string      `json:"field,omitempty" example:"email"`
	Details interface{} `json:"details,omitempty"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:    code,
		Message: message,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *APIResponse {
	return &APIResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now().UTC(),
	}
}
