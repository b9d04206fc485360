package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds returned by the records engine
var (
	// Store errors
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrNotFound         = errors.New("not found")
	ErrHasDependents    = errors.New("entity has dependent records")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Validation errors
	ErrInvalidArgument = errors.New("invalid argument")
)

// Enrollment errors
var (
	ErrAlreadyEnrolled = errors.New("student already enrolled in course")
	ErrCourseInactive  = errors.New("course is inactive")
	ErrCourseFull      = errors.New("course is full")
)

// NewNotFoundError creates a not found error for an entity id
func NewNotFoundError(entity string, id int64) error {
	return &CustomError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s %d not found", entity, id),
		Details: map[string]interface{}{"entity": entity, "id": id},
	}
}

// NewDuplicateKeyError creates a duplicate key error for a unique field
func NewDuplicateKeyError(entity, field, value string) error {
	return &CustomError{
		Err:     ErrDuplicateKey,
		Message: fmt.Sprintf("%s with %s %q already exists", entity, field, value),
		Details: map[string]interface{}{"entity": entity, "field": field},
	}
}

// NewInvalidArgumentError creates a validation error for a field
func NewInvalidArgumentError(field, message string) error {
	return &CustomError{
		Err:     ErrInvalidArgument,
		Message: field + ": " + message,
		Details: map[string]interface{}{"field": field},
	}
}

// NewHasDependentsError creates an error for a delete blocked by references
func NewHasDependentsError(entity string, id int64) error {
	return &CustomError{
		Err:     ErrHasDependents,
		Message: fmt.Sprintf("%s %d is referenced by grades or enrollments", entity, id),
		Details: map[string]interface{}{"entity": entity, "id": id},
	}
}

// NewStoreUnavailableError wraps a transient infrastructure failure
func NewStoreUnavailableError(op string, cause error) error {
	return &CustomError{
		Err:     errors.Join(ErrStoreUnavailable, cause),
		Message: op + ": " + ErrStoreUnavailable.Error() + ": " + cause.Error(),
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// IsRetryable reports whether the caller may retry the failed call.
// Only transient store failures qualify.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// Kind returns the name of the error kind carried by err, or "Internal"
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateKey):
		return "DuplicateKey"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrInvalidArgument):
		return "InvalidArgument"
	case errors.Is(err, ErrAlreadyEnrolled):
		return "AlreadyEnrolled"
	case errors.Is(err, ErrCourseInactive):
		return "CourseInactive"
	case errors.Is(err, ErrCourseFull):
		return "CourseFull"
	case errors.Is(err, ErrHasDependents):
		return "HasDependents"
	case errors.Is(err, ErrStoreUnavailable):
		return "StoreUnavailable"
	default:
		return "Internal"
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// DetailsOf extracts the details map of the first CustomError in the chain
func DetailsOf(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}
