package models

// Entity names used in error details and logs
const (
	EntityStudent    = "student"
	EntityCourse     = "course"
	EntityEnrollment = "enrollment"
	EntityGrade      = "grade"
)

// Int64Ptr returns a pointer to v, handy for optional filter fields
func Int64Ptr(v int64) *int64 { return &v }

// BoolPtr returns a pointer to v
func BoolPtr(v bool) *bool { return &v }

// StringPtr returns a pointer to v
func StringPtr(v string) *string { return &v }

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }
