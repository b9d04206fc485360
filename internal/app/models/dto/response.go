package dto

import "time"

// APIResponse is the envelope of every API response
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a success envelope
func NewSuccessResponse(data interface{}) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// GPAResponse carries a computed GPA
type GPAResponse struct {
	StudentID int64   `json:"studentId" example:"1"`
	Semester  string  `json:"semester,omitempty" example:"Fall 2024"`
	GPA       float64 `json:"gpa" example:"3.70"`
}

// EnrollmentStatusResponse answers whether a pair is actively enrolled
type EnrollmentStatusResponse struct {
	StudentID int64 `json:"studentId" example:"1"`
	CourseID  int64 `json:"courseId" example:"1"`
	Enrolled  bool  `json:"enrolled" example:"true"`
}

// EnrollmentCountResponse carries the active seat count of a course
type EnrollmentCountResponse struct {
	CourseID    int64 `json:"courseId" example:"1"`
	ActiveCount int   `json:"activeCount" example:"12"`
	MaxStudents *int  `json:"maxStudents,omitempty" example:"30"`
}

// HealthResponse is returned by the liveness check
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Store  string `json:"store" example:"postgres"`
}
