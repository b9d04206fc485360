package dto

import (
	"time"

	"github.com/yigit/unirecords/internal/app/services"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// parseDate parses an optional YYYY-MM-DD date
func parseDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, *value)
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError(field, "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

// CreateStudentRequest is the body of POST /students
type CreateStudentRequest struct {
	StudentNumber string  `json:"studentNumber" example:"S001"`
	FirstName     string  `json:"firstName" example:"Ada"`
	LastName      string  `json:"lastName" example:"Lovelace"`
	Email         string  `json:"email" example:"ada@school.edu"`
	DateOfBirth   *string `json:"dateOfBirth,omitempty" example:"2001-03-14"`
}

// ToInput converts the request into a service input
func (r CreateStudentRequest) ToInput() (services.CreateStudentInput, error) {
	dob, err := parseDate("dateOfBirth", r.DateOfBirth)
	if err != nil {
		return services.CreateStudentInput{}, err
	}
	return services.CreateStudentInput{
		StudentNumber: r.StudentNumber,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		DateOfBirth:   dob,
	}, nil
}

// UpdateStudentRequest is the body of PUT /students/:id
type UpdateStudentRequest struct {
	FirstName   string  `json:"firstName" example:"Ada"`
	LastName    string  `json:"lastName" example:"Lovelace"`
	Email       string  `json:"email" example:"ada@school.edu"`
	DateOfBirth *string `json:"dateOfBirth,omitempty" example:"2001-03-14"`
}

// ToInput converts the request into a service input
func (r UpdateStudentRequest) ToInput() (services.UpdateStudentInput, error) {
	dob, err := parseDate("dateOfBirth", r.DateOfBirth)
	if err != nil {
		return services.UpdateStudentInput{}, err
	}
	return services.UpdateStudentInput{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		DateOfBirth: dob,
	}, nil
}

// CourseRequest is the body of POST /courses (with code) and
// PUT /courses/:id (code ignored)
type CourseRequest struct {
	Code        string  `json:"code,omitempty" example:"CS101"`
	Title       string  `json:"title" example:"Introduction to Computing"`
	Description *string `json:"description,omitempty"`
	Credits     int     `json:"credits" example:"3"`
	MaxStudents *int    `json:"maxStudents,omitempty" example:"30"`
}

// ToCreateInput converts the request into a create input
func (r CourseRequest) ToCreateInput() services.CreateCourseInput {
	return services.CreateCourseInput{
		Code:        r.Code,
		Title:       r.Title,
		Description: r.Description,
		Credits:     r.Credits,
		MaxStudents: r.MaxStudents,
	}
}

// ToUpdateInput converts the request into an update input
func (r CourseRequest) ToUpdateInput() services.UpdateCourseInput {
	return services.UpdateCourseInput{
		Title:       r.Title,
		Description: r.Description,
		Credits:     r.Credits,
		MaxStudents: r.MaxStudents,
	}
}

// CourseStatusRequest is the body of PATCH /courses/:id/status
type CourseStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required" example:"false"`
}

// EnrollRequest is the body of POST /enrollments
type EnrollRequest struct {
	StudentID int64 `json:"studentId" binding:"required" example:"1"`
	CourseID  int64 `json:"courseId" binding:"required" example:"1"`
}

// RecordGradeRequest is the body of POST /grades
type RecordGradeRequest struct {
	StudentID  int64    `json:"studentId" binding:"required" example:"1"`
	CourseID   int64    `json:"courseId" binding:"required" example:"1"`
	Semester   string   `json:"semester" example:"Fall 2024"`
	GradePoint *float64 `json:"gradePoint" binding:"required" example:"3.7"`
}

// ToInput converts the request into a service input
func (r RecordGradeRequest) ToInput() services.RecordGradeInput {
	return services.RecordGradeInput{
		StudentID:  r.StudentID,
		CourseID:   r.CourseID,
		Semester:   r.Semester,
		GradePoint: *r.GradePoint,
	}
}
