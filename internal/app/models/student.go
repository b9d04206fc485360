package models

import "time"

// Student defines the student model based on the 'students' table.
// StudentNumber and Email are unique; StudentNumber never changes.
type Student struct {
	ID            int64      `json:"id" db:"id" example:"1"`
	StudentNumber string     `json:"studentNumber" db:"student_number" example:"S001"`
	FirstName     string     `json:"firstName" db:"first_name" example:"Ada"`
	LastName      string     `json:"lastName" db:"last_name" example:"Lovelace"`
	Email         string     `json:"email" db:"email" example:"ada@school.edu"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}

// FullName returns "First Last"
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentSummary is a student row annotated with its cumulative GPA
type StudentSummary struct {
	Student
	CGPA float64 `json:"cgpa" example:"3.42"`
}
