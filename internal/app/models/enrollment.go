package models

import "time"

// Enrollment links a student to a course. The (StudentID, CourseID) pair is
// unique; withdrawing only clears IsActive.
type Enrollment struct {
	StudentID      int64     `json:"studentId" db:"student_id"`
	CourseID       int64     `json:"courseId" db:"course_id"`
	EnrollmentDate time.Time `json:"enrollmentDate" db:"enrollment_date"`
	IsActive       bool      `json:"isActive" db:"is_active"`
}

// EnrollmentDetail enriches Enrollment with student and course info.
type EnrollmentDetail struct {
	Enrollment
	StudentNumber string `json:"studentNumber" db:"student_number"`
	StudentName   string `json:"studentName" db:"student_name"`
	CourseCode    string `json:"courseCode" db:"course_code"`
	CourseTitle   string `json:"courseTitle" db:"course_title"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID *int64
	CourseID  *int64
	IsActive  *bool
}

// RosterEntry is a student actively enrolled in a course
type RosterEntry struct {
	Student        Student   `json:"student"`
	EnrollmentDate time.Time `json:"enrollmentDate"`
}
