package models

import "time"

// Course represents a course that students can enroll in and be graded for.
type Course struct {
	ID          int64   `json:"id" db:"id"`
	Code        string  `json:"code" db:"course_code"`
	Title       string  `json:"title" db:"title"`
	Description *string `json:"description,omitempty" db:"description"`
	// Credits weight the course in GPA calculations and are always positive
	Credits int `json:"credits" db:"credits"`
	// MaxStudents caps active enrollments; nil means unlimited
	MaxStudents *int      `json:"maxStudents,omitempty" db:"max_students"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// HasCapacityFor reports whether a course with activeCount active
// enrollments can take one more student
func (c *Course) HasCapacityFor(activeCount int) bool {
	return c.MaxStudents == nil || activeCount < *c.MaxStudents
}
