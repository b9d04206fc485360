package models

import "time"

// Grade point bounds
const (
	MinGradePoint = 0.0
	MaxGradePoint = 4.0
)

// Grade is one recorded result of a student in a course for a semester.
// Retakes produce additional rows; nothing is overwritten.
type Grade struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  int64     `json:"studentId" db:"student_id"`
	CourseID   int64     `json:"courseId" db:"course_id"`
	Semester   string    `json:"semester" db:"semester" example:"Fall 2024"`
	GradePoint float64   `json:"gradePoint" db:"grade_point" example:"3.7"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// GradeFilter narrows grade listings. Nil fields are ignored; Semester is
// matched exactly.
type GradeFilter struct {
	StudentID *int64
	CourseID  *int64
	Semester  *string
}

// WeightedGrade is a grade point paired with the credits of its course
type WeightedGrade struct {
	StudentID  int64
	GradePoint float64
	Credits    int
}

// TranscriptEntry is one line of a student's transcript
type TranscriptEntry struct {
	GradeID    int64     `json:"gradeId"`
	Course     Course    `json:"course"`
	Semester   string    `json:"semester"`
	GradePoint float64   `json:"gradePoint"`
	RecordedAt time.Time `json:"recordedAt"`
}
