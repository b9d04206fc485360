package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/services"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

type demoStudent struct {
	number, first, last, email string
	born                       time.Time
}

type demoCourse struct {
	code, title string
	credits     int
	maxStudents *int
}

type demoGrade struct {
	student, course, semester string
	gradePoint                float64
}

var (
	demoStudents = []demoStudent{
		{"S001", "Ada", "Lovelace", "ada.lovelace@example.edu", time.Date(2003, 12, 10, 0, 0, 0, 0, time.UTC)},
		{"S002", "Alan", "Turing", "alan.turing@example.edu", time.Date(2004, 6, 23, 0, 0, 0, 0, time.UTC)},
		{"S003", "Grace", "Hopper", "grace.hopper@example.edu", time.Date(2003, 12, 9, 0, 0, 0, 0, time.UTC)},
	}
	demoCourses = []demoCourse{
		{"CS101", "Introduction to Programming", 4, models.IntPtr(30)},
		{"MA101", "Calculus I", 3, nil},
		{"CS201", "Data Structures", 4, models.IntPtr(2)},
	}
	demoEnrollments = [][2]string{
		{"S001", "CS101"}, {"S001", "MA101"}, {"S001", "CS201"},
		{"S002", "CS101"}, {"S002", "CS201"},
		{"S003", "MA101"},
	}
	demoGrades = []demoGrade{
		{"S001", "CS101", "Fall 2024", 3.7},
		{"S001", "MA101", "Fall 2024", 3.3},
		{"S002", "CS101", "Fall 2024", 3.0},
		{"S003", "MA101", "Fall 2024", 4.0},
	}
)

// CreateDemoData fills an empty store with a few students, courses,
// enrollments and grades. A store that already holds students is left
// untouched.
func CreateDemoData(ctx context.Context, svc *services.Services, lgr zerolog.Logger) error {
	existing, err := svc.Students.ListStudents(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		lgr.Info().Int("students", len(existing)).Msg("Store already holds data, skipping demo data")
		return nil
	}

	lgr.Info().Msg("Creating demo data (students/courses/enrollments/grades)...")
	var finalErr error

	studentIDs := make(map[string]int64, len(demoStudents))
	for _, d := range demoStudents {
		born := d.born
		s, err := svc.Students.CreateStudent(ctx, services.CreateStudentInput{
			StudentNumber: d.number,
			FirstName:     d.first,
			LastName:      d.last,
			Email:         d.email,
			DateOfBirth:   &born,
		})
		if err != nil {
			if !errors.Is(err, apperrors.ErrDuplicateKey) {
				lgr.Error().Err(err).Str("studentNumber", d.number).Msg("Error creating demo student")
				finalErr = errors.Join(finalErr, err)
			}
			continue
		}
		studentIDs[d.number] = s.ID
	}

	courseIDs := make(map[string]int64, len(demoCourses))
	for _, d := range demoCourses {
		c, err := svc.Courses.CreateCourse(ctx, services.CreateCourseInput{
			Code:        d.code,
			Title:       d.title,
			Credits:     d.credits,
			MaxStudents: d.maxStudents,
		})
		if err != nil {
			if !errors.Is(err, apperrors.ErrDuplicateKey) {
				lgr.Error().Err(err).Str("courseCode", d.code).Msg("Error creating demo course")
				finalErr = errors.Join(finalErr, err)
			}
			continue
		}
		courseIDs[d.code] = c.ID
	}

	for _, pair := range demoEnrollments {
		studentID, courseID := studentIDs[pair[0]], courseIDs[pair[1]]
		if studentID == 0 || courseID == 0 {
			continue
		}
		_, err := svc.Enrollments.Enroll(ctx, studentID, courseID)
		if err != nil && !errors.Is(err, apperrors.ErrAlreadyEnrolled) && !errors.Is(err, apperrors.ErrCourseFull) {
			lgr.Error().Err(err).Str("studentNumber", pair[0]).Str("courseCode", pair[1]).Msg("Error creating demo enrollment")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, d := range demoGrades {
		studentID, courseID := studentIDs[d.student], courseIDs[d.course]
		if studentID == 0 || courseID == 0 {
			continue
		}
		if _, err := svc.Grades.RecordGrade(ctx, services.RecordGradeInput{
			StudentID:  studentID,
			CourseID:   courseID,
			Semester:   d.semester,
			GradePoint: d.gradePoint,
		}); err != nil {
			lgr.Error().Err(err).Str("studentNumber", d.student).Str("courseCode", d.course).Msg("Error creating demo grade")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Int("students", len(studentIDs)).Int("courses", len(courseIDs)).Msg("Demo data created")
	return finalErr
}
