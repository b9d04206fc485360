package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories/memory"
)

// tickingClock returns a clock that advances one minute per reading
func tickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}
}

type fixture struct {
	ctx   context.Context
	store *memory.Store
	svc   *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		ctx:   context.Background(),
		store: store,
		svc: NewServices(store,
			WithClock(tickingClock(time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC))),
			WithLogger(zerolog.Nop()),
		),
	}
}

func (f *fixture) student(t *testing.T, number, email string) *models.Student {
	t.Helper()
	s, err := f.svc.Students.CreateStudent(f.ctx, CreateStudentInput{
		StudentNumber: number,
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         email,
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) course(t *testing.T, code string, credits int, maxStudents *int) *models.Course {
	t.Helper()
	c, err := f.svc.Courses.CreateCourse(f.ctx, CreateCourseInput{
		Code:        code,
		Title:       code + " Title",
		Credits:     credits,
		MaxStudents: maxStudents,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) grade(t *testing.T, studentID, courseID int64, semester string, gp float64) *models.Grade {
	t.Helper()
	g, err := f.svc.Grades.RecordGrade(f.ctx, RecordGradeInput{
		StudentID:  studentID,
		CourseID:   courseID,
		Semester:   semester,
		GradePoint: gp,
	})
	require.NoError(t, err)
	return g
}
