package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

func TestCreateStudent(t *testing.T) {
	f := newFixture(t)

	dob := time.Date(2001, 3, 14, 15, 30, 0, 0, time.FixedZone("X", 3600))
	s, err := f.svc.Students.CreateStudent(f.ctx, CreateStudentInput{
		StudentNumber: "  S001 ",
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "ada@school.edu",
		DateOfBirth:   &dob,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ID)
	assert.Equal(t, "S001", s.StudentNumber)
	assert.Equal(t, time.Date(2001, 3, 14, 0, 0, 0, 0, time.UTC), *s.DateOfBirth)
	assert.False(t, s.CreatedAt.IsZero())

	got, err := f.svc.Students.GetStudent(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestCreateStudentDuplicateEmailLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t)
	f.student(t, "S001", "ada@school.edu")

	before, err := f.svc.Students.ListStudents(f.ctx)
	require.NoError(t, err)

	_, err = f.svc.Students.CreateStudent(f.ctx, CreateStudentInput{
		StudentNumber: "S002", FirstName: "Bob", LastName: "Byte", Email: "ada@school.edu",
	})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateKey))
	assert.Equal(t, "email", apperrors.DetailsOf(err)["field"])

	after, err := f.svc.Students.ListStudents(f.ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))

	_, err = f.svc.Students.CreateStudent(f.ctx, CreateStudentInput{
		StudentNumber: "S001", FirstName: "Bob", LastName: "Byte", Email: "bob@school.edu",
	})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateKey))
}

func TestCreateStudentValidation(t *testing.T) {
	f := newFixture(t)
	valid := CreateStudentInput{StudentNumber: "S001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@school.edu"}

	tests := []struct {
		name  string
		edit  func(*CreateStudentInput)
		field string
	}{
		{"blank number", func(in *CreateStudentInput) { in.StudentNumber = "   " }, "studentNumber"},
		{"long number", func(in *CreateStudentInput) { in.StudentNumber = "S0000000001" }, "studentNumber"},
		{"missing first name", func(in *CreateStudentInput) { in.FirstName = "" }, "firstName"},
		{"long last name", func(in *CreateStudentInput) { in.LastName = strings.Repeat("x", 51) }, "lastName"},
		{"malformed email", func(in *CreateStudentInput) { in.Email = "ada-at-school" }, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			_, err := f.svc.Students.CreateStudent(f.ctx, in)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
			assert.Equal(t, tt.field, apperrors.DetailsOf(err)["field"])
		})
	}

	students, err := f.svc.Students.ListStudents(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestGetStudentNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Students.GetStudent(f.ctx, 42)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, "NotFound", apperrors.Kind(err))
}

func TestUpdateStudent(t *testing.T) {
	f := newFixture(t)
	ada := f.student(t, "S001", "ada@school.edu")
	f.student(t, "S002", "bob@school.edu")

	updated, err := f.svc.Students.UpdateStudent(f.ctx, ada.ID, UpdateStudentInput{
		FirstName: "Augusta", LastName: "King", Email: "augusta@school.edu",
	})
	require.NoError(t, err)
	assert.Equal(t, "Augusta King", updated.FullName())
	assert.Equal(t, "S001", updated.StudentNumber)
	assert.Equal(t, ada.CreatedAt, updated.CreatedAt)

	_, err = f.svc.Students.UpdateStudent(f.ctx, ada.ID, UpdateStudentInput{
		FirstName: "Augusta", LastName: "King", Email: "bob@school.edu",
	})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateKey))

	_, err = f.svc.Students.UpdateStudent(f.ctx, 99, UpdateStudentInput{
		FirstName: "No", LastName: "One", Email: "no@school.edu",
	})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDeleteStudentRestrict(t *testing.T) {
	f := newFixture(t)
	ada := f.student(t, "S001", "ada@school.edu")
	bob := f.student(t, "S002", "bob@school.edu")
	course := f.course(t, "CS101", 3, nil)

	_, err := f.svc.Enrollments.Enroll(f.ctx, ada.ID, course.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Enrollments.Withdraw(f.ctx, ada.ID, course.ID))

	// an inactive enrollment still blocks delete
	err = f.svc.Students.DeleteStudent(f.ctx, ada.ID)
	assert.True(t, errors.Is(err, apperrors.ErrHasDependents))

	require.NoError(t, f.svc.Students.DeleteStudent(f.ctx, bob.ID))
	_, err = f.svc.Students.GetStudent(f.ctx, bob.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	err = f.svc.Students.DeleteStudent(f.ctx, bob.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestStoreUnavailablePropagates(t *testing.T) {
	f := newFixture(t)
	ada := f.student(t, "S001", "ada@school.edu")
	f.store.SetUnavailable(errors.New("connection reset"))

	_, err := f.svc.Students.GetStudent(f.ctx, ada.ID)
	assert.True(t, apperrors.IsRetryable(err))

	_, err = f.svc.GPA.ComputeCGPA(f.ctx, ada.ID)
	assert.True(t, apperrors.IsRetryable(err))
	assert.Equal(t, "StoreUnavailable", apperrors.Kind(err))

	_, err = f.svc.Students.CreateStudent(f.ctx, CreateStudentInput{
		StudentNumber: "S002", FirstName: "Bob", LastName: "Byte", Email: "bob@school.edu",
	})
	assert.True(t, apperrors.IsRetryable(err))

	// validation still fails first, without touching the store
	_, err = f.svc.Courses.CreateCourse(f.ctx, CreateCourseInput{Code: "X", Title: "X", Credits: 0})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
	assert.False(t, apperrors.IsRetryable(err))

	f.store.SetUnavailable(nil)
	students, err := f.svc.Students.ListStudents(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []*models.Student{ada}, students)
}
