package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

func TestCreateCourse(t *testing.T) {
	f := newFixture(t)

	c, err := f.svc.Courses.CreateCourse(f.ctx, CreateCourseInput{
		Code:        "CS101",
		Title:       " Intro to CS ",
		Description: models.StringPtr("   "),
		Credits:     3,
		MaxStudents: models.IntPtr(30),
	})
	require.NoError(t, err)
	assert.True(t, c.IsActive)
	assert.Equal(t, "Intro to CS", c.Title)
	assert.Nil(t, c.Description)
	assert.Equal(t, 30, *c.MaxStudents)

	_, err = f.svc.Courses.CreateCourse(f.ctx, CreateCourseInput{Code: "CS101", Title: "Again", Credits: 3})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateKey))
}

func TestCreateCourseValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		in    CreateCourseInput
		field string
	}{
		{"zero credits", CreateCourseInput{Code: "CS1", Title: "T", Credits: 0}, "credits"},
		{"negative credits", CreateCourseInput{Code: "CS1", Title: "T", Credits: -2}, "credits"},
		{"zero capacity", CreateCourseInput{Code: "CS1", Title: "T", Credits: 3, MaxStudents: models.IntPtr(0)}, "maxStudents"},
		{"missing code", CreateCourseInput{Code: " ", Title: "T", Credits: 3}, "code"},
		{"long code", CreateCourseInput{Code: "ABCDEFGHIJK", Title: "T", Credits: 3}, "code"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Courses.CreateCourse(f.ctx, tt.in)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
			assert.Equal(t, tt.field, apperrors.DetailsOf(err)["field"])
		})
	}
}

func TestListCoursesAndActiveCourses(t *testing.T) {
	f := newFixture(t)
	ma := f.course(t, "MA101", 4, nil)
	f.course(t, "CS101", 3, nil)
	f.course(t, "BI101", 2, nil)

	_, err := f.svc.Courses.SetCourseActive(f.ctx, ma.ID, false)
	require.NoError(t, err)

	all, err := f.svc.Courses.ListCourses(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BI101", "CS101", "MA101"}, courseCodes(all))

	active, err := f.svc.Courses.ListActiveCourses(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BI101", "CS101"}, courseCodes(active))

	reopened, err := f.svc.Courses.SetCourseActive(f.ctx, ma.ID, true)
	require.NoError(t, err)
	assert.True(t, reopened.IsActive)

	_, err = f.svc.Courses.SetCourseActive(f.ctx, 99, true)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateCourse(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, "CS101", 3, models.IntPtr(2))

	updated, err := f.svc.Courses.UpdateCourse(f.ctx, c.ID, UpdateCourseInput{
		Title:       "Computing",
		Description: models.StringPtr("Basics"),
		Credits:     4,
	})
	require.NoError(t, err)
	assert.Equal(t, "CS101", updated.Code)
	assert.Equal(t, 4, updated.Credits)
	assert.Nil(t, updated.MaxStudents)
	assert.Equal(t, "Basics", *updated.Description)

	got, err := f.svc.Courses.GetCourse(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = f.svc.Courses.UpdateCourse(f.ctx, c.ID, UpdateCourseInput{Title: "Computing", Credits: 0})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))

	_, err = f.svc.Courses.UpdateCourse(f.ctx, 77, UpdateCourseInput{Title: "Nope", Credits: 1})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDeleteCourseRestrict(t *testing.T) {
	f := newFixture(t)
	s := f.student(t, "S001", "ada@school.edu")
	graded := f.course(t, "CS101", 3, nil)
	empty := f.course(t, "CS102", 3, nil)
	f.grade(t, s.ID, graded.ID, "Fall 2024", 3.0)

	err := f.svc.Courses.DeleteCourse(f.ctx, graded.ID)
	assert.True(t, errors.Is(err, apperrors.ErrHasDependents))
	assert.Equal(t, "HasDependents", apperrors.Kind(err))

	require.NoError(t, f.svc.Courses.DeleteCourse(f.ctx, empty.ID))
	_, err = f.svc.Courses.GetCourse(f.ctx, empty.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func courseCodes(courses []*models.Course) []string {
	codes := make([]string, 0, len(courses))
	for _, c := range courses {
		codes = append(codes, c.Code)
	}
	return codes
}
