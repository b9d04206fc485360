package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

func TestEnrollWithdrawRoundTrip(t *testing.T) {
	f := newFixture(t)
	s := f.student(t, "S001", "ada@school.edu")
	c := f.course(t, "CS101", 3, nil)

	e, err := f.svc.Enrollments.Enroll(f.ctx, s.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, e.IsActive)
	firstDate := e.EnrollmentDate

	enrolled, err := f.svc.Enrollments.IsEnrolled(f.ctx, s.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	require.NoError(t, f.svc.Enrollments.Withdraw(f.ctx, s.ID, c.ID))
	enrolled, err = f.svc.Enrollments.IsEnrolled(f.ctx, s.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	// withdrawing twice finds no active enrollment
	err = f.svc.Enrollments.Withdraw(f.ctx, s.ID, c.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	again, err := f.svc.Enrollments.Enroll(f.ctx, s.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, again.EnrollmentDate.After(firstDate))

	rows, err := f.svc.Enrollments.ListEnrollments(f.ctx, models.EnrollmentFilter{StudentID: &s.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsActive)
	assert.Equal(t, again.EnrollmentDate, rows[0].EnrollmentDate)
}

func TestEnrollErrorOrder(t *testing.T) {
	f := newFixture(t)
	s := f.student(t, "S001", "ada@school.edu")
	other := f.student(t, "S002", "bob@school.edu")
	full := f.course(t, "CS101", 3, models.IntPtr(1))
	closed := f.course(t, "CS102", 3, nil)

	_, err := f.svc.Courses.SetCourseActive(f.ctx, closed.ID, false)
	require.NoError(t, err)

	_, err = f.svc.Enrollments.Enroll(f.ctx, 99, full.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = f.svc.Enrollments.Enroll(f.ctx, s.ID, 99)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	_, err = f.svc.Enrollments.Enroll(f.ctx, s.ID, closed.ID)
	assert.True(t, errors.Is(err, apperrors.ErrCourseInactive))

	_, err = f.svc.Enrollments.Enroll(f.ctx, s.ID, full.ID)
	require.NoError(t, err)

	// already enrolled wins over full for the seat holder
	_, err = f.svc.Enrollments.Enroll(f.ctx, s.ID, full.ID)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyEnrolled))

	_, err = f.svc.Enrollments.Enroll(f.ctx, other.ID, full.ID)
	assert.True(t, errors.Is(err, apperrors.ErrCourseFull))
	assert.Equal(t, "CourseFull", apperrors.Kind(err))
}

func TestCourseFullThenSucceedsAfterWithdraw(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, "CS101", 3, models.IntPtr(2))
	a := f.student(t, "S001", "a@school.edu")
	b := f.student(t, "S002", "b@school.edu")
	x := f.student(t, "S003", "x@school.edu")

	for _, s := range []*models.Student{a, b} {
		_, err := f.svc.Enrollments.Enroll(f.ctx, s.ID, c.ID)
		require.NoError(t, err)
	}
	count, err := f.svc.Enrollments.ActiveEnrollmentCount(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = f.svc.Enrollments.Enroll(f.ctx, x.ID, c.ID)
	assert.True(t, errors.Is(err, apperrors.ErrCourseFull))

	require.NoError(t, f.svc.Enrollments.Withdraw(f.ctx, a.ID, c.ID))
	_, err = f.svc.Enrollments.Enroll(f.ctx, x.ID, c.ID)
	require.NoError(t, err)

	count, err = f.svc.Enrollments.ActiveEnrollmentCount(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = f.svc.Enrollments.ActiveEnrollmentCount(f.ctx, 404)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestLoweringCapacityKeepsExistingEnrollments(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, "CS101", 3, nil)
	a := f.student(t, "S001", "a@school.edu")
	b := f.student(t, "S002", "b@school.edu")
	x := f.student(t, "S003", "x@school.edu")
	for _, s := range []*models.Student{a, b} {
		_, err := f.svc.Enrollments.Enroll(f.ctx, s.ID, c.ID)
		require.NoError(t, err)
	}

	_, err := f.svc.Courses.UpdateCourse(f.ctx, c.ID, UpdateCourseInput{Title: c.Title, Credits: 3, MaxStudents: models.IntPtr(1)})
	require.NoError(t, err)

	count, err := f.svc.Enrollments.ActiveEnrollmentCount(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = f.svc.Enrollments.Enroll(f.ctx, x.ID, c.ID)
	assert.True(t, errors.Is(err, apperrors.ErrCourseFull))
}

func TestConcurrentEnrollSamePair(t *testing.T) {
	for _, capacity := range []*int{nil, models.IntPtr(1), models.IntPtr(5)} {
		f := newFixture(t)
		s := f.student(t, "S001", "ada@school.edu")
		c := f.course(t, "CS101", 3, capacity)

		const callers = 8
		errs := make([]error, callers)
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.svc.Enrollments.Enroll(f.ctx, s.ID, c.ID)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.True(t, apperrors.Is(err, apperrors.ErrAlreadyEnrolled, apperrors.ErrCourseFull), "unexpected error: %v", err)
		}
		assert.Equal(t, 1, succeeded)

		rows, err := f.svc.Enrollments.ListEnrollments(f.ctx, models.EnrollmentFilter{})
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	}
}

func TestConcurrentEnrollNeverOverfills(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, "CS101", 3, models.IntPtr(3))

	students := make([]*models.Student, 10)
	for i := range students {
		students[i] = f.student(t, "S00"+string(rune('0'+i)), "s"+string(rune('0'+i))+"@school.edu")
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for _, s := range students {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := f.svc.Enrollments.Enroll(f.ctx, id, c.ID)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, apperrors.ErrCourseFull))
		}(s.ID)
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	count, err := f.svc.Enrollments.ActiveEnrollmentCount(f.ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestListEnrollmentsFilter(t *testing.T) {
	f := newFixture(t)
	a := f.student(t, "S001", "a@school.edu")
	b := f.student(t, "S002", "b@school.edu")
	cs := f.course(t, "CS101", 3, nil)
	ma := f.course(t, "MA101", 4, nil)

	for _, pair := range [][2]int64{{a.ID, cs.ID}, {a.ID, ma.ID}, {b.ID, cs.ID}} {
		_, err := f.svc.Enrollments.Enroll(f.ctx, pair[0], pair[1])
		require.NoError(t, err)
	}
	require.NoError(t, f.svc.Enrollments.Withdraw(f.ctx, a.ID, ma.ID))

	all, err := f.svc.Enrollments.ListEnrollments(f.ctx, models.EnrollmentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := f.svc.Enrollments.ListEnrollments(f.ctx, models.EnrollmentFilter{IsActive: models.BoolPtr(true)})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	inCS, err := f.svc.Enrollments.ListEnrollments(f.ctx, models.EnrollmentFilter{CourseID: &cs.ID})
	require.NoError(t, err)
	require.Len(t, inCS, 2)
	assert.Equal(t, "S001", inCS[0].StudentNumber)
	assert.Equal(t, "S002", inCS[1].StudentNumber)
	assert.Equal(t, "CS101", inCS[0].CourseCode)
}
