package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

var t0 = time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC)

func seedStudent(t *testing.T, s *Store, number, email string) *models.Student {
	t.Helper()
	student := &models.Student{StudentNumber: number, FirstName: "Ada", LastName: "Lovelace", Email: email, CreatedAt: t0}
	require.NoError(t, s.CreateStudent(context.Background(), student))
	return student
}

func seedCourse(t *testing.T, s *Store, code string, credits int) *models.Course {
	t.Helper()
	course := &models.Course{Code: code, Title: code + " title", Credits: credits, IsActive: true, CreatedAt: t0}
	require.NoError(t, s.CreateCourse(context.Background(), course))
	return course
}

func TestStudentUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	first := seedStudent(t, s, "S001", "ada@school.edu")
	assert.Equal(t, int64(1), first.ID)

	err := s.CreateStudent(ctx, &models.Student{StudentNumber: "S002", Email: "ada@school.edu"})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateKey))

	err = s.CreateStudent(ctx, &models.Student{StudentNumber: "S001", Email: "other@school.edu"})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateKey))

	students, err := s.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)

	second := seedStudent(t, s, "S002", "bob@school.edu")
	second.Email = "ada@school.edu"
	err = s.UpdateStudent(ctx, second)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateKey))

	first.Email = "ada.l@school.edu"
	first.StudentNumber = "IGNORED"
	require.NoError(t, s.UpdateStudent(ctx, first))
	got, err := s.GetStudentByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada.l@school.edu", got.Email)
	assert.Equal(t, "S001", got.StudentNumber)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	student := seedStudent(t, s, "S001", "ada@school.edu")

	got, err := s.GetStudentByID(ctx, student.ID)
	require.NoError(t, err)
	got.FirstName = "Mutated"

	again, err := s.GetStudentByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.FirstName)
}

func TestPointerFieldsAreNotShared(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	born := time.Date(2003, 12, 10, 0, 0, 0, 0, time.UTC)

	student := &models.Student{StudentNumber: "S001", Email: "ada@school.edu", DateOfBirth: &born, CreatedAt: t0}
	require.NoError(t, s.CreateStudent(ctx, student))
	*student.DateOfBirth = t0

	got, err := s.GetStudentByID(ctx, student.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DateOfBirth)
	assert.True(t, got.DateOfBirth.Equal(born))

	*got.DateOfBirth = t0
	listed, err := s.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].DateOfBirth.Equal(born))

	course := &models.Course{
		Code: "CS101", Title: "Intro", Credits: 4, IsActive: true,
		MaxStudents: models.IntPtr(2), Description: models.StringPtr("basics"), CreatedAt: t0,
	}
	require.NoError(t, s.CreateCourse(ctx, course))
	*course.MaxStudents = 100
	*course.Description = "changed"

	gotCourse, err := s.GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, *gotCourse.MaxStudents)
	assert.Equal(t, "basics", *gotCourse.Description)

	*gotCourse.MaxStudents = 100
	courses, err := s.ListCourses(ctx, false)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 2, *courses[0].MaxStudents)

	update := &models.Course{ID: course.ID, Title: "Intro", Credits: 4, MaxStudents: models.IntPtr(3)}
	require.NoError(t, s.UpdateCourse(ctx, update))
	*update.MaxStudents = 100
	gotCourse, err = s.GetCourseByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, *gotCourse.MaxStudents)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(ctx context.Context, tx repositories.Records) error {
		require.NoError(t, tx.CreateStudent(ctx, &models.Student{StudentNumber: "S001", Email: "a@x.io"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	students, err := s.ListStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, students)

	// ids handed out inside the rolled back tx are reused
	student := seedStudent(t, s, "S001", "a@x.io")
	assert.Equal(t, int64(1), student.ID)
}

func TestSnapshotIsReadOnly(t *testing.T) {
	s := NewStore()
	err := s.WithSnapshot(context.Background(), func(ctx context.Context, tx repositories.Records) error {
		return tx.CreateStudent(ctx, &models.Student{StudentNumber: "S001", Email: "a@x.io"})
	})
	assert.ErrorIs(t, err, errReadOnly)
}

func TestSnapshotsDoNotBlockEachOther(t *testing.T) {
	s := NewStore()
	seedStudent(t, s, "S001", "a@x.io")

	inside := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- s.WithSnapshot(context.Background(), func(ctx context.Context, tx repositories.Records) error {
			close(inside)
			<-release
			return nil
		})
	}()
	<-inside

	// a second snapshot completes while the first is still open
	err := s.WithSnapshot(context.Background(), func(ctx context.Context, tx repositories.Records) error {
		_, err := tx.ListStudents(ctx)
		return err
	})
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
}

func TestEnrollmentRows(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	student := seedStudent(t, s, "S001", "a@x.io")
	course := seedCourse(t, s, "CS101", 3)

	_, err := s.GetEnrollment(ctx, student.ID, course.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	e := &models.Enrollment{StudentID: student.ID, CourseID: course.ID, EnrollmentDate: t0, IsActive: true}
	require.NoError(t, s.SaveEnrollment(ctx, e))
	e.IsActive = false
	require.NoError(t, s.SaveEnrollment(ctx, e))

	all, err := s.ListEnrollments(ctx, models.EnrollmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)
	assert.Equal(t, "Ada Lovelace", all[0].StudentName)
	assert.Equal(t, "CS101", all[0].CourseCode)

	count, err := s.CountActiveEnrollments(ctx, course.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = s.SaveEnrollment(ctx, &models.Enrollment{StudentID: 99, CourseID: course.ID, IsActive: true})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDeleteRestrict(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	student := seedStudent(t, s, "S001", "a@x.io")
	course := seedCourse(t, s, "CS101", 3)
	lonely := seedCourse(t, s, "CS999", 1)

	require.NoError(t, s.CreateGrade(ctx, &models.Grade{StudentID: student.ID, CourseID: course.ID, Semester: "Fall 2024", GradePoint: 3.0, CreatedAt: t0}))

	assert.True(t, errors.Is(s.DeleteStudent(ctx, student.ID), apperrors.ErrHasDependents))
	assert.True(t, errors.Is(s.DeleteCourse(ctx, course.ID), apperrors.ErrHasDependents))
	assert.True(t, errors.Is(s.DeleteCourse(ctx, 42), apperrors.ErrNotFound))
	assert.True(t, errors.Is(s.DeleteStudent(ctx, 42), apperrors.ErrNotFound))

	enrolled := seedStudent(t, s, "S002", "b@x.io")
	require.NoError(t, s.SaveEnrollment(ctx, &models.Enrollment{StudentID: enrolled.ID, CourseID: lonely.ID, EnrollmentDate: t0}))
	assert.True(t, errors.Is(s.DeleteStudent(ctx, enrolled.ID), apperrors.ErrHasDependents))
	assert.True(t, errors.Is(s.DeleteCourse(ctx, lonely.ID), apperrors.ErrHasDependents))

	err := s.WithTx(ctx, func(ctx context.Context, tx repositories.Records) error {
		if err := tx.DeleteStudent(ctx, enrolled.ID); err != nil {
			return err
		}
		return tx.DeleteCourse(ctx, lonely.ID)
	})
	assert.True(t, errors.Is(err, apperrors.ErrHasDependents))
	_, err = s.GetStudentByID(ctx, enrolled.ID)
	require.NoError(t, err)
	free := seedCourse(t, s, "CS998", 1)

	require.NoError(t, s.DeleteCourse(ctx, free.ID))
	_, err = s.GetCourseByID(ctx, free.ID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGradesOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	student := seedStudent(t, s, "S001", "a@x.io")
	cs := seedCourse(t, s, "CS101", 3)
	ma := seedCourse(t, s, "MA101", 4)

	require.NoError(t, s.CreateGrade(ctx, &models.Grade{StudentID: student.ID, CourseID: ma.ID, Semester: "Spring 2025", GradePoint: 3.0, CreatedAt: t0.Add(time.Hour)}))
	require.NoError(t, s.CreateGrade(ctx, &models.Grade{StudentID: student.ID, CourseID: cs.ID, Semester: "Fall 2024", GradePoint: 4.0, CreatedAt: t0}))

	err := s.CreateGrade(ctx, &models.Grade{StudentID: student.ID, CourseID: cs.ID, Semester: "Fall 2024", GradePoint: 4.5, CreatedAt: t0})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))

	transcript, err := s.ListTranscript(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, transcript, 2)
	assert.Equal(t, "CS101", transcript[0].Course.Code)
	assert.Equal(t, "MA101", transcript[1].Course.Code)

	weighted, err := s.ListWeightedGrades(ctx, models.GradeFilter{StudentID: &student.ID, Semester: models.StringPtr("Fall 2024")})
	require.NoError(t, err)
	assert.Equal(t, []models.WeightedGrade{{StudentID: student.ID, GradePoint: 4.0, Credits: 3}}, weighted)

	byCourse, err := s.ListGrades(ctx, models.GradeFilter{CourseID: &ma.ID})
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	assert.Equal(t, 3.0, byCourse[0].GradePoint)
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.SetUnavailable(errors.New("connection refused"))

	_, err := s.ListStudents(ctx)
	assert.True(t, apperrors.IsRetryable(err))
	err = s.CreateCourse(ctx, &models.Course{Code: "X", Credits: 1})
	assert.True(t, apperrors.IsRetryable(err))

	s.SetUnavailable(nil)
	_, err = s.ListStudents(ctx)
	assert.NoError(t, err)
}

func TestConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	course := seedCourse(t, s, "CS101", 3)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			student := &models.Student{StudentNumber: string(rune('A' + i)), Email: string(rune('a'+i)) + "@x.io", CreatedAt: t0}
			if err := s.CreateStudent(ctx, student); err != nil {
				t.Error(err)
				return
			}
			_ = s.SaveEnrollment(ctx, &models.Enrollment{StudentID: student.ID, CourseID: course.ID, EnrollmentDate: t0, IsActive: true})
		}(i)
	}
	wg.Wait()

	count, err := s.CountActiveEnrollments(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, count)

	roster, err := s.ListRoster(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, roster, 20)
	for i := 1; i < len(roster); i++ {
		assert.Less(t, roster[i-1].Student.ID, roster[i].Student.ID)
	}
}
