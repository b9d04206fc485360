// Package memory provides a process-local repositories.Store. It backs the
// service tests and the "memory" database driver.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

type pairKey struct {
	studentID int64
	courseID  int64
}

// state is one version of the whole data set
type state struct {
	students    map[int64]models.Student
	courses     map[int64]models.Course
	enrollments map[pairKey]models.Enrollment
	grades      []models.Grade

	nextStudentID int64
	nextCourseID  int64
	nextGradeID   int64
}

func newState() *state {
	return &state{
		students:      make(map[int64]models.Student),
		courses:       make(map[int64]models.Course),
		enrollments:   make(map[pairKey]models.Enrollment),
		nextStudentID: 1,
		nextCourseID:  1,
		nextGradeID:   1,
	}
}

func (s *state) clone() *state {
	c := &state{
		students:      make(map[int64]models.Student, len(s.students)),
		courses:       make(map[int64]models.Course, len(s.courses)),
		enrollments:   make(map[pairKey]models.Enrollment, len(s.enrollments)),
		grades:        make([]models.Grade, len(s.grades)),
		nextStudentID: s.nextStudentID,
		nextCourseID:  s.nextCourseID,
		nextGradeID:   s.nextGradeID,
	}
	for k, v := range s.students {
		c.students[k] = copyStudent(v)
	}
	for k, v := range s.courses {
		c.courses[k] = copyCourse(v)
	}
	for k, v := range s.enrollments {
		c.enrollments[k] = v
	}
	copy(c.grades, s.grades)
	return c
}

// copyStudent detaches the pointer fields so callers never share them with
// the stored record
func copyStudent(s models.Student) models.Student {
	if s.DateOfBirth != nil {
		born := *s.DateOfBirth
		s.DateOfBirth = &born
	}
	return s
}

func copyCourse(c models.Course) models.Course {
	if c.Description != nil {
		desc := *c.Description
		c.Description = &desc
	}
	if c.MaxStudents != nil {
		limit := *c.MaxStudents
		c.MaxStudents = &limit
	}
	return c
}

// Store keeps records in maps guarded by a RWMutex. Transactions work on a
// copy of the state that replaces the live one on success.
type Store struct {
	mu          sync.RWMutex
	st          *state
	unavailable error
}

var (
	_ repositories.Store   = (*Store)(nil)
	_ repositories.Records = (*view)(nil)
)

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{st: newState()}
}

// SetUnavailable makes every subsequent call fail with StoreUnavailable
// wrapping cause. A nil cause restores normal operation.
func (s *Store) SetUnavailable(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = cause
}

func (s *Store) checkAvailable(op string) error {
	if s.unavailable != nil {
		return apperrors.NewStoreUnavailableError(op, s.unavailable)
	}
	return nil
}

// WithTx runs fn with exclusive access. Writes made by fn are discarded
// when it returns an error.
func (s *Store) WithTx(ctx context.Context, fn repositories.TxFn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkAvailable("transaction"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return apperrors.NewStoreUnavailableError("transaction", err)
	}

	work := s.st.clone()
	if err := fn(ctx, &view{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// WithSnapshot runs fn against a read-only view; snapshots run in parallel
func (s *Store) WithSnapshot(ctx context.Context, fn repositories.TxFn) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkAvailable("snapshot"); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return apperrors.NewStoreUnavailableError("snapshot", err)
	}
	return fn(ctx, &view{st: s.st, readOnly: true})
}

func (s *Store) read(op string, fn func(v *view) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkAvailable(op); err != nil {
		return err
	}
	return fn(&view{st: s.st, readOnly: true})
}

func (s *Store) write(ctx context.Context, fn func(v *view) error) error {
	return s.WithTx(ctx, func(_ context.Context, tx repositories.Records) error {
		return fn(tx.(*view))
	})
}

// CreateStudent inserts a student and sets its ID
func (s *Store) CreateStudent(ctx context.Context, student *models.Student) error {
	return s.write(ctx, func(v *view) error { return v.CreateStudent(ctx, student) })
}

// GetStudentByID retrieves a student by ID
func (s *Store) GetStudentByID(ctx context.Context, id int64) (student *models.Student, err error) {
	err = s.read("get student", func(v *view) error {
		student, err = v.GetStudentByID(ctx, id)
		return err
	})
	return student, err
}

// ListStudents retrieves all students ordered by ID
func (s *Store) ListStudents(ctx context.Context) (students []*models.Student, err error) {
	err = s.read("list students", func(v *view) error {
		students, err = v.ListStudents(ctx)
		return err
	})
	return students, err
}

// UpdateStudent overwrites the mutable fields of a student
func (s *Store) UpdateStudent(ctx context.Context, student *models.Student) error {
	return s.write(ctx, func(v *view) error { return v.UpdateStudent(ctx, student) })
}

// DeleteStudent deletes an unreferenced student
func (s *Store) DeleteStudent(ctx context.Context, id int64) error {
	return s.write(ctx, func(v *view) error { return v.DeleteStudent(ctx, id) })
}

// StudentHasDependents checks for grades or enrollment rows of a student
func (s *Store) StudentHasDependents(ctx context.Context, id int64) (has bool, err error) {
	err = s.read("check student dependents", func(v *view) error {
		has, err = v.StudentHasDependents(ctx, id)
		return err
	})
	return has, err
}

// CreateCourse inserts a course and sets its ID
func (s *Store) CreateCourse(ctx context.Context, course *models.Course) error {
	return s.write(ctx, func(v *view) error { return v.CreateCourse(ctx, course) })
}

// GetCourseByID retrieves a course by ID
func (s *Store) GetCourseByID(ctx context.Context, id int64) (course *models.Course, err error) {
	err = s.read("get course", func(v *view) error {
		course, err = v.GetCourseByID(ctx, id)
		return err
	})
	return course, err
}

// GetCourseForUpdate is GetCourseByID; WithTx already holds the write lock
func (s *Store) GetCourseForUpdate(ctx context.Context, id int64) (*models.Course, error) {
	return s.GetCourseByID(ctx, id)
}

// ListCourses retrieves courses ordered by code
func (s *Store) ListCourses(ctx context.Context, activeOnly bool) (courses []*models.Course, err error) {
	err = s.read("list courses", func(v *view) error {
		courses, err = v.ListCourses(ctx, activeOnly)
		return err
	})
	return courses, err
}

// UpdateCourse overwrites title, description, credits and capacity
func (s *Store) UpdateCourse(ctx context.Context, course *models.Course) error {
	return s.write(ctx, func(v *view) error { return v.UpdateCourse(ctx, course) })
}

// SetCourseActive toggles whether a course accepts new enrollments
func (s *Store) SetCourseActive(ctx context.Context, id int64, active bool) error {
	return s.write(ctx, func(v *view) error { return v.SetCourseActive(ctx, id, active) })
}

// DeleteCourse deletes an unreferenced course
func (s *Store) DeleteCourse(ctx context.Context, id int64) error {
	return s.write(ctx, func(v *view) error { return v.DeleteCourse(ctx, id) })
}

// CourseHasDependents checks for grades or enrollment rows of a course
func (s *Store) CourseHasDependents(ctx context.Context, id int64) (has bool, err error) {
	err = s.read("check course dependents", func(v *view) error {
		has, err = v.CourseHasDependents(ctx, id)
		return err
	})
	return has, err
}

// GetEnrollment retrieves the enrollment row of a pair
func (s *Store) GetEnrollment(ctx context.Context, studentID, courseID int64) (e *models.Enrollment, err error) {
	err = s.read("get enrollment", func(v *view) error {
		e, err = v.GetEnrollment(ctx, studentID, courseID)
		return err
	})
	return e, err
}

// CountActiveEnrollments counts active enrollment rows of a course
func (s *Store) CountActiveEnrollments(ctx context.Context, courseID int64) (n int, err error) {
	err = s.read("count active enrollments", func(v *view) error {
		n, err = v.CountActiveEnrollments(ctx, courseID)
		return err
	})
	return n, err
}

// SaveEnrollment inserts or overwrites the row of a pair
func (s *Store) SaveEnrollment(ctx context.Context, e *models.Enrollment) error {
	return s.write(ctx, func(v *view) error { return v.SaveEnrollment(ctx, e) })
}

// ListEnrollments lists enrollment rows joined with student and course
func (s *Store) ListEnrollments(ctx context.Context, filter models.EnrollmentFilter) (details []*models.EnrollmentDetail, err error) {
	err = s.read("list enrollments", func(v *view) error {
		details, err = v.ListEnrollments(ctx, filter)
		return err
	})
	return details, err
}

// ListRoster lists students actively enrolled in a course
func (s *Store) ListRoster(ctx context.Context, courseID int64) (roster []*models.RosterEntry, err error) {
	err = s.read("list roster", func(v *view) error {
		roster, err = v.ListRoster(ctx, courseID)
		return err
	})
	return roster, err
}

// CreateGrade appends a grade row and sets its ID
func (s *Store) CreateGrade(ctx context.Context, grade *models.Grade) error {
	return s.write(ctx, func(v *view) error { return v.CreateGrade(ctx, grade) })
}

// ListGrades retrieves grades matching filter, oldest first
func (s *Store) ListGrades(ctx context.Context, filter models.GradeFilter) (grades []*models.Grade, err error) {
	err = s.read("list grades", func(v *view) error {
		grades, err = v.ListGrades(ctx, filter)
		return err
	})
	return grades, err
}

// ListWeightedGrades retrieves (grade point, credits) pairs
func (s *Store) ListWeightedGrades(ctx context.Context, filter models.GradeFilter) (weighted []models.WeightedGrade, err error) {
	err = s.read("list weighted grades", func(v *view) error {
		weighted, err = v.ListWeightedGrades(ctx, filter)
		return err
	})
	return weighted, err
}

// ListTranscript retrieves a student's grades joined with their courses
func (s *Store) ListTranscript(ctx context.Context, studentID int64) (entries []*models.TranscriptEntry, err error) {
	err = s.read("list transcript", func(v *view) error {
		entries, err = v.ListTranscript(ctx, studentID)
		return err
	})
	return entries, err
}

// sortGrades orders grades by creation time, then id
func sortGrades(grades []models.Grade) {
	sort.SliceStable(grades, func(i, j int) bool {
		if !grades[i].CreatedAt.Equal(grades[j].CreatedAt) {
			return grades[i].CreatedAt.Before(grades[j].CreatedAt)
		}
		return grades[i].ID < grades[j].ID
	})
}
