package services

import (
	"context"
	"errors"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

// EnrollmentService defines the interface for the enrollment lifecycle
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error)
	Withdraw(ctx context.Context, studentID, courseID int64) error
	IsEnrolled(ctx context.Context, studentID, courseID int64) (bool, error)
	ActiveEnrollmentCount(ctx context.Context, courseID int64) (int, error)
	ListEnrollments(ctx context.Context, filter models.EnrollmentFilter) ([]*models.EnrollmentDetail, error)
}

// enrollmentServiceImpl implements the EnrollmentService interface
type enrollmentServiceImpl struct {
	store repositories.Store
	opts  options
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(store repositories.Store, opts ...Option) EnrollmentService {
	return &enrollmentServiceImpl{
		store: store,
		opts:  newOptions("enrollment_service", opts),
	}
}

// Enroll activates the (student, course) pair. The course row stays locked
// from the capacity check until the write commits, so concurrent calls
// cannot overfill a course or both enroll the same pair.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	var enrollment *models.Enrollment
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Records) error {
		if _, err := tx.GetStudentByID(ctx, studentID); err != nil {
			return err
		}
		course, err := tx.GetCourseForUpdate(ctx, courseID)
		if err != nil {
			return err
		}
		if !course.IsActive {
			return apperrors.NewCustomError(apperrors.ErrCourseInactive, "course "+course.Code+" is not accepting enrollments").
				WithDetails(map[string]interface{}{"courseId": courseID})
		}

		existing, err := tx.GetEnrollment(ctx, studentID, courseID)
		switch {
		case err == nil && existing.IsActive:
			return apperrors.NewCustomError(apperrors.ErrAlreadyEnrolled, "student is already enrolled in "+course.Code).
				WithDetails(map[string]interface{}{"studentId": studentID, "courseId": courseID})
		case err != nil && !errors.Is(err, apperrors.ErrNotFound):
			return err
		}

		count, err := tx.CountActiveEnrollments(ctx, courseID)
		if err != nil {
			return err
		}
		if !course.HasCapacityFor(count) {
			return apperrors.NewCustomError(apperrors.ErrCourseFull, "course "+course.Code+" is full").
				WithDetails(map[string]interface{}{"courseId": courseID, "maxStudents": *course.MaxStudents})
		}

		// a withdrawn row is reactivated in place
		enrollment = &models.Enrollment{
			StudentID:      studentID,
			CourseID:       courseID,
			EnrollmentDate: s.opts.timestamp(),
			IsActive:       true,
		}
		return tx.SaveEnrollment(ctx, enrollment)
	})
	if err != nil {
		return nil, err
	}

	s.opts.logger.Info().Int64("studentId", studentID).Int64("courseId", courseID).Msg("Student enrolled")
	return enrollment, nil
}

// Withdraw deactivates an active enrollment, freeing its seat
func (s *enrollmentServiceImpl) Withdraw(ctx context.Context, studentID, courseID int64) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Records) error {
		if _, err := tx.GetCourseForUpdate(ctx, courseID); err != nil {
			return err
		}
		existing, err := tx.GetEnrollment(ctx, studentID, courseID)
		if err != nil {
			return err
		}
		if !existing.IsActive {
			return apperrors.NewCustomError(apperrors.ErrNotFound, "no active enrollment").
				WithDetails(map[string]interface{}{"studentId": studentID, "courseId": courseID})
		}
		existing.IsActive = false
		return tx.SaveEnrollment(ctx, existing)
	})
	if err != nil {
		return err
	}

	s.opts.logger.Info().Int64("studentId", studentID).Int64("courseId", courseID).Msg("Student withdrawn")
	return nil
}

// IsEnrolled reports whether the pair has an active enrollment
func (s *enrollmentServiceImpl) IsEnrolled(ctx context.Context, studentID, courseID int64) (bool, error) {
	existing, err := s.store.GetEnrollment(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return existing.IsActive, nil
}

// ActiveEnrollmentCount counts the occupied seats of a course
func (s *enrollmentServiceImpl) ActiveEnrollmentCount(ctx context.Context, courseID int64) (int, error) {
	var count int
	err := s.store.WithSnapshot(ctx, func(ctx context.Context, tx repositories.Records) error {
		if _, err := tx.GetCourseByID(ctx, courseID); err != nil {
			return err
		}
		var err error
		count, err = tx.CountActiveEnrollments(ctx, courseID)
		return err
	})
	return count, err
}

// ListEnrollments lists enrollment rows matching filter
func (s *enrollmentServiceImpl) ListEnrollments(ctx context.Context, filter models.EnrollmentFilter) ([]*models.EnrollmentDetail, error) {
	return s.store.ListEnrollments(ctx, filter)
}
