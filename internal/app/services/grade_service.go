package services

import (
	"context"
	"math"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/validation"
)

// RecordGradeInput holds one grade result. Semester is free text matched
// exactly by the GPA engine, so it is stored as given.
type RecordGradeInput struct {
	StudentID  int64   `json:"studentId"`
	CourseID   int64   `json:"courseId"`
	Semester   string  `json:"semester" validate:"notblank,max=20"`
	GradePoint float64 `json:"gradePoint" validate:"gte=0,lte=4"`
}

// GradeService defines the interface for grade operations
type GradeService interface {
	RecordGrade(ctx context.Context, in RecordGradeInput) (*models.Grade, error)
	ListGradesForStudent(ctx context.Context, studentID int64) ([]*models.Grade, error)
	ListGradesForCourse(ctx context.Context, courseID int64) ([]*models.Grade, error)
	ListAllGrades(ctx context.Context) ([]*models.Grade, error)
}

// gradeServiceImpl implements the GradeService interface
type gradeServiceImpl struct {
	store repositories.Store
	opts  options
}

// NewGradeService creates a new grade service instance
func NewGradeService(store repositories.Store, opts ...Option) GradeService {
	return &gradeServiceImpl{
		store: store,
		opts:  newOptions("grade_service", opts),
	}
}

func validateGradePoint(gp float64) error {
	if math.IsNaN(gp) || gp < models.MinGradePoint || gp > models.MaxGradePoint {
		return apperrors.NewInvalidArgumentError("gradePoint", "must be between 0.0 and 4.0")
	}
	return nil
}

// RecordGrade appends a grade. Earlier grades for the same course and
// semester are kept.
func (s *gradeServiceImpl) RecordGrade(ctx context.Context, in RecordGradeInput) (*models.Grade, error) {
	if err := validateGradePoint(in.GradePoint); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	grade := &models.Grade{
		StudentID:  in.StudentID,
		CourseID:   in.CourseID,
		Semester:   in.Semester,
		GradePoint: in.GradePoint,
		CreatedAt:  s.opts.timestamp(),
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Records) error {
		if _, err := tx.GetStudentByID(ctx, in.StudentID); err != nil {
			return err
		}
		if _, err := tx.GetCourseByID(ctx, in.CourseID); err != nil {
			return err
		}
		return tx.CreateGrade(ctx, grade)
	})
	if err != nil {
		return nil, err
	}

	s.opts.logger.Info().
		Int64("gradeId", grade.ID).
		Int64("studentId", grade.StudentID).
		Int64("courseId", grade.CourseID).
		Str("semester", grade.Semester).
		Msg("Grade recorded")
	return grade, nil
}

// ListGradesForStudent lists a student's grades, oldest first
func (s *gradeServiceImpl) ListGradesForStudent(ctx context.Context, studentID int64) ([]*models.Grade, error) {
	var grades []*models.Grade
	err := s.store.WithSnapshot(ctx, func(ctx context.Context, tx repositories.Records) error {
		if _, err := tx.GetStudentByID(ctx, studentID); err != nil {
			return err
		}
		var err error
		grades, err = tx.ListGrades(ctx, models.GradeFilter{StudentID: &studentID})
		return err
	})
	return grades, err
}

// ListGradesForCourse lists a course's grades, oldest first
func (s *gradeServiceImpl) ListGradesForCourse(ctx context.Context, courseID int64) ([]*models.Grade, error) {
	var grades []*models.Grade
	err := s.store.WithSnapshot(ctx, func(ctx context.Context, tx repositories.Records) error {
		if _, err := tx.GetCourseByID(ctx, courseID); err != nil {
			return err
		}
		var err error
		grades, err = tx.ListGrades(ctx, models.GradeFilter{CourseID: &courseID})
		return err
	})
	return grades, err
}

// ListAllGrades lists every grade, oldest first
func (s *gradeServiceImpl) ListAllGrades(ctx context.Context) ([]*models.Grade, error) {
	return s.store.ListGrades(ctx, models.GradeFilter{})
}
