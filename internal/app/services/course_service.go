package services

import (
	"context"
	"strings"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/validation"
)

// CreateCourseInput holds the fields of a new course. A nil MaxStudents
// means unlimited capacity.
type CreateCourseInput struct {
	Code        string  `json:"code" validate:"required,max=10"`
	Title       string  `json:"title" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Credits     int     `json:"credits" validate:"gt=0"`
	MaxStudents *int    `json:"maxStudents" validate:"omitempty,gt=0"`
}

func (in *CreateCourseInput) normalize() {
	in.Code = strings.TrimSpace(in.Code)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = optionalString(in.Description)
}

// UpdateCourseInput holds the mutable fields of a course. The course code
// cannot be changed.
type UpdateCourseInput struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Credits     int     `json:"credits" validate:"gt=0"`
	MaxStudents *int    `json:"maxStudents" validate:"omitempty,gt=0"`
}

func (in *UpdateCourseInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = optionalString(in.Description)
}

// CourseService defines the interface for course operations
type CourseService interface {
	CreateCourse(ctx context.Context, in CreateCourseInput) (*models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
	ListActiveCourses(ctx context.Context) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, in UpdateCourseInput) (*models.Course, error)
	SetCourseActive(ctx context.Context, id int64, active bool) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	store repositories.Store
	opts  options
}

// NewCourseService creates a new course service instance
func NewCourseService(store repositories.Store, opts ...Option) CourseService {
	return &courseServiceImpl{
		store: store,
		opts:  newOptions("course_service", opts),
	}
}

// CreateCourse validates in and stores a new active course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, in CreateCourseInput) (*models.Course, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	course := &models.Course{
		Code:        in.Code,
		Title:       in.Title,
		Description: in.Description,
		Credits:     in.Credits,
		MaxStudents: in.MaxStudents,
		IsActive:    true,
		CreatedAt:   s.opts.timestamp(),
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Records) error {
		return tx.CreateCourse(ctx, course)
	})
	if err != nil {
		return nil, err
	}

	s.opts.logger.Info().Int64("courseId", course.ID).Str("courseCode", course.Code).Msg("Course created")
	return course, nil
}

// GetCourse retrieves a course by ID
func (s *courseServiceImpl) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	return s.store.GetCourseByID(ctx, id)
}

// ListCourses retrieves every course, active or not, ordered by code
func (s *courseServiceImpl) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.store.ListCourses(ctx, false)
}

// ListActiveCourses retrieves courses accepting enrollments, ordered by code
func (s *courseServiceImpl) ListActiveCourses(ctx context.Context) ([]*models.Course, error) {
	return s.store.ListCourses(ctx, true)
}

// UpdateCourse overwrites title, description, credits and capacity. A
// capacity below the current active count only blocks new enrollments.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, in UpdateCourseInput) (*models.Course, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var updated *models.Course
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Records) error {
		course, err := tx.GetCourseForUpdate(ctx, id)
		if err != nil {
			return err
		}
		course.Title = in.Title
		course.Description = in.Description
		course.Credits = in.Credits
		course.MaxStudents = in.MaxStudents
		if err := tx.UpdateCourse(ctx, course); err != nil {
			return err
		}
		updated = course
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.logger.Info().Int64("courseId", id).Msg("Course updated")
	return updated, nil
}

// SetCourseActive opens or closes a course for new enrollments. Existing
// enrollments and grades are kept either way.
func (s *courseServiceImpl) SetCourseActive(ctx context.Context, id int64, active bool) (*models.Course, error) {
	var updated *models.Course
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Records) error {
		course, err := tx.GetCourseForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.SetCourseActive(ctx, id, active); err != nil {
			return err
		}
		course.IsActive = active
		updated = course
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.logger.Info().Int64("courseId", id).Bool("active", active).Msg("Course status changed")
	return updated, nil
}

// DeleteCourse removes a course that no grade or enrollment references
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Records) error {
		if _, err := tx.GetCourseForUpdate(ctx, id); err != nil {
			return err
		}
		has, err := tx.CourseHasDependents(ctx, id)
		if err != nil {
			return err
		}
		if has {
			return apperrors.NewHasDependentsError(models.EntityCourse, id)
		}
		return tx.DeleteCourse(ctx, id)
	})
	if err != nil {
		return err
	}

	s.opts.logger.Info().Int64("courseId", id).Msg("Course deleted")
	return nil
}
