package services

import (
	"context"
	"strings"
	"time"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/validation"
)

// CreateStudentInput holds the fields of a new student
type CreateStudentInput struct {
	StudentNumber string     `json:"studentNumber" validate:"required,max=10"`
	FirstName     string     `json:"firstName" validate:"required,max=50"`
	LastName      string     `json:"lastName" validate:"required,max=50"`
	Email         string     `json:"email" validate:"required,max=100,email"`
	DateOfBirth   *time.Time `json:"dateOfBirth"`
}

func (in *CreateStudentInput) normalize() {
	in.StudentNumber = strings.TrimSpace(in.StudentNumber)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.DateOfBirth = dateOnly(in.DateOfBirth)
}

// UpdateStudentInput holds the mutable fields of a student. The student
// number cannot be changed.
type UpdateStudentInput struct {
	FirstName   string     `json:"firstName" validate:"required,max=50"`
	LastName    string     `json:"lastName" validate:"required,max=50"`
	Email       string     `json:"email" validate:"required,max=100,email"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
}

func (in *UpdateStudentInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.DateOfBirth = dateOnly(in.DateOfBirth)
}

// dateOnly drops the time of day, matching the DATE column
func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &day
}

// StudentService defines the interface for student operations
type StudentService interface {
	CreateStudent(ctx context.Context, in CreateStudentInput) (*models.Student, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, in UpdateStudentInput) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	store repositories.Store
	opts  options
}

// NewStudentService creates a new student service instance
func NewStudentService(store repositories.Store, opts ...Option) StudentService {
	return &studentServiceImpl{
		store: store,
		opts:  newOptions("student_service", opts),
	}
}

// CreateStudent validates in and stores a new student
func (s *studentServiceImpl) CreateStudent(ctx context.Context, in CreateStudentInput) (*models.Student, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	student := &models.Student{
		StudentNumber: in.StudentNumber,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		DateOfBirth:   in.DateOfBirth,
		CreatedAt:     s.opts.timestamp(),
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Records) error {
		return tx.CreateStudent(ctx, student)
	})
	if err != nil {
		return nil, err
	}

	s.opts.logger.Info().Int64("studentId", student.ID).Str("studentNumber", student.StudentNumber).Msg("Student created")
	return student, nil
}

// GetStudent retrieves a student by ID
func (s *studentServiceImpl) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.store.GetStudentByID(ctx, id)
}

// ListStudents retrieves all students ordered by ID
func (s *studentServiceImpl) ListStudents(ctx context.Context) ([]*models.Student, error) {
	return s.store.ListStudents(ctx)
}

// UpdateStudent overwrites the names, email and date of birth of a student
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, in UpdateStudentInput) (*models.Student, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var updated *models.Student
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Records) error {
		student, err := tx.GetStudentByID(ctx, id)
		if err != nil {
			return err
		}
		student.FirstName = in.FirstName
		student.LastName = in.LastName
		student.Email = in.Email
		student.DateOfBirth = in.DateOfBirth
		if err := tx.UpdateStudent(ctx, student); err != nil {
			return err
		}
		updated = student
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.logger.Info().Int64("studentId", id).Msg("Student updated")
	return updated, nil
}

// DeleteStudent removes a student that no grade or enrollment references
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Records) error {
		if _, err := tx.GetStudentByID(ctx, id); err != nil {
			return err
		}
		has, err := tx.StudentHasDependents(ctx, id)
		if err != nil {
			return err
		}
		if has {
			return apperrors.NewHasDependentsError(models.EntityStudent, id)
		}
		return tx.DeleteStudent(ctx, id)
	})
	if err != nil {
		return err
	}

	s.opts.logger.Info().Int64("studentId", id).Msg("Student deleted")
	return nil
}
