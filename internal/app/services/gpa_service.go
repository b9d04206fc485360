package services

import (
	"context"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
	"github.com/yigit/unirecords/internal/pkg/helpers"
)

// gpaPlaces is the number of decimals GPA values are rounded to
const gpaPlaces = 2

// GPAService defines the interface for GPA calculations
type GPAService interface {
	ComputeCGPA(ctx context.Context, studentID int64) (float64, error)
	ComputeSemesterGPA(ctx context.Context, studentID int64, semester string) (float64, error)
	ListStudentSummaries(ctx context.Context) ([]*models.StudentSummary, error)
}

// gpaServiceImpl implements the GPAService interface
type gpaServiceImpl struct {
	store repositories.Store
	opts  options
}

// NewGPAService creates a new GPA service instance
func NewGPAService(store repositories.Store, opts ...Option) GPAService {
	return &gpaServiceImpl{
		store: store,
		opts:  newOptions("gpa_service", opts),
	}
}

// WeightedAverage returns sum(gp*credits)/sum(credits) rounded half-to-even
// to two decimals, or 0 for no grades. Every row counts, retakes included.
func WeightedAverage(grades []models.WeightedGrade) float64 {
	var points float64
	var credits int
	for _, g := range grades {
		points += g.GradePoint * float64(g.Credits)
		credits += g.Credits
	}
	if credits == 0 {
		return 0
	}
	return helpers.RoundHalfEven(points/float64(credits), gpaPlaces)
}

func (s *gpaServiceImpl) compute(ctx context.Context, filter models.GradeFilter) (float64, error) {
	var gpa float64
	err := s.store.WithSnapshot(ctx, func(ctx context.Context, tx repositories.Records) error {
		if _, err := tx.GetStudentByID(ctx, *filter.StudentID); err != nil {
			return err
		}
		grades, err := tx.ListWeightedGrades(ctx, filter)
		if err != nil {
			return err
		}
		gpa = WeightedAverage(grades)
		return nil
	})
	return gpa, err
}

// ComputeCGPA computes the cumulative GPA over all of a student's grades
func (s *gpaServiceImpl) ComputeCGPA(ctx context.Context, studentID int64) (float64, error) {
	return s.compute(ctx, models.GradeFilter{StudentID: &studentID})
}

// ComputeSemesterGPA computes the GPA over grades whose semester equals
// semester exactly
func (s *gpaServiceImpl) ComputeSemesterGPA(ctx context.Context, studentID int64, semester string) (float64, error) {
	return s.compute(ctx, models.GradeFilter{StudentID: &studentID, Semester: &semester})
}

// ListStudentSummaries annotates every student with their CGPA, reading
// all grades once from a single snapshot
func (s *gpaServiceImpl) ListStudentSummaries(ctx context.Context) ([]*models.StudentSummary, error) {
	var summaries []*models.StudentSummary
	err := s.store.WithSnapshot(ctx, func(ctx context.Context, tx repositories.Records) error {
		students, err := tx.ListStudents(ctx)
		if err != nil {
			return err
		}
		grades, err := tx.ListWeightedGrades(ctx, models.GradeFilter{})
		if err != nil {
			return err
		}

		byStudent := make(map[int64][]models.WeightedGrade)
		for _, g := range grades {
			byStudent[g.StudentID] = append(byStudent[g.StudentID], g)
		}

		summaries = make([]*models.StudentSummary, 0, len(students))
		for _, st := range students {
			summaries = append(summaries, &models.StudentSummary{
				Student: *st,
				CGPA:    WeightedAverage(byStudent[st.ID]),
			})
		}
		return nil
	})
	return summaries, err
}
