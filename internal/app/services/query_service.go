package services

import (
	"context"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/repositories"
)

// QueryService composes read-only views over the records
type QueryService interface {
	Transcript(ctx context.Context, studentID int64) ([]*models.TranscriptEntry, error)
	Roster(ctx context.Context, courseID int64) ([]*models.RosterEntry, error)
	ActiveCourses(ctx context.Context) ([]*models.Course, error)
}

// queryServiceImpl implements the QueryService interface
type queryServiceImpl struct {
	store repositories.Store
	opts  options
}

// NewQueryService creates a new query service instance
func NewQueryService(store repositories.Store, opts ...Option) QueryService {
	return &queryServiceImpl{
		store: store,
		opts:  newOptions("query_service", opts),
	}
}

// Transcript lists a student's grades with their courses in recording order
func (s *queryServiceImpl) Transcript(ctx context.Context, studentID int64) ([]*models.TranscriptEntry, error) {
	var entries []*models.TranscriptEntry
	err := s.store.WithSnapshot(ctx, func(ctx context.Context, tx repositories.Records) error {
		if _, err := tx.GetStudentByID(ctx, studentID); err != nil {
			return err
		}
		var err error
		entries, err = tx.ListTranscript(ctx, studentID)
		return err
	})
	return entries, err
}

// Roster lists the students actively enrolled in a course
func (s *queryServiceImpl) Roster(ctx context.Context, courseID int64) ([]*models.RosterEntry, error) {
	var roster []*models.RosterEntry
	err := s.store.WithSnapshot(ctx, func(ctx context.Context, tx repositories.Records) error {
		if _, err := tx.GetCourseByID(ctx, courseID); err != nil {
			return err
		}
		var err error
		roster, err = tx.ListRoster(ctx, courseID)
		return err
	})
	return roster, err
}

// ActiveCourses lists the courses accepting enrollments
func (s *queryServiceImpl) ActiveCourses(ctx context.Context) ([]*models.Course, error) {
	return s.store.ListCourses(ctx, true)
}
