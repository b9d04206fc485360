package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/unirecords/internal/app/models"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx, so every repository can
// run either standalone or inside a transaction
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Records is every read and write the engine performs against persisted state.
// Lookups by id return an apperrors.ErrNotFound error for missing rows.
type Records interface {
	CreateStudent(ctx context.Context, student *models.Student) error
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, student *models.Student) error
	DeleteStudent(ctx context.Context, id int64) error
	StudentHasDependents(ctx context.Context, id int64) (bool, error)

	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	// GetCourseForUpdate reads a course and holds it against concurrent
	// enrollment changes until the surrounding transaction ends
	GetCourseForUpdate(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, activeOnly bool) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	SetCourseActive(ctx context.Context, id int64, active bool) error
	DeleteCourse(ctx context.Context, id int64) error
	CourseHasDependents(ctx context.Context, id int64) (bool, error)

	GetEnrollment(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error)
	CountActiveEnrollments(ctx context.Context, courseID int64) (int, error)
	// SaveEnrollment inserts the pair or overwrites the existing row
	SaveEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	ListEnrollments(ctx context.Context, filter models.EnrollmentFilter) ([]*models.EnrollmentDetail, error)
	ListRoster(ctx context.Context, courseID int64) ([]*models.RosterEntry, error)

	CreateGrade(ctx context.Context, grade *models.Grade) error
	ListGrades(ctx context.Context, filter models.GradeFilter) ([]*models.Grade, error)
	ListWeightedGrades(ctx context.Context, filter models.GradeFilter) ([]models.WeightedGrade, error)
	ListTranscript(ctx context.Context, studentID int64) ([]*models.TranscriptEntry, error)
}

// TxFn is a unit of work run against a transactional view of the store
type TxFn func(ctx context.Context, tx Records) error

// Store is a shared handle to persisted records.
//
// WithTx runs fn atomically: either every write commits or none does.
// WithSnapshot runs fn against a read-only consistent view; snapshots do
// not block each other.
type Store interface {
	Records
	WithTx(ctx context.Context, fn TxFn) error
	WithSnapshot(ctx context.Context, fn TxFn) error
}
