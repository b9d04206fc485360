package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/unirecords/internal/db"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/dberrors"
)

// psql builds PostgreSQL statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances bound to one Querier
type Repositories struct {
	*StudentRepository
	*CourseRepository
	*EnrollmentRepository
	*GradeRepository
}

// NewRepositories initializes all repositories over db
func NewRepositories(db Querier) *Repositories {
	return &Repositories{
		StudentRepository:    NewStudentRepository(db),
		CourseRepository:     NewCourseRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		GradeRepository:      NewGradeRepository(db),
	}
}

// PostgresStore is the Store backed by a PostgreSQL pool
type PostgresStore struct {
	*Repositories
	database *db.PostgresDB
}

// NewPostgresStore creates a Store over the pool of database
func NewPostgresStore(database *db.PostgresDB) *PostgresStore {
	return &PostgresStore{
		Repositories: NewRepositories(database.Pool),
		database:     database,
	}
}

// WithTx runs fn in a read-write transaction
func (s *PostgresStore) WithTx(ctx context.Context, fn TxFn) error {
	err := s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewRepositories(tx))
	})
	return classifyTxError("transaction", err)
}

// WithSnapshot runs fn in a repeatable-read, read-only transaction
func (s *PostgresStore) WithSnapshot(ctx context.Context, fn TxFn) error {
	err := s.database.WithReadSnapshot(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewRepositories(tx))
	})
	return classifyTxError("snapshot", err)
}

// classifyTxError turns begin/commit failures into StoreUnavailable while
// leaving errors already classified by a repository untouched
func classifyTxError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		return err
	}
	return storeError(op, err)
}

// storeError wraps a driver error, classifying transient failures
func storeError(op string, err error) error {
	if dberrors.IsTransient(err) {
		return apperrors.NewStoreUnavailableError(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isNoRows reports whether err means the query matched nothing
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
