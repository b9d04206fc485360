package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/dberrors"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

// Unique constraints on the students table
const (
	constraintStudentNumber = "students_student_number_key"
	constraintStudentEmail  = "students_email_key"
)

var studentColumns = []string{
	"id", "student_number", "first_name", "last_name", "email", "date_of_birth", "created_at",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db Querier
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db Querier) *StudentRepository {
	return &StudentRepository{db: db}
}

func scanStudent(row pgx.Row, student *models.Student) error {
	return row.Scan(
		&student.ID,
		&student.StudentNumber,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.DateOfBirth,
		&student.CreatedAt,
	)
}

// studentUniqueError maps a unique violation on students to DuplicateKey
func studentUniqueError(err error, student *models.Student) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, constraintStudentNumber):
		logger.Warn().Str("studentNumber", student.StudentNumber).Msg("Attempted to store student with duplicate student number")
		return apperrors.NewDuplicateKeyError(models.EntityStudent, "student_number", student.StudentNumber)
	case dberrors.IsDuplicateConstraintError(err, constraintStudentEmail):
		logger.Warn().Str("email", student.Email).Msg("Attempted to store student with duplicate email")
		return apperrors.NewDuplicateKeyError(models.EntityStudent, "email", student.Email)
	}
	return nil
}

// CreateStudent inserts a student and sets its ID
func (r *StudentRepository) CreateStudent(ctx context.Context, student *models.Student) error {
	sql, args, err := psql.Insert("students").
		Columns("student_number", "first_name", "last_name", "email", "date_of_birth", "created_at").
		Values(student.StudentNumber, student.FirstName, student.LastName, student.Email, student.DateOfBirth, student.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return storeError("build create student query", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID); err != nil {
		if dupErr := studentUniqueError(err, student); dupErr != nil {
			return dupErr
		}
		logger.Error().Err(err).Str("studentNumber", student.StudentNumber).Msg("Error executing create student query")
		return storeError("create student", err)
	}

	return nil
}

// GetStudentByID retrieves a student by ID
func (r *StudentRepository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := psql.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, storeError("build get student query", err)
	}

	var student models.Student
	if err := scanStudent(r.db.QueryRow(ctx, sql, args...), &student); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewNotFoundError(models.EntityStudent, id)
		}
		return nil, storeError("get student", err)
	}

	return &student, nil
}

// ListStudents retrieves all students ordered by ID
func (r *StudentRepository) ListStudents(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := psql.Select(studentColumns...).
		From("students").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, storeError("build list students query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeError("list students", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		var student models.Student
		if err := scanStudent(rows, &student); err != nil {
			return nil, storeError("scan student", err)
		}
		students = append(students, &student)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list students", err)
	}

	return students, nil
}

// UpdateStudent overwrites the mutable fields of a student
func (r *StudentRepository) UpdateStudent(ctx context.Context, student *models.Student) error {
	sql, args, err := psql.Update("students").
		Set("first_name", student.FirstName).
		Set("last_name", student.LastName).
		Set("email", student.Email).
		Set("date_of_birth", student.DateOfBirth).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return storeError("build update student query", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dupErr := studentUniqueError(err, student); dupErr != nil {
			return dupErr
		}
		return storeError("update student", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(models.EntityStudent, student.ID)
	}

	return nil
}

// DeleteStudent deletes a student; referenced students are kept
func (r *StudentRepository) DeleteStudent(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("students").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return storeError("build delete student query", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewHasDependentsError(models.EntityStudent, id)
		}
		return storeError("delete student", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(models.EntityStudent, id)
	}

	return nil
}

// StudentHasDependents checks for grades or enrollment rows of a student
func (r *StudentRepository) StudentHasDependents(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM grades WHERE student_id = $1)
			OR EXISTS(SELECT 1 FROM enrollment WHERE student_id = $1)`,
		id).Scan(&exists)
	if err != nil {
		return false, storeError("check student dependents", err)
	}

	return exists, nil
}
