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

const constraintCourseCode = "courses_course_code_key"

var courseColumns = []string{
	"id", "course_code", "title", "description", "credits", "max_students", "is_active", "created_at",
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db Querier
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db Querier) *CourseRepository {
	return &CourseRepository{db: db}
}

func scanCourse(row pgx.Row, course *models.Course) error {
	return row.Scan(
		&course.ID,
		&course.Code,
		&course.Title,
		&course.Description,
		&course.Credits,
		&course.MaxStudents,
		&course.IsActive,
		&course.CreatedAt,
	)
}

// CreateCourse inserts a course and sets its ID
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	sql, args, err := psql.Insert("courses").
		Columns("course_code", "title", "description", "credits", "max_students", "is_active", "created_at").
		Values(course.Code, course.Title, course.Description, course.Credits, course.MaxStudents, course.IsActive, course.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return storeError("build create course query", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, constraintCourseCode):
			logger.Warn().Str("courseCode", course.Code).Msg("Attempted to create course with duplicate code")
			return apperrors.NewDuplicateKeyError(models.EntityCourse, "course_code", course.Code)
		case dberrors.IsCheckViolation(err):
			return apperrors.NewInvalidArgumentError("course", "credits and capacity must be positive")
		}
		logger.Error().Err(err).Str("courseCode", course.Code).Msg("Error executing create course query")
		return storeError("create course", err)
	}

	return nil
}

func (r *CourseRepository) getCourse(ctx context.Context, id int64, forUpdate bool) (*models.Course, error) {
	query := psql.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id})
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, storeError("build get course query", err)
	}

	var course models.Course
	if err := scanCourse(r.db.QueryRow(ctx, sql, args...), &course); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewNotFoundError(models.EntityCourse, id)
		}
		return nil, storeError("get course", err)
	}

	return &course, nil
}

// GetCourseByID retrieves a course by ID
func (r *CourseRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	return r.getCourse(ctx, id, false)
}

// GetCourseForUpdate retrieves a course and row-locks it until the
// transaction ends. Outside a transaction the lock is released immediately.
func (r *CourseRepository) GetCourseForUpdate(ctx context.Context, id int64) (*models.Course, error) {
	return r.getCourse(ctx, id, true)
}

// ListCourses retrieves courses ordered by code, optionally only active ones
func (r *CourseRepository) ListCourses(ctx context.Context, activeOnly bool) ([]*models.Course, error) {
	query := psql.Select(courseColumns...).From("courses").OrderBy("course_code")
	if activeOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, storeError("build list courses query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeError("list courses", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		var course models.Course
		if err := scanCourse(rows, &course); err != nil {
			return nil, storeError("scan course", err)
		}
		courses = append(courses, &course)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list courses", err)
	}

	return courses, nil
}

// UpdateCourse overwrites title, description, credits and capacity
func (r *CourseRepository) UpdateCourse(ctx context.Context, course *models.Course) error {
	sql, args, err := psql.Update("courses").
		Set("title", course.Title).
		Set("description", course.Description).
		Set("credits", course.Credits).
		Set("max_students", course.MaxStudents).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return storeError("build update course query", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.NewInvalidArgumentError("course", "credits and capacity must be positive")
		}
		return storeError("update course", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(models.EntityCourse, course.ID)
	}

	return nil
}

// SetCourseActive toggles whether a course accepts new enrollments
func (r *CourseRepository) SetCourseActive(ctx context.Context, id int64, active bool) error {
	sql, args, err := psql.Update("courses").
		Set("is_active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return storeError("build set course active query", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return storeError("set course active", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(models.EntityCourse, id)
	}

	return nil
}

// DeleteCourse deletes a course; referenced courses are kept
func (r *CourseRepository) DeleteCourse(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return storeError("build delete course query", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewHasDependentsError(models.EntityCourse, id)
		}
		return storeError("delete course", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(models.EntityCourse, id)
	}

	return nil
}

// CourseHasDependents checks for grades or enrollment rows of a course
func (r *CourseRepository) CourseHasDependents(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM grades WHERE course_id = $1)
			OR EXISTS(SELECT 1 FROM enrollment WHERE course_id = $1)`,
		id).Scan(&exists)
	if err != nil {
		return false, storeError("check course dependents", err)
	}

	return exists, nil
}
