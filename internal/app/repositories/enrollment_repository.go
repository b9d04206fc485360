package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/dberrors"
)

// EnrollmentRepository handles the enrollment relation
type EnrollmentRepository struct {
	db Querier
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db Querier) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// GetEnrollment retrieves the enrollment row of a pair, active or not
func (r *EnrollmentRepository) GetEnrollment(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	sql, args, err := psql.Select("student_id", "course_id", "enrollment_date", "is_active").
		From("enrollment").
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		ToSql()
	if err != nil {
		return nil, storeError("build get enrollment query", err)
	}

	var e models.Enrollment
	err = r.db.QueryRow(ctx, sql, args...).Scan(&e.StudentID, &e.CourseID, &e.EnrollmentDate, &e.IsActive)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NewCustomError(apperrors.ErrNotFound, "enrollment not found").
				WithDetails(map[string]interface{}{"studentId": studentID, "courseId": courseID})
		}
		return nil, storeError("get enrollment", err)
	}

	return &e, nil
}

// CountActiveEnrollments counts active enrollment rows of a course
func (r *EnrollmentRepository) CountActiveEnrollments(ctx context.Context, courseID int64) (int, error) {
	sql, args, err := psql.Select("COUNT(*)").
		From("enrollment").
		Where(squirrel.Eq{"course_id": courseID, "is_active": true}).
		ToSql()
	if err != nil {
		return 0, storeError("build count enrollments query", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, storeError("count active enrollments", err)
	}

	return count, nil
}

// SaveEnrollment inserts the pair or, if a row exists, overwrites its date
// and active flag. The primary key guarantees one row per pair.
func (r *EnrollmentRepository) SaveEnrollment(ctx context.Context, e *models.Enrollment) error {
	sql, args, err := psql.Insert("enrollment").
		Columns("student_id", "course_id", "enrollment_date", "is_active").
		Values(e.StudentID, e.CourseID, e.EnrollmentDate, e.IsActive).
		Suffix("ON CONFLICT (student_id, course_id) DO UPDATE SET enrollment_date = EXCLUDED.enrollment_date, is_active = EXCLUDED.is_active").
		ToSql()
	if err != nil {
		return storeError("build save enrollment query", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewCustomError(apperrors.ErrNotFound, "student or course not found")
		}
		return storeError("save enrollment", err)
	}

	return nil
}

// enrollmentListQuery builds the joined enrollment listing
func enrollmentListQuery(filter models.EnrollmentFilter) squirrel.SelectBuilder {
	query := psql.Select(
		"e.student_id", "e.course_id", "e.enrollment_date", "e.is_active",
		"s.student_number", "s.first_name || ' ' || s.last_name", "c.course_code", "c.title",
	).
		From("enrollment e").
		Join("students s ON s.id = e.student_id").
		Join("courses c ON c.id = e.course_id").
		OrderBy("e.enrollment_date", "e.student_id", "e.course_id")

	if filter.StudentID != nil {
		query = query.Where(squirrel.Eq{"e.student_id": *filter.StudentID})
	}
	if filter.CourseID != nil {
		query = query.Where(squirrel.Eq{"e.course_id": *filter.CourseID})
	}
	if filter.IsActive != nil {
		query = query.Where(squirrel.Eq{"e.is_active": *filter.IsActive})
	}
	return query
}

// ListEnrollments lists enrollment rows joined with student and course
func (r *EnrollmentRepository) ListEnrollments(ctx context.Context, filter models.EnrollmentFilter) ([]*models.EnrollmentDetail, error) {
	sql, args, err := enrollmentListQuery(filter).ToSql()
	if err != nil {
		return nil, storeError("build list enrollments query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeError("list enrollments", err)
	}
	defer rows.Close()

	details := make([]*models.EnrollmentDetail, 0)
	for rows.Next() {
		var d models.EnrollmentDetail
		if err := rows.Scan(
			&d.StudentID, &d.CourseID, &d.EnrollmentDate, &d.IsActive,
			&d.StudentNumber, &d.StudentName, &d.CourseCode, &d.CourseTitle,
		); err != nil {
			return nil, storeError("scan enrollment", err)
		}
		details = append(details, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list enrollments", err)
	}

	return details, nil
}

// ListRoster lists students actively enrolled in a course
func (r *EnrollmentRepository) ListRoster(ctx context.Context, courseID int64) ([]*models.RosterEntry, error) {
	columns := make([]string, 0, len(studentColumns)+1)
	for _, c := range studentColumns {
		columns = append(columns, "s."+c)
	}
	columns = append(columns, "e.enrollment_date")

	sql, args, err := psql.Select(columns...).
		From("enrollment e").
		Join("students s ON s.id = e.student_id").
		Where(squirrel.Eq{"e.course_id": courseID, "e.is_active": true}).
		OrderBy("e.enrollment_date", "s.id").
		ToSql()
	if err != nil {
		return nil, storeError("build roster query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeError("list roster", err)
	}
	defer rows.Close()

	roster := make([]*models.RosterEntry, 0)
	for rows.Next() {
		var entry models.RosterEntry
		s := &entry.Student
		if err := rows.Scan(
			&s.ID, &s.StudentNumber, &s.FirstName, &s.LastName, &s.Email, &s.DateOfBirth, &s.CreatedAt,
			&entry.EnrollmentDate,
		); err != nil {
			return nil, storeError("scan roster entry", err)
		}
		roster = append(roster, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list roster", err)
	}

	return roster, nil
}
