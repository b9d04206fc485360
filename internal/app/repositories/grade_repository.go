package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/dberrors"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

// GradeRepository handles grade database operations
type GradeRepository struct {
	db Querier
}

// NewGradeRepository creates a new grade repository
func NewGradeRepository(db Querier) *GradeRepository {
	return &GradeRepository{db: db}
}

// gradeFilterWhere turns a GradeFilter into an equality predicate on the
// columns of the grades table aliased as prefix
func gradeFilterWhere(prefix string, filter models.GradeFilter) squirrel.Eq {
	where := squirrel.Eq{}
	if filter.StudentID != nil {
		where[prefix+"student_id"] = *filter.StudentID
	}
	if filter.CourseID != nil {
		where[prefix+"course_id"] = *filter.CourseID
	}
	if filter.Semester != nil {
		where[prefix+"semester"] = *filter.Semester
	}
	return where
}

// CreateGrade appends a grade row and sets its ID
func (r *GradeRepository) CreateGrade(ctx context.Context, grade *models.Grade) error {
	sql, args, err := psql.Insert("grades").
		Columns("student_id", "course_id", "semester", "grade_point", "created_at").
		Values(grade.StudentID, grade.CourseID, grade.Semester, grade.GradePoint, grade.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return storeError("build create grade query", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&grade.ID); err != nil {
		switch {
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.NewCustomError(apperrors.ErrNotFound, "student or course not found")
		case dberrors.IsCheckViolation(err):
			return apperrors.NewInvalidArgumentError("gradePoint", "must be between 0.0 and 4.0")
		}
		logger.Error().Err(err).Int64("studentId", grade.StudentID).Int64("courseId", grade.CourseID).Msg("Error executing create grade query")
		return storeError("create grade", err)
	}

	return nil
}

// listGradesQuery builds the grade listing ordered by recording time
func listGradesQuery(filter models.GradeFilter) squirrel.SelectBuilder {
	query := psql.Select("id", "student_id", "course_id", "semester", "grade_point", "created_at").
		From("grades").
		OrderBy("created_at", "id")
	if where := gradeFilterWhere("", filter); len(where) > 0 {
		query = query.Where(where)
	}
	return query
}

// ListGrades retrieves grades matching filter, oldest first
func (r *GradeRepository) ListGrades(ctx context.Context, filter models.GradeFilter) ([]*models.Grade, error) {
	sql, args, err := listGradesQuery(filter).ToSql()
	if err != nil {
		return nil, storeError("build list grades query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeError("list grades", err)
	}
	defer rows.Close()

	grades := make([]*models.Grade, 0)
	for rows.Next() {
		var g models.Grade
		if err := rows.Scan(&g.ID, &g.StudentID, &g.CourseID, &g.Semester, &g.GradePoint, &g.CreatedAt); err != nil {
			return nil, storeError("scan grade", err)
		}
		grades = append(grades, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list grades", err)
	}

	return grades, nil
}

// weightedGradesQuery joins grades to course credits in a single statement
func weightedGradesQuery(filter models.GradeFilter) squirrel.SelectBuilder {
	query := psql.Select("g.student_id", "g.grade_point", "c.credits").
		From("grades g").
		Join("courses c ON c.id = g.course_id").
		OrderBy("g.created_at", "g.id")
	if where := gradeFilterWhere("g.", filter); len(where) > 0 {
		query = query.Where(where)
	}
	return query
}

// ListWeightedGrades retrieves (grade point, credits) pairs for GPA math
func (r *GradeRepository) ListWeightedGrades(ctx context.Context, filter models.GradeFilter) ([]models.WeightedGrade, error) {
	sql, args, err := weightedGradesQuery(filter).ToSql()
	if err != nil {
		return nil, storeError("build weighted grades query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeError("list weighted grades", err)
	}
	defer rows.Close()

	weighted := make([]models.WeightedGrade, 0)
	for rows.Next() {
		var w models.WeightedGrade
		if err := rows.Scan(&w.StudentID, &w.GradePoint, &w.Credits); err != nil {
			return nil, storeError("scan weighted grade", err)
		}
		weighted = append(weighted, w)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list weighted grades", err)
	}

	return weighted, nil
}

// ListTranscript retrieves a student's grades joined with their courses
func (r *GradeRepository) ListTranscript(ctx context.Context, studentID int64) ([]*models.TranscriptEntry, error) {
	sql, args, err := psql.Select(
		"g.id", "g.semester", "g.grade_point", "g.created_at",
		"c.id", "c.course_code", "c.title", "c.description", "c.credits", "c.max_students", "c.is_active", "c.created_at",
	).
		From("grades g").
		Join("courses c ON c.id = g.course_id").
		Where(squirrel.Eq{"g.student_id": studentID}).
		OrderBy("g.created_at", "g.id").
		ToSql()
	if err != nil {
		return nil, storeError("build transcript query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeError("list transcript", err)
	}
	defer rows.Close()

	entries := make([]*models.TranscriptEntry, 0)
	for rows.Next() {
		var e models.TranscriptEntry
		c := &e.Course
		if err := rows.Scan(
			&e.GradeID, &e.Semester, &e.GradePoint, &e.RecordedAt,
			&c.ID, &c.Code, &c.Title, &c.Description, &c.Credits, &c.MaxStudents, &c.IsActive, &c.CreatedAt,
		); err != nil {
			return nil, storeError("scan transcript entry", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list transcript", err)
	}

	return entries, nil
}
