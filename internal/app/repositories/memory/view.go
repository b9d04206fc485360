package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

var errReadOnly = errors.New("write attempted in read-only snapshot")

// view implements repositories.Records over one state. The owner holds
// the lock matching readOnly for the lifetime of the view.
type view struct {
	st       *state
	readOnly bool
}

func (v *view) writable() error {
	if v.readOnly {
		return errReadOnly
	}
	return nil
}

func (v *view) studentUnique(student *models.Student) error {
	for _, existing := range v.st.students {
		if existing.ID == student.ID {
			continue
		}
		if existing.StudentNumber == student.StudentNumber {
			return apperrors.NewDuplicateKeyError(models.EntityStudent, "student_number", student.StudentNumber)
		}
		if existing.Email == student.Email {
			return apperrors.NewDuplicateKeyError(models.EntityStudent, "email", student.Email)
		}
	}
	return nil
}

func (v *view) CreateStudent(_ context.Context, student *models.Student) error {
	if err := v.writable(); err != nil {
		return err
	}
	student.ID = 0
	if err := v.studentUnique(student); err != nil {
		return err
	}
	student.ID = v.st.nextStudentID
	v.st.nextStudentID++
	v.st.students[student.ID] = copyStudent(*student)
	return nil
}

func (v *view) GetStudentByID(_ context.Context, id int64) (*models.Student, error) {
	student, ok := v.st.students[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(models.EntityStudent, id)
	}
	student = copyStudent(student)
	return &student, nil
}

func (v *view) ListStudents(_ context.Context) ([]*models.Student, error) {
	students := make([]*models.Student, 0, len(v.st.students))
	for _, s := range v.st.students {
		s := copyStudent(s)
		students = append(students, &s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (v *view) UpdateStudent(_ context.Context, student *models.Student) error {
	if err := v.writable(); err != nil {
		return err
	}
	existing, ok := v.st.students[student.ID]
	if !ok {
		return apperrors.NewNotFoundError(models.EntityStudent, student.ID)
	}
	candidate := *student
	candidate.StudentNumber = existing.StudentNumber
	if err := v.studentUnique(&candidate); err != nil {
		return err
	}
	existing.FirstName = student.FirstName
	existing.LastName = student.LastName
	existing.Email = student.Email
	existing.DateOfBirth = student.DateOfBirth
	v.st.students[student.ID] = copyStudent(existing)
	return nil
}

func (v *view) DeleteStudent(ctx context.Context, id int64) error {
	if err := v.writable(); err != nil {
		return err
	}
	if _, ok := v.st.students[id]; !ok {
		return apperrors.NewNotFoundError(models.EntityStudent, id)
	}
	has, err := v.StudentHasDependents(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return apperrors.NewHasDependentsError(models.EntityStudent, id)
	}
	delete(v.st.students, id)
	return nil
}

func (v *view) StudentHasDependents(_ context.Context, id int64) (bool, error) {
	for _, g := range v.st.grades {
		if g.StudentID == id {
			return true, nil
		}
	}
	for k := range v.st.enrollments {
		if k.studentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (v *view) CreateCourse(_ context.Context, course *models.Course) error {
	if err := v.writable(); err != nil {
		return err
	}
	for _, existing := range v.st.courses {
		if existing.Code == course.Code {
			return apperrors.NewDuplicateKeyError(models.EntityCourse, "course_code", course.Code)
		}
	}
	if err := checkCourse(course); err != nil {
		return err
	}
	course.ID = v.st.nextCourseID
	v.st.nextCourseID++
	v.st.courses[course.ID] = copyCourse(*course)
	return nil
}

// checkCourse mirrors the CHECK constraints of the courses table
func checkCourse(course *models.Course) error {
	if course.Credits <= 0 || (course.MaxStudents != nil && *course.MaxStudents <= 0) {
		return apperrors.NewInvalidArgumentError("course", "credits and capacity must be positive")
	}
	return nil
}

func (v *view) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	course, ok := v.st.courses[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(models.EntityCourse, id)
	}
	course = copyCourse(course)
	return &course, nil
}

func (v *view) GetCourseForUpdate(ctx context.Context, id int64) (*models.Course, error) {
	return v.GetCourseByID(ctx, id)
}

func (v *view) ListCourses(_ context.Context, activeOnly bool) ([]*models.Course, error) {
	courses := make([]*models.Course, 0, len(v.st.courses))
	for _, c := range v.st.courses {
		if activeOnly && !c.IsActive {
			continue
		}
		c := copyCourse(c)
		courses = append(courses, &c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Code < courses[j].Code })
	return courses, nil
}

func (v *view) UpdateCourse(_ context.Context, course *models.Course) error {
	if err := v.writable(); err != nil {
		return err
	}
	existing, ok := v.st.courses[course.ID]
	if !ok {
		return apperrors.NewNotFoundError(models.EntityCourse, course.ID)
	}
	if err := checkCourse(course); err != nil {
		return err
	}
	existing.Title = course.Title
	existing.Description = course.Description
	existing.Credits = course.Credits
	existing.MaxStudents = course.MaxStudents
	v.st.courses[course.ID] = copyCourse(existing)
	return nil
}

func (v *view) SetCourseActive(_ context.Context, id int64, active bool) error {
	if err := v.writable(); err != nil {
		return err
	}
	existing, ok := v.st.courses[id]
	if !ok {
		return apperrors.NewNotFoundError(models.EntityCourse, id)
	}
	existing.IsActive = active
	v.st.courses[id] = existing
	return nil
}

func (v *view) DeleteCourse(ctx context.Context, id int64) error {
	if err := v.writable(); err != nil {
		return err
	}
	if _, ok := v.st.courses[id]; !ok {
		return apperrors.NewNotFoundError(models.EntityCourse, id)
	}
	has, err := v.CourseHasDependents(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return apperrors.NewHasDependentsError(models.EntityCourse, id)
	}
	delete(v.st.courses, id)
	return nil
}

func (v *view) CourseHasDependents(_ context.Context, id int64) (bool, error) {
	for _, g := range v.st.grades {
		if g.CourseID == id {
			return true, nil
		}
	}
	for k := range v.st.enrollments {
		if k.courseID == id {
			return true, nil
		}
	}
	return false, nil
}

func (v *view) GetEnrollment(_ context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	e, ok := v.st.enrollments[pairKey{studentID, courseID}]
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrNotFound, "enrollment not found").
			WithDetails(map[string]interface{}{"studentId": studentID, "courseId": courseID})
	}
	return &e, nil
}

func (v *view) CountActiveEnrollments(_ context.Context, courseID int64) (int, error) {
	count := 0
	for k, e := range v.st.enrollments {
		if k.courseID == courseID && e.IsActive {
			count++
		}
	}
	return count, nil
}

func (v *view) SaveEnrollment(_ context.Context, e *models.Enrollment) error {
	if err := v.writable(); err != nil {
		return err
	}
	_, studentOK := v.st.students[e.StudentID]
	_, courseOK := v.st.courses[e.CourseID]
	if !studentOK || !courseOK {
		return apperrors.NewCustomError(apperrors.ErrNotFound, "student or course not found")
	}
	v.st.enrollments[pairKey{e.StudentID, e.CourseID}] = *e
	return nil
}

func (v *view) ListEnrollments(_ context.Context, filter models.EnrollmentFilter) ([]*models.EnrollmentDetail, error) {
	details := make([]*models.EnrollmentDetail, 0)
	for _, e := range v.st.enrollments {
		if filter.StudentID != nil && e.StudentID != *filter.StudentID {
			continue
		}
		if filter.CourseID != nil && e.CourseID != *filter.CourseID {
			continue
		}
		if filter.IsActive != nil && e.IsActive != *filter.IsActive {
			continue
		}
		student := v.st.students[e.StudentID]
		course := v.st.courses[e.CourseID]
		details = append(details, &models.EnrollmentDetail{
			Enrollment:    e,
			StudentNumber: student.StudentNumber,
			StudentName:   student.FullName(),
			CourseCode:    course.Code,
			CourseTitle:   course.Title,
		})
	}
	sort.Slice(details, func(i, j int) bool {
		a, b := details[i], details[j]
		if !a.EnrollmentDate.Equal(b.EnrollmentDate) {
			return a.EnrollmentDate.Before(b.EnrollmentDate)
		}
		if a.StudentID != b.StudentID {
			return a.StudentID < b.StudentID
		}
		return a.CourseID < b.CourseID
	})
	return details, nil
}

func (v *view) ListRoster(_ context.Context, courseID int64) ([]*models.RosterEntry, error) {
	roster := make([]*models.RosterEntry, 0)
	for k, e := range v.st.enrollments {
		if k.courseID != courseID || !e.IsActive {
			continue
		}
		roster = append(roster, &models.RosterEntry{
			Student:        copyStudent(v.st.students[k.studentID]),
			EnrollmentDate: e.EnrollmentDate,
		})
	}
	sort.Slice(roster, func(i, j int) bool {
		a, b := roster[i], roster[j]
		if !a.EnrollmentDate.Equal(b.EnrollmentDate) {
			return a.EnrollmentDate.Before(b.EnrollmentDate)
		}
		return a.Student.ID < b.Student.ID
	})
	return roster, nil
}

func (v *view) CreateGrade(_ context.Context, grade *models.Grade) error {
	if err := v.writable(); err != nil {
		return err
	}
	_, studentOK := v.st.students[grade.StudentID]
	_, courseOK := v.st.courses[grade.CourseID]
	if !studentOK || !courseOK {
		return apperrors.NewCustomError(apperrors.ErrNotFound, "student or course not found")
	}
	if !(grade.GradePoint >= models.MinGradePoint && grade.GradePoint <= models.MaxGradePoint) {
		return apperrors.NewInvalidArgumentError("gradePoint", "must be between 0.0 and 4.0")
	}
	grade.ID = v.st.nextGradeID
	v.st.nextGradeID++
	v.st.grades = append(v.st.grades, *grade)
	return nil
}

func (v *view) matchingGrades(filter models.GradeFilter) []models.Grade {
	matched := make([]models.Grade, 0)
	for _, g := range v.st.grades {
		if filter.StudentID != nil && g.StudentID != *filter.StudentID {
			continue
		}
		if filter.CourseID != nil && g.CourseID != *filter.CourseID {
			continue
		}
		if filter.Semester != nil && g.Semester != *filter.Semester {
			continue
		}
		matched = append(matched, g)
	}
	sortGrades(matched)
	return matched
}

func (v *view) ListGrades(_ context.Context, filter models.GradeFilter) ([]*models.Grade, error) {
	matched := v.matchingGrades(filter)
	grades := make([]*models.Grade, len(matched))
	for i := range matched {
		grades[i] = &matched[i]
	}
	return grades, nil
}

func (v *view) ListWeightedGrades(_ context.Context, filter models.GradeFilter) ([]models.WeightedGrade, error) {
	matched := v.matchingGrades(filter)
	weighted := make([]models.WeightedGrade, 0, len(matched))
	for _, g := range matched {
		weighted = append(weighted, models.WeightedGrade{
			StudentID:  g.StudentID,
			GradePoint: g.GradePoint,
			Credits:    v.st.courses[g.CourseID].Credits,
		})
	}
	return weighted, nil
}

func (v *view) ListTranscript(_ context.Context, studentID int64) ([]*models.TranscriptEntry, error) {
	matched := v.matchingGrades(models.GradeFilter{StudentID: &studentID})
	entries := make([]*models.TranscriptEntry, 0, len(matched))
	for _, g := range matched {
		entries = append(entries, &models.TranscriptEntry{
			GradeID:    g.ID,
			Course:     copyCourse(v.st.courses[g.CourseID]),
			Semester:   g.Semester,
			GradePoint: g.GradePoint,
			RecordedAt: g.CreatedAt,
		})
	}
	return entries, nil
}
