package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/app/services"
	"github.com/yigit/unirecords/internal/middleware"
)

// StudentController handles student endpoints, including the per-student
// grade, transcript and GPA reads
type StudentController struct {
	studentService services.StudentService
	gradeService   services.GradeService
	gpaService     services.GPAService
	queryService   services.QueryService
}

// NewStudentController creates a new StudentController
func NewStudentController(svc *services.Services) *StudentController {
	return &StudentController{
		studentService: svc.Students,
		gradeService:   svc.Grades,
		gpaService:     svc.GPA,
		queryService:   svc.Queries,
	}
}

// CreateStudent handles student creation
// @Summary Create a new student
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.APIResponse "Invalid student data"
// @Failure 409 {object} dto.APIResponse "Student number or email already used"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.studentService.CreateStudent(ctx, in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(student))
}

// ListStudents lists all students; withCgpa=true adds each student's CGPA
// @Summary List students
// @Tags students
// @Produce json
// @Param withCgpa query bool false "Include CGPA"
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	withCGPA, ok := middleware.ParseBoolQuery(ctx, "withCgpa")
	if !ok {
		return
	}

	if withCGPA != nil && *withCGPA {
		summaries, err := c.gpaService.ListStudentSummaries(ctx)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summaries))
		return
	}

	students, err := c.studentService.ListStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// GetStudent retrieves a student by ID
// @Summary Get student by ID
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// UpdateStudent updates names, email and date of birth
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// DeleteStudent deletes a student without grades or enrollments
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListGrades lists a student's grades
// @Router /students/{id}/grades [get]
func (c *StudentController) ListGrades(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	grades, err := c.gradeService.ListGradesForStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(grades))
}

// Transcript lists a student's grades with course details
// @Router /students/{id}/transcript [get]
func (c *StudentController) Transcript(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	transcript, err := c.queryService.Transcript(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(transcript))
}

// CGPA computes a student's cumulative GPA
// @Router /students/{id}/cgpa [get]
func (c *StudentController) CGPA(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	cgpa, err := c.gpaService.ComputeCGPA(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.GPAResponse{StudentID: id, GPA: cgpa}))
}

// SemesterGPA computes a student's GPA for one semester label
// @Param semester query string true "Semester label, matched exactly"
// @Router /students/{id}/gpa [get]
func (c *StudentController) SemesterGPA(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	semester, present := ctx.GetQuery("semester")
	if !present || semester == "" {
		middleware.HandleAPIError(ctx, errSemesterRequired)
		return
	}

	gpa, err := c.gpaService.ComputeSemesterGPA(ctx, id, semester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.GPAResponse{StudentID: id, Semester: semester, GPA: gpa}))
}
