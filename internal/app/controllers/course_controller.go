package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/app/services"
	"github.com/yigit/unirecords/internal/middleware"
)

// CourseController handles course endpoints
type CourseController struct {
	courseService     services.CourseService
	gradeService      services.GradeService
	enrollmentService services.EnrollmentService
	queryService      services.QueryService
}

// NewCourseController creates a new CourseController
func NewCourseController(svc *services.Services) *CourseController {
	return &CourseController{
		courseService:     svc.Courses,
		gradeService:      svc.Grades,
		enrollmentService: svc.Enrollments,
		queryService:      svc.Queries,
	}
}

// CreateCourse handles course creation
// @Summary Create a new course
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.CourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.APIResponse "Invalid course data"
// @Failure 409 {object} dto.APIResponse "Course code already used"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.CreateCourse(ctx, req.ToCreateInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course))
}

// ListCourses lists all courses; active=true keeps only active ones
// @Summary List courses
// @Tags courses
// @Param active query bool false "Only active courses"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	active, ok := middleware.ParseBoolQuery(ctx, "active")
	if !ok {
		return
	}

	var err error
	var courses interface{}
	if active != nil && *active {
		courses, err = c.queryService.ActiveCourses(ctx)
	} else {
		courses, err = c.courseService.ListCourses(ctx)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}

// GetCourse retrieves a course by ID
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// UpdateCourse updates title, description, credits and capacity
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.UpdateCourse(ctx, id, req.ToUpdateInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// SetStatus opens or closes a course for enrollment
// @Router /courses/{id}/status [patch]
func (c *CourseController) SetStatus(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.CourseStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.SetCourseActive(ctx, id, *req.IsActive)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// DeleteCourse deletes a course without grades or enrollments
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListGrades lists grades recorded for a course
// @Router /courses/{id}/grades [get]
func (c *CourseController) ListGrades(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	grades, err := c.gradeService.ListGradesForCourse(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(grades))
}

// Roster lists students actively enrolled in a course
// @Router /courses/{id}/roster [get]
func (c *CourseController) Roster(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	roster, err := c.queryService.Roster(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(roster))
}

// EnrollmentCount reports occupied seats against capacity
// @Router /courses/{id}/enrollment-count [get]
func (c *CourseController) EnrollmentCount(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	count, err := c.enrollmentService.ActiveEnrollmentCount(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	course, err := c.courseService.GetCourse(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.EnrollmentCountResponse{
		CourseID:    id,
		ActiveCount: count,
		MaxStudents: course.MaxStudents,
	}))
}
