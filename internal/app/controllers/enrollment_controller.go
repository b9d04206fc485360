package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unirecords/internal/app/models"
	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/app/services"
	"github.com/yigit/unirecords/internal/middleware"
)

// EnrollmentController handles the enrollment lifecycle endpoints
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(svc *services.Services) *EnrollmentController {
	return &EnrollmentController{enrollmentService: svc.Enrollments}
}

// Enroll enrolls a student in a course
// @Summary Enroll a student
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body dto.EnrollRequest true "Student and course"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment}
// @Failure 404 {object} dto.APIResponse "Student or course not found"
// @Failure 409 {object} dto.APIResponse "Already enrolled, course inactive or full"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx, req.StudentID, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(enrollment))
}

// ListEnrollments lists enrollments filtered by studentId, courseId, active
// @Router /enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	var filter models.EnrollmentFilter
	var ok bool
	if filter.StudentID, ok = middleware.ParseIDQuery(ctx, "studentId"); !ok {
		return
	}
	if filter.CourseID, ok = middleware.ParseIDQuery(ctx, "courseId"); !ok {
		return
	}
	if filter.IsActive, ok = middleware.ParseBoolQuery(ctx, "active"); !ok {
		return
	}

	enrollments, err := c.enrollmentService.ListEnrollments(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollments))
}

func pairParams(ctx *gin.Context) (studentID, courseID int64, ok bool) {
	if studentID, ok = middleware.ParseIDParam(ctx, "studentId"); !ok {
		return 0, 0, false
	}
	if courseID, ok = middleware.ParseIDParam(ctx, "courseId"); !ok {
		return 0, 0, false
	}
	return studentID, courseID, true
}

// IsEnrolled reports whether the pair is actively enrolled
// @Router /enrollments/{studentId}/{courseId} [get]
func (c *EnrollmentController) IsEnrolled(ctx *gin.Context) {
	studentID, courseID, ok := pairParams(ctx)
	if !ok {
		return
	}

	enrolled, err := c.enrollmentService.IsEnrolled(ctx, studentID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.EnrollmentStatusResponse{
		StudentID: studentID,
		CourseID:  courseID,
		Enrolled:  enrolled,
	}))
}

// Withdraw deactivates an enrollment
// @Router /enrollments/{studentId}/{courseId} [delete]
func (c *EnrollmentController) Withdraw(ctx *gin.Context) {
	studentID, courseID, ok := pairParams(ctx)
	if !ok {
		return
	}

	if err := c.enrollmentService.Withdraw(ctx, studentID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
