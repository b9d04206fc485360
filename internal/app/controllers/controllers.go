// Package controllers adapts HTTP requests to the records services
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
)

var errSemesterRequired = apperrors.NewInvalidArgumentError("semester", "is required")

// Controllers groups every controller the router needs
type Controllers struct {
	Students    *StudentController
	Courses     *CourseController
	Enrollments *EnrollmentController
	Grades      *GradeController
	Health      *HealthController
}

// HealthController answers liveness checks
type HealthController struct {
	storeName string
}

// NewHealthController creates a HealthController reporting storeName
func NewHealthController(storeName string) *HealthController {
	return &HealthController{storeName: storeName}
}

// Health reports that the process is serving requests
// @Router /health [get]
func (h *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.HealthResponse{Status: "ok", Store: h.storeName}))
}
