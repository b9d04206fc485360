package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/app/services"
	"github.com/yigit/unirecords/internal/middleware"
)

// GradeController handles grade endpoints
type GradeController struct {
	gradeService services.GradeService
}

// NewGradeController creates a new GradeController
func NewGradeController(svc *services.Services) *GradeController {
	return &GradeController{gradeService: svc.Grades}
}

// RecordGrade records a grade result
// @Summary Record a grade
// @Tags grades
// @Accept json
// @Produce json
// @Param request body dto.RecordGradeRequest true "Grade"
// @Success 201 {object} dto.APIResponse{data=models.Grade}
// @Failure 400 {object} dto.APIResponse "Grade point out of range or semester missing"
// @Failure 404 {object} dto.APIResponse "Student or course not found"
// @Router /grades [post]
func (c *GradeController) RecordGrade(ctx *gin.Context) {
	var req dto.RecordGradeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	grade, err := c.gradeService.RecordGrade(ctx, req.ToInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(grade))
}

// ListGrades lists every grade
// @Router /grades [get]
func (c *GradeController) ListGrades(ctx *gin.Context) {
	grades, err := c.gradeService.ListAllGrades(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(grades))
}
