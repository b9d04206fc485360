package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/logger"
)

// RetryAfterSeconds is advertised on 503 responses
const RetryAfterSeconds = "5"

// errorMapping is the HTTP rendering of an error kind
type errorMapping struct {
	status int
	code   dto.ErrorCode
}

// errorMappings is checked in order; the first matching kind wins
var errorMappings = []struct {
	kind error
	errorMapping
}{
	{apperrors.ErrInvalidArgument, errorMapping{http.StatusBadRequest, dto.ErrorCodeInvalidArgument}},
	{apperrors.ErrNotFound, errorMapping{http.StatusNotFound, dto.ErrorCodeNotFound}},
	{apperrors.ErrDuplicateKey, errorMapping{http.StatusConflict, dto.ErrorCodeDuplicateKey}},
	{apperrors.ErrAlreadyEnrolled, errorMapping{http.StatusConflict, dto.ErrorCodeAlreadyEnrolled}},
	{apperrors.ErrCourseInactive, errorMapping{http.StatusConflict, dto.ErrorCodeCourseInactive}},
	{apperrors.ErrCourseFull, errorMapping{http.StatusConflict, dto.ErrorCodeCourseFull}},
	{apperrors.ErrHasDependents, errorMapping{http.StatusConflict, dto.ErrorCodeHasDependents}},
	{apperrors.ErrStoreUnavailable, errorMapping{http.StatusServiceUnavailable, dto.ErrorCodeStoreUnavailable}},
}

// HandleAPIError renders an engine error as a JSON error response
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.kind) {
			continue
		}

		detail := dto.NewErrorDetail(m.code, err.Error())
		details := apperrors.DetailsOf(err)
		if field, ok := details["field"].(string); ok {
			detail = detail.WithField(field)
		}
		if len(details) > 0 {
			detail = detail.WithDetails(details)
		}

		if m.status == http.StatusServiceUnavailable {
			c.Header("Retry-After", RetryAfterSeconds)
			logger.Warn().Err(err).Str("requestId", RequestIDFrom(c)).Msg("Store unavailable")
		}
		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().Err(err).Str("requestId", RequestIDFrom(c)).Str("path", c.FullPath()).Msg("Unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
}

// NoRoute answers unknown routes with the standard envelope
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeRouteNotFound, "route "+c.Request.Method+" "+c.Request.URL.Path+" not found")))
}
