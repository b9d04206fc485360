package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/unirecords/internal/app/models/dto"
	"github.com/yigit/unirecords/internal/pkg/apperrors"
	"github.com/yigit/unirecords/internal/pkg/validation"
)

// BindJSON decodes the request body into obj. On failure it writes a 400
// response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	detail := dto.NewErrorDetail(dto.ErrorCodeMalformedBody, "Invalid request body")
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		detail = detail.WithField(fe.Field()).WithDetails(fe.Field() + " " + validation.Message(fe))
	} else {
		detail = detail.WithDetails(err.Error())
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
	return false
}

// ParseIDParam reads a positive integer path parameter. On failure it
// writes a 400 response and returns false.
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		HandleAPIError(c, apperrors.NewInvalidArgumentError(name, "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// ParseBoolQuery reads an optional boolean query parameter
func ParseBoolQuery(c *gin.Context, name string) (*bool, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		HandleAPIError(c, apperrors.NewInvalidArgumentError(name, "must be true or false"))
		return nil, false
	}
	return &v, true
}

// ParseIDQuery reads an optional positive integer query parameter
func ParseIDQuery(c *gin.Context, name string) (*int64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		HandleAPIError(c, apperrors.NewInvalidArgumentError(name, "must be a positive integer"))
		return nil, false
	}
	return &id, true
}
