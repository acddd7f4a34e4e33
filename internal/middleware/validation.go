package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusportal/internal/app/models/dto"
	"github.com/yigit/campusportal/internal/pkg/validation"
)

// BindJSON decodes and validates the request body into obj. On failure it
// writes a 400 with the rejected fields and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		message, fields := validation.Describe(err)
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrorCodeValidationFailed, message).WithFields(fields))
		return false
	}
	return true
}

// ParamID parses a positive integer path parameter. On failure it writes a
// 400 and returns false.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest,
			dto.NewErrorResponse(dto.ErrorCodeValidationFailed, "invalid "+name))
		return 0, false
	}
	return id, true
}
