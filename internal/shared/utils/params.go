package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/buildhomemart/homemart/internal/shared/errors"
)

// ParseUintParam parses a numeric URL path parameter.
// entityName is used in error messages (e.g., "plan", "vendor").
func ParseUintParam(c *gin.Context, paramName, entityName string) (uint, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return 0, errors.NewValidationError(entityName + " ID is required")
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("invalid " + entityName + " ID")
	}

	return uint(id), nil
}
