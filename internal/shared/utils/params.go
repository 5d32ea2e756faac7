package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/id"
)

// ParseSIDParam reads a prefixed ID from the route parameter paramName.
func ParseSIDParam(c *gin.Context, paramName, prefix, entityName string) (string, error) {
	sid := c.Param(paramName)
	if sid == "" {
		return "", errors.NewValidationError(entityName + " ID is required")
	}
	if err := id.ValidatePrefix(sid, prefix); err != nil {
		return "", errors.NewValidationError(
			fmt.Sprintf("invalid %s ID format, expected %s_xxxxx", entityName, prefix),
		)
	}
	return sid, nil
}

// ParseIndexParam reads a non-negative integer route parameter.
func ParseIndexParam(c *gin.Context, paramName string) (int, error) {
	n, err := strconv.Atoi(c.Param(paramName))
	if err != nil || n < 0 {
		return 0, errors.NewValidationError(paramName + " must be a non-negative integer")
	}
	return n, nil
}
