package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/lumishop/shopadmin/internal/shared/errors"
	"github.com/lumishop/shopadmin/internal/shared/id"
)

// ParseSIDParam reads a prefixed public id such as "tok_xK9mP2vL3nQ" from the route
// parameter paramName. entityName only appears in error messages.
func ParseSIDParam(c *gin.Context, paramName, prefix, entityName string) (string, error) {
	sid := c.Param(paramName)
	if sid == "" {
		return "", errors.NewValidationError(entityName + " ID is required")
	}
	if err := id.ValidatePrefix(sid, prefix); err != nil {
		return "", errors.NewValidationError(fmt.Sprintf("invalid %s ID, expected %s_xxxxx", entityName, prefix))
	}
	return sid, nil
}
