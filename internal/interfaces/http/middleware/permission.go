package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/subtrack/internal/shared/constants"
	"github.com/orris-inc/subtrack/internal/shared/logger"
	"github.com/orris-inc/subtrack/internal/shared/utils"
)

// PolicyEnforcer decides whether a role may call method on path.
type PolicyEnforcer interface {
	Enforce(role, path, method string) (bool, error)
}

type PermissionMiddleware struct {
	enforcer PolicyEnforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer PolicyEnforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

// Authorize checks the caller's role against the request path and method.
// It must run after AuthMiddleware.
func (m *PermissionMiddleware) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(constants.ContextKeyUserRole)
		if role == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		path := c.Request.URL.Path
		allowed, err := m.enforcer.Enforce(role, path, c.Request.Method)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "role", role, "path", path)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied",
				"user_id", c.GetString(constants.ContextKeyUserID),
				"role", role,
				"path", path,
				"method", c.Request.Method)
			utils.ErrorResponse(c, http.StatusForbidden, constants.ErrMsgForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
