package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abordodesign/habitofit/internal/core"
)

// ContextAdminRole is set on requests that pass the admin gate.
const ContextAdminRole = "adminRole"

// AdminMiddleware gates the staff panel routes. It must run after
// AuthMiddleware.VerifyToken, which provides the UID.
type AdminMiddleware struct {
	adminService core.AdminService
	logger       *zap.Logger
}

func NewAdminMiddleware(adminService core.AdminService, logger *zap.Logger) *AdminMiddleware {
	if adminService == nil {
		panic("AdminService is not initialized for AdminMiddleware")
	}
	return &AdminMiddleware{adminService: adminService, logger: logger}
}

// RequireAdmin rejects requests whose authenticated user has no staff role.
// Lookup failures are treated as "not staff": the gate fails closed.
func (m *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(ContextUserID)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
			return
		}

		role, ok, err := m.adminService.Role(c.Request.Context(), uid)
		if err != nil {
			m.logger.Error("admin role lookup failed", zap.String("uid", uid), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin access required"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Admin access required"})
			return
		}

		c.Set(ContextAdminRole, role)
		c.Next()
	}
}
