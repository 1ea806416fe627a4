package middleware

import (
	"net/http"

	"hris-admin/internal/domain"
	"hris-admin/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService adalah interface lokal.
// Apapun package yang punya method Enforce(domain.EnforceRequest) bisa masuk ke sini.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Role not found in token")
			return
		}

		req := domain.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			zap.L().Named("middleware.rbac").Error("rbac enforce failed", zap.Error(err))
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Authorization check failed")
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ApiEnvelope{
				Ok: false,
				Error: &response.ErrorBody{
					Code:    "FORBIDDEN",
					Message: "You do not have permission to access this resource",
					Details: gin.H{"required": resource + ":" + action},
				},
			})
			return
		}
		c.Next()
	}
}
