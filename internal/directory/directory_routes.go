package directory

import (
	"hris-admin/internal/middleware"
	"hris-admin/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	jwtSecret string,
	logger *zap.Logger,
) {
	users := r.Group("")
	users.Use(middleware.AuthMiddleware(jwtSecret))
	users.Use(middleware.ContextLogger(logger))
	{
		users.GET("/users",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, rbac.ActionRead),
			handler.GetAll,
		)

		users.GET("/toggle-lock",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, rbac.ActionLock),
			handler.ToggleLock,
		)

		users.DELETE("/soft-delete",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, rbac.ActionDelete),
			handler.SoftDelete,
		)

		users.DELETE("/hard-delete",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, rbac.ActionPurge),
			handler.HardDelete,
		)

		users.POST("/update/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, rbac.ActionUpdate),
			middleware.Idempotency(rdb, logger),
			handler.Update,
		)
	}
}

// RegisterPhotoRoutes menyajikan foto dari PhotoStore yang sama.
func RegisterPhotoRoutes(r gin.IRoutes, fs afero.Fs, dir string) {
	r.StaticFS(PhotoURLPrefix, afero.NewHttpFs(fs).Dir(dir))
}
