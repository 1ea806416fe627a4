package dashboard

import (
	"hris-admin/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	jwtSecret string,
	logger *zap.Logger,
) {
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware(jwtSecret))
	dashboard.Use(middleware.ContextLogger(logger))
	{
		dashboard.GET("/employees",
			middleware.RateLimitByUser(5, 20),
			handler.GetEmployees,
		)
		dashboard.POST("/employees/refresh",
			middleware.RateLimitByUser(1, 3),
			handler.Refresh,
		)
		dashboard.POST("/employees/:id",
			middleware.RateLimitByUser(0.5, 2),
			handler.Update,
		)
		dashboard.POST("/employees/:id/menu", handler.OpenMenu)
		dashboard.POST("/employees/:id/toggle-lock",
			middleware.RateLimitByUser(1, 3),
			handler.ToggleLock,
		)
		dashboard.POST("/employees/:id/delete-confirmation", handler.OpenDeleteConfirmation)

		dashboard.GET("/selection", handler.GetSelection)
		dashboard.DELETE("/menu", handler.CloseSelection)

		dashboard.PUT("/delete-confirmation", handler.EnterConfirmation)
		dashboard.DELETE("/delete-confirmation", handler.CloseSelection)
		dashboard.POST("/delete-confirmation/submit",
			middleware.RateLimitByUser(1, 3),
			handler.SubmitDeletion,
		)

		dashboard.GET("/notifications", handler.GetNotifications)
	}
}
