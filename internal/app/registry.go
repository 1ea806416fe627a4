package app

import (
	"database/sql"

	"hris-admin/internal/directory"
	"hris-admin/internal/messaging/kafka"
	"hris-admin/internal/rbac"
	"hris-admin/internal/rbac/infra"
	"hris-admin/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerDirectoryModules(
	router *gin.Engine,
	cfg config.Directory,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	directoryRepo := directory.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	photoFS := afero.NewOsFs()
	photos, err := directory.NewPhotoStore(photoFS, cfg.PhotoDir)
	if err != nil {
		return err
	}

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbac.DefaultPolicy(), enforcer, logger)
	if err := rbacService.LoadPolicy(); err != nil {
		return err
	}

	// --- Services ---
	directoryService := directory.NewService(db, directoryRepo, outboxRepo, rdb, photos, logger)

	// --- Handlers ---
	directoryHandler := directory.NewHandler(directoryService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	directory.RegisterRoutes(router.Group(""), directoryHandler, rbacService, rdb, cfg.JWTSecret, logger)
	directory.RegisterPhotoRoutes(router, photoFS, cfg.PhotoDir)

	api := router.Group("/api/v1")
	rbac.RegisterRoutes(api, rbacHandler, cfg.JWTSecret)

	return nil
}
