package app

import (
	"hris-admin/internal/directory"
	"hris-admin/internal/shared/config"
	"hris-admin/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildDirectory menyiapkan koneksi dan route untuk cmd/directory.
// cleanup menutup koneksi setelah server berhenti.
func BuildDirectory(router *gin.Engine, cfg config.Directory) (cleanup func(), err error) {
	logger := zap.L().Named("app.directory")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, 5)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if err := directory.AutoMigrate(gormDB); err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		logger.Info("redis connection established")
	} else {
		logger.Warn("REDIS_ADDR not set, list cache and idempotency disabled")
	}

	if err := registerDirectoryModules(router, cfg, sqlDB, gormDB, rdb, logger); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = sqlDB.Close()
	}, nil
}
