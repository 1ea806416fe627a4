package main

import (
	"context"
	"time"

	"hris-admin/internal/app"
	"hris-admin/internal/bootstrap"
	"hris-admin/internal/shared/apperror"
	"hris-admin/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	cfg, err := config.LoadDirectory()
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	cleanup, err := app.BuildDirectory(r, cfg)
	if err != nil {
		logger.Fatal("build directory failed", zap.Error(err))
	}
	defer cleanup()

	err = bootstrap.RunHTTPServer(
		context.Background(),
		r,
		bootstrap.ServerConfig{
			Name:         "directory",
			Port:         cfg.Port,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		bootstrap.NewStdoutAuditLogger(logger, "directory"),
	)
	if err != nil {
		logger.Error("directory server stopped", zap.Error(err))
	}
}
