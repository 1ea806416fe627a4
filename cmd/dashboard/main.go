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

	cfg, err := config.LoadDashboard()
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}

	r := gin.Default()
	cleanup, err := app.BuildDashboard(context.Background(), r, cfg)
	if err != nil {
		logger.Fatal("build dashboard failed", zap.Error(err))
	}
	defer cleanup()

	err = bootstrap.RunHTTPServer(
		context.Background(),
		r,
		bootstrap.ServerConfig{
			Name:         "dashboard",
			Port:         cfg.Port,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: cfg.BackendTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		bootstrap.NewStdoutAuditLogger(logger, "dashboard"),
	)
	if err != nil {
		logger.Error("dashboard server stopped", zap.Error(err))
	}
}
