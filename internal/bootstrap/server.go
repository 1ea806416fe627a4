package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

type ServerConfig struct {
	// Name muncul di log dan audit, mis. "dashboard" atau "directory".
	Name            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// RunHTTPServer melayani handler sampai ctx selesai atau SIGINT/SIGTERM
// diterima, lalu shutdown dengan graceful. Error listen dikembalikan langsung.
func RunHTTPServer(
	ctx context.Context,
	handler http.Handler,
	cfg ServerConfig,
	auditLogger AuditLogger,
) error {
	logger := zap.L().With(zap.String("service", cfg.Name))

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("%s listen: %w", cfg.Name, err)
	}

	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ln)
	}()

	addr := ln.Addr().String()
	logger.Info("HTTP server running", zap.String("addr", addr))
	auditLogger.Log(ctx, AuditLog{
		Action:  ActionServerStarted,
		Message: cfg.Name + " is accepting requests",
		Meta:    map[string]any{"addr": addr},
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	reason := "context done"
	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%s serve: %w", cfg.Name, err)
	case sig := <-quit:
		reason = sig.String()
		logger.Info("Shutdown signal received", zap.String("signal", reason))
	case <-ctx.Done():
	}

	// Audit dicatat sebelum koneksi ditutup.
	auditLogger.Log(context.Background(), AuditLog{
		Action:  ActionServerShutdown,
		Message: cfg.Name + " is shutting down",
		Meta:    map[string]any{"reason": reason},
	})

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
		return err
	}
	logger.Info("Server exited gracefully")
	return nil
}
