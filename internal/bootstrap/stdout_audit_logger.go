package bootstrap

import (
	"context"
	"time"

	"hris-admin/internal/shared/contextutil"

	"go.uber.org/zap"
)

// StdoutAuditLogger menulis audit event ke logger "audit", diberi label
// nama service (dashboard, directory) agar bisa difilter di agregator log.
type StdoutAuditLogger struct {
	logger  *zap.Logger
	service string
}

func NewStdoutAuditLogger(logger *zap.Logger, service string) *StdoutAuditLogger {
	if logger == nil {
		logger = zap.L()
	}
	return &StdoutAuditLogger{
		logger:  logger.Named("audit").With(zap.String("service", service)),
		service: service,
	}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	fields := []zap.Field{
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
	}
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	if uid := contextutil.GetUserID(ctx); uid != "" {
		fields = append(fields, zap.String("actor_id", uid))
	}
	if len(entry.Meta) > 0 {
		fields = append(fields, zap.Any("meta", entry.Meta))
	}
	l.logger.Info("audit event", fields...)
}
