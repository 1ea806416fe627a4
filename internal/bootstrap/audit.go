package bootstrap

import "context"

const (
	ActionServerStarted  = "SERVER_STARTED"
	ActionServerShutdown = "SERVER_SHUTDOWN"
)

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
