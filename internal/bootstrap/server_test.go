package bootstrap_test

import (
	"context"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"hris-admin/internal/bootstrap"
	"hris-admin/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingAudit struct {
	mu      sync.Mutex
	entries []bootstrap.AuditLog
}

func (r *recordingAudit) Log(_ context.Context, entry bootstrap.AuditLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordingAudit) snapshot() []bootstrap.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bootstrap.AuditLog(nil), r.entries...)
}

func TestRunHTTPServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	audit := &recordingAudit{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- bootstrap.RunHTTPServer(ctx, r, bootstrap.ServerConfig{
			Name:            "directory",
			Port:            "0",
			ShutdownTimeout: time.Second,
		}, audit)
	}()

	require.Eventually(t, func() bool { return len(audit.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	started := audit.snapshot()[0]
	assert.Equal(t, bootstrap.ActionServerStarted, started.Action)
	assert.Contains(t, started.Message, "directory")

	_, port, err := net.SplitHostPort(started.Meta["addr"].(string))
	require.NoError(t, err)
	resp, err := http.Get("http://127.0.0.1:" + port + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after context cancel")
	}

	entries := audit.snapshot()
	require.Len(t, entries, 2)
	assert.Equal(t, bootstrap.ActionServerShutdown, entries[1].Action)
	assert.Equal(t, "context done", entries[1].Meta["reason"])
}

func TestRunHTTPServer_ListenError(t *testing.T) {
	err := bootstrap.RunHTTPServer(context.Background(), http.NotFoundHandler(), bootstrap.ServerConfig{
		Name: "dashboard",
		Port: "not-a-port",
	}, &recordingAudit{})
	assert.ErrorContains(t, err, "dashboard listen")
}

func TestStdoutAuditLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	audit := bootstrap.NewStdoutAuditLogger(zap.New(core), "dashboard")

	ctx := contextutil.WithUserID(contextutil.WithRequestID(context.Background(), "REQ-9"), "admin-1")
	audit.Log(ctx, bootstrap.AuditLog{Action: bootstrap.ActionServerShutdown, Message: "bye"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "audit", entry.LoggerName)
	fields := entry.ContextMap()
	assert.Equal(t, "dashboard", fields["service"])
	assert.Equal(t, "REQ-9", fields["request_id"])
	assert.Equal(t, "admin-1", fields["actor_id"])
	assert.Equal(t, bootstrap.ActionServerShutdown, fields["action"])
	assert.NotContains(t, fields, "meta")
}
