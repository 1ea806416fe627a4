package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type ToastLevel string

const (
	ToastLoading ToastLevel = "loading"
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
)

type Toast struct {
	Level   ToastLevel `json:"level"`
	Message string     `json:"message"`
	Code    string     `json:"code,omitempty"`
	At      time.Time  `json:"at"`
}

// Notifier adalah kolaborator toast (loading/success/error).
type Notifier interface {
	Loading(ctx context.Context, msg string)
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, msg string, err error)
}

// ToastQueue keeps the latest toasts of one session until they are drained.
type ToastQueue struct {
	mu    sync.Mutex
	max   int
	items []Toast
	now   func() time.Time
}

func NewToastQueue(max int) *ToastQueue {
	if max < 1 {
		max = 20
	}
	return &ToastQueue{max: max, now: time.Now}
}

func (q *ToastQueue) Loading(_ context.Context, msg string) {
	q.push(Toast{Level: ToastLoading, Message: msg})
}

func (q *ToastQueue) Success(_ context.Context, msg string) {
	q.push(Toast{Level: ToastSuccess, Message: msg})
}

func (q *ToastQueue) Error(_ context.Context, msg string, err error) {
	q.push(Toast{Level: ToastError, Message: msg, Code: errorCode(err)})
}

// Drain returns and clears the queued toasts, oldest first.
func (q *ToastQueue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	if out == nil {
		out = []Toast{}
	}
	return out
}

func (q *ToastQueue) push(t Toast) {
	q.mu.Lock()
	defer q.mu.Unlock()
	t.At = q.now().UTC()
	q.items = append(q.items, t)
	if over := len(q.items) - q.max; over > 0 {
		q.items = append([]Toast(nil), q.items[over:]...)
	}
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier writes every toast to zap.
func NewLogNotifier(logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.L()
	}
	return &logNotifier{logger: logger.Named("dashboard.notifier")}
}

func (n *logNotifier) Loading(_ context.Context, msg string) {
	n.logger.Debug("toast loading", zap.String("message", msg))
}

func (n *logNotifier) Success(_ context.Context, msg string) {
	n.logger.Info("toast success", zap.String("message", msg))
}

func (n *logNotifier) Error(_ context.Context, msg string, err error) {
	n.logger.Warn("toast error", zap.String("message", msg), zap.Error(err))
}

type multiNotifier []Notifier

// MultiNotifier fans out to every non-nil notifier.
func MultiNotifier(notifiers ...Notifier) Notifier {
	out := make(multiNotifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (m multiNotifier) Loading(ctx context.Context, msg string) {
	for _, n := range m {
		n.Loading(ctx, msg)
	}
}

func (m multiNotifier) Success(ctx context.Context, msg string) {
	for _, n := range m {
		n.Success(ctx, msg)
	}
}

func (m multiNotifier) Error(ctx context.Context, msg string, err error) {
	for _, n := range m {
		n.Error(ctx, msg, err)
	}
}
