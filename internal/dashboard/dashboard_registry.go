package dashboard

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// Registry keeps one Session per user id and evicts idle sessions.
type Registry struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
	factory  func(id string) *Session
	logger   *zap.Logger
}

func NewRegistry(capacity int, ttl time.Duration, factory func(id string) *Session, logger ...*zap.Logger) *Registry {
	l := zap.L().Named("dashboard.registry")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.registry")
	}
	r := &Registry{factory: factory, logger: l}
	r.sessions = expirable.NewLRU[string, *Session](capacity, func(id string, s *Session) {
		r.logger.Debug("dashboard session evicted", zap.String("session_id", id))
		s.Close()
	}, ttl)
	return r
}

// Get returns the session for id, creating it on first use.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions.Get(id); ok {
		// Add ulang supaya TTL diperpanjang selama session aktif.
		r.sessions.Add(id, s)
		return s
	}
	s := r.factory(id)
	r.sessions.Add(id, s)
	r.logger.Debug("dashboard session created", zap.String("session_id", id))
	return s
}

// Each calls fn for every live session.
func (r *Registry) Each(fn func(s *Session)) {
	for _, s := range r.sessions.Values() {
		fn(s)
	}
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}

// Close drops every session.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Purge()
}
