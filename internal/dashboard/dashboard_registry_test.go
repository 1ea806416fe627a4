package dashboard_test

import (
	"testing"
	"time"

	"hris-admin/internal/dashboard"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_OneSessionPerUser(t *testing.T) {
	created := 0
	reg := dashboard.NewRegistry(8, time.Minute, func(id string) *dashboard.Session {
		created++
		return dashboard.NewSession(id, dashboard.SessionDeps{})
	})
	defer reg.Close()

	a := reg.Get("user-a")
	assert.Same(t, a, reg.Get("user-a"))
	b := reg.Get("user-b")
	assert.NotSame(t, a, b)

	assert.Equal(t, 2, created)
	assert.Equal(t, 2, reg.Len())

	seen := map[string]bool{}
	reg.Each(func(s *dashboard.Session) { seen[s.ID] = true })
	assert.Equal(t, map[string]bool{"user-a": true, "user-b": true}, seen)
}

func TestRegistry_EvictsBeyondCapacity(t *testing.T) {
	reg := dashboard.NewRegistry(1, time.Minute, func(id string) *dashboard.Session {
		return dashboard.NewSession(id, dashboard.SessionDeps{})
	})
	defer reg.Close()

	first := reg.Get("user-a")
	reg.Get("user-b")

	assert.Equal(t, 1, reg.Len())
	assert.NotSame(t, first, reg.Get("user-a"))
}

func TestToastQueue_Bounded(t *testing.T) {
	q := dashboard.NewToastQueue(2)
	ctx := t.Context()

	q.Loading(ctx, "one")
	q.Success(ctx, "two")
	q.Error(ctx, "three", nil)

	got := q.Drain()
	assert.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Message)
	assert.Equal(t, dashboard.ToastError, got[1].Level)
	assert.Empty(t, q.Drain())
}
