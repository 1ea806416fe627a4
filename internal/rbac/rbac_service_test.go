package rbac

import (
	"errors"
	"testing"

	"hris-admin/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenPolicy struct{}

func (brokenPolicy) Rules() ([]Rule, error)               { return nil, errors.New("policy store down") }
func (brokenPolicy) Inheritances() ([]Inheritance, error) { return nil, nil }

func newTestService(t *testing.T, source PolicySource) Service {
	e, err := infra.NewEnforcer()
	require.NoError(t, err)
	return NewService(source, e)
}

func TestRBACService_Enforce(t *testing.T) {
	service := newTestService(t, DefaultPolicy())

	tests := []struct {
		name   string
		role   string
		action string
		want   bool
	}{
		{"hr can read", RoleHR, ActionRead, true},
		{"hr can update", RoleHR, ActionUpdate, true},
		{"hr cannot lock", RoleHR, ActionLock, false},
		{"hr cannot purge", RoleHR, ActionPurge, false},
		{"admin inherits read", RoleAdmin, ActionRead, true},
		{"admin can delete", RoleAdmin, ActionDelete, true},
		{"admin can purge", RoleAdmin, ActionPurge, true},
		{"unknown role denied", "guest", ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := service.Enforce(EnforceRequest{
				Role:     tt.role,
				Resource: ResourceEmployee,
				Action:   tt.action,
			})
			assert.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}
}

func TestRBACService_LoadPolicyIsIdempotent(t *testing.T) {
	service := newTestService(t, DefaultPolicy())

	assert.NoError(t, service.LoadPolicy())
	assert.NoError(t, service.LoadPolicy())

	allowed, err := service.Enforce(EnforceRequest{Role: RoleHR, Resource: ResourceEmployee, Action: ActionRead})
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestRBACService_SourceError(t *testing.T) {
	service := newTestService(t, brokenPolicy{})

	allowed, err := service.Enforce(EnforceRequest{Role: RoleAdmin, Resource: ResourceEmployee, Action: ActionRead})
	assert.Error(t, err)
	assert.False(t, allowed)
}
