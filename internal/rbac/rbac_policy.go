package rbac

const (
	RoleAdmin = "admin"
	RoleHR    = "hr"

	ResourceEmployee = "employee"

	ActionRead   = "read"
	ActionUpdate = "update"
	ActionLock   = "lock"
	ActionDelete = "delete"
	ActionPurge  = "purge"
)

// PolicySource menyediakan rule dan inheritance yang di-load ke enforcer.
//
//go:generate mockgen -source=rbac_policy.go -destination=mock/rbac_policy_mock.go -package=mock
type PolicySource interface {
	Rules() ([]Rule, error)
	Inheritances() ([]Inheritance, error)
}

type staticPolicy struct {
	rules        []Rule
	inheritances []Inheritance
}

// DefaultPolicy: hr hanya baca dan update, admin mewarisi hr plus lock dan delete.
func DefaultPolicy() PolicySource {
	return &staticPolicy{
		rules: []Rule{
			{Role: RoleHR, Resource: ResourceEmployee, Action: ActionRead},
			{Role: RoleHR, Resource: ResourceEmployee, Action: ActionUpdate},
			{Role: RoleAdmin, Resource: ResourceEmployee, Action: ActionLock},
			{Role: RoleAdmin, Resource: ResourceEmployee, Action: ActionDelete},
			{Role: RoleAdmin, Resource: ResourceEmployee, Action: ActionPurge},
		},
		inheritances: []Inheritance{
			{Role: RoleAdmin, Parent: RoleHR},
		},
	}
}

func (p *staticPolicy) Rules() ([]Rule, error) {
	return p.rules, nil
}

func (p *staticPolicy) Inheritances() ([]Inheritance, error) {
	return p.inheritances, nil
}
