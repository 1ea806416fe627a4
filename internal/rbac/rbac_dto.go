package rbac

import "hris-admin/internal/domain"

type EnforceRequest = domain.EnforceRequest

type EnforceResponse = domain.EnforceResponse

// Rule adalah satu baris policy: role boleh melakukan action pada resource.
type Rule struct {
	Role     string
	Resource string
	Action   string
}

// Inheritance: Role mewarisi semua rule milik Parent.
type Inheritance struct {
	Role   string
	Parent string
}
