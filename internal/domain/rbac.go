package domain

// EnforceRequest dipakai bersama oleh middleware dan service rbac
// supaya middleware tidak perlu import package rbac.
type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
