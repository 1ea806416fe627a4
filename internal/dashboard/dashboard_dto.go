package dashboard

type ProjectResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type EmployeeResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone,omitempty"`
	EmployeeCode string            `json:"employee_code"`
	Designation  string            `json:"designation"`
	PhotoRef     string            `json:"photo_ref,omitempty"`
	Active       bool              `json:"active"`
	Locked       bool              `json:"locked"`
	Projects     []ProjectResponse `json:"projects"`
}

type SelectionResponse struct {
	State   ModalState               `json:"state"`
	RowID   string                   `json:"row_id,omitempty"`
	Pending *PendingDeletionResponse `json:"pending,omitempty"`
}

type PendingDeletionResponse struct {
	EmployeeID string `json:"employee_id"`
	Label      string `json:"label"`
	Permanent  bool   `json:"permanent"`
	Phrase     string `json:"phrase"`
	CanConfirm bool   `json:"can_confirm"`
}

type LockResponse struct {
	ID      string `json:"id"`
	Locked  bool   `json:"locked"`
	Applied bool   `json:"applied"`
}

type ToggleLockRequest struct {
	Confirm *bool `json:"confirm" binding:"required"`
}

type OpenDeleteConfirmationRequest struct {
	Permanent bool `json:"permanent"`
}

type EnterConfirmationRequest struct {
	Text string `json:"text"`
}

type SubmitDeletionRequest struct {
	Text *string `json:"text"`
}

// UpdateEmployeeForm dibaca dari multipart form. Validasi dilakukan oleh
// Gateway supaya hasilnya selalu ValidationFailure.
type UpdateEmployeeForm struct {
	Name         string `form:"name"`
	Email        string `form:"email"`
	Phone        string `form:"phone"`
	EmployeeCode string `form:"employeeCode"`
	Designation  string `form:"designation"`
	Password     string `form:"password"`
}

func mapToResponse(r EmployeeRecord) EmployeeResponse {
	visible := r.VisibleProjects()
	projects := make([]ProjectResponse, len(visible))
	for i, p := range visible {
		projects[i] = ProjectResponse{ID: p.ID, Name: p.Name, Status: p.Status}
	}
	return EmployeeResponse{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		EmployeeCode: r.EmployeeCode,
		Designation:  r.Designation,
		PhotoRef:     r.PhotoRef,
		Active:       r.Active,
		Locked:       r.Locked,
		Projects:     projects,
	}
}

func mapToListResponse(records []EmployeeRecord) []EmployeeResponse {
	res := make([]EmployeeResponse, len(records))
	for i, r := range records {
		res[i] = mapToResponse(r)
	}
	return res
}

func mapPending(p PendingDeletion) *PendingDeletionResponse {
	return &PendingDeletionResponse{
		EmployeeID: p.RecordID,
		Label:      p.Label,
		Permanent:  p.Permanent,
		Phrase:     p.Phrase,
		CanConfirm: p.Confirmed(),
	}
}

func mapSelection(s SelectionSnapshot) SelectionResponse {
	resp := SelectionResponse{State: s.State, RowID: s.RowID}
	if s.Pending != nil {
		resp.Pending = mapPending(*s.Pending)
	}
	return resp
}
