package backendclient

import "hris-admin/internal/dashboard"

type projectPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type userPayload struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Phone        string           `json:"phone"`
	EmployeeCode string           `json:"employeeCode"`
	Designation  string           `json:"designation"`
	Photo        string           `json:"photo"`
	IsActive     bool             `json:"isActive"`
	IsLocked     bool             `json:"isLocked"`
	Projects     []projectPayload `json:"projects"`
}

type lockPayload struct {
	ID       string `json:"id"`
	IsLocked bool   `json:"isLocked"`
}

func (u userPayload) toRecord() dashboard.EmployeeRecord {
	projects := make([]dashboard.ProjectRef, len(u.Projects))
	for i, p := range u.Projects {
		projects[i] = dashboard.ProjectRef{ID: p.ID, Name: p.Name, Status: p.Status}
	}
	return dashboard.EmployeeRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		EmployeeCode: u.EmployeeCode,
		Designation:  u.Designation,
		PhotoRef:     u.Photo,
		Active:       u.IsActive,
		Locked:       u.IsLocked,
		Projects:     projects,
	}
}
