package directory

// UpdateUserRequest dibaca dari multipart form POST /update/:id.
type UpdateUserRequest struct {
	Name         string `form:"name" json:"name" binding:"required,max=120"`
	Email        string `form:"email" json:"email" binding:"required,email"`
	Phone        string `form:"phone" json:"phone" binding:"omitempty,max=20"`
	EmployeeCode string `form:"employeeCode" json:"employeeCode" binding:"required,max=32"`
	Designation  string `form:"designation" json:"designation" binding:"required,max=80"`
	Password     string `form:"password" json:"password" binding:"omitempty,min=8"`
}

// PhotoUpload adalah file image opsional pada update.
type PhotoUpload struct {
	Filename string
	Content  []byte
}

type ProjectResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type UserResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	EmployeeCode string            `json:"employeeCode"`
	Designation  string            `json:"designation"`
	Photo        string            `json:"photo"`
	IsActive     bool              `json:"isActive"`
	IsLocked     bool              `json:"isLocked"`
	Projects     []ProjectResponse `json:"projects"`
}

type LockResponse struct {
	ID       string `json:"id"`
	IsLocked bool   `json:"isLocked"`
}
