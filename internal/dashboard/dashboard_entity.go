package dashboard

const ProjectStatusDropped = "dropped"

// EmployeeRecord adalah salinan lokal satu karyawan seperti yang dikirim backend.
// Record hanya diubah lewat rekonsiliasi Gateway, selalu berdasarkan ID.
type EmployeeRecord struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	EmployeeCode string
	Designation  string
	PhotoRef     string
	Active       bool
	Locked       bool
	Projects     []ProjectRef
}

type ProjectRef struct {
	ID     string
	Name   string
	Status string
}

// Label is the human name used in prompts and confirmation phrases.
func (r EmployeeRecord) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Email
}

// VisibleProjects returns the project references without dropped ones.
func (r EmployeeRecord) VisibleProjects() []ProjectRef {
	out := make([]ProjectRef, 0, len(r.Projects))
	for _, p := range r.Projects {
		if p.Status == ProjectStatusDropped {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r EmployeeRecord) clone() EmployeeRecord {
	if r.Projects != nil {
		projects := make([]ProjectRef, len(r.Projects))
		copy(projects, r.Projects)
		r.Projects = projects
	}
	return r
}

// UpdateFields adalah isi form edit profil. Tag binding divalidasi secara lokal
// sebelum request dikirim ke backend.
type UpdateFields struct {
	Name         string `json:"name" binding:"required,max=120"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"omitempty,max=20"`
	EmployeeCode string `json:"employee_code" binding:"required,max=32"`
	Designation  string `json:"designation" binding:"required,max=80"`
	Password     string `json:"password" binding:"omitempty,min=8"`
}

// Photo adalah file foto opsional yang ikut di multipart update.
type Photo struct {
	Filename    string
	ContentType string
	Content     []byte
}
