package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee adalah baris tabel employees. Soft delete lewat DeletedAt.
type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string
	Email        string `gorm:"uniqueIndex:uq_employee_email"`
	Phone        string
	EmployeeCode string `gorm:"uniqueIndex:uq_employee_code"`
	Designation  string
	Photo        string
	PasswordHash string
	IsActive     bool      `gorm:"default:true"`
	IsLocked     bool      `gorm:"default:false"`
	Projects     []Project `gorm:"many2many:employee_projects;"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

type Project struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
