package directory

import "gorm.io/gorm"

// AutoMigrate menyiapkan tabel employees, projects dan employee_projects.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Project{}, &Employee{})
}
