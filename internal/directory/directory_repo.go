package directory

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=directory_repo.go -destination=mock/directory_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	ToggleLocked(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, empl *Employee) error
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn mengarahkan query ke transaksi aktif kalau ada.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Preload("Projects").
		Order("name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).
		Preload("Projects").
		First(&empl, "id = ?", id).Error
	return &empl, err
}

// ToggleLocked membalik is_locked dalam satu statement sehingga dua toggle
// yang bersamaan tidak saling menimpa. Mengembalikan state setelah toggle.
func (r *repository) ToggleLocked(ctx context.Context, id string) (bool, error) {
	var row struct{ IsLocked bool }
	res := r.conn(ctx).Raw(`
UPDATE employees
SET is_locked = NOT is_locked, updated_at = NOW()
WHERE id = ? AND deleted_at IS NULL
RETURNING is_locked
`, id).Scan(&row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, gorm.ErrRecordNotFound
	}
	return row.IsLocked, nil
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Omit("Projects").Save(empl).Error
}

// SoftDelete menonaktifkan karyawan lalu mengisi deleted_at.
func (r *repository) SoftDelete(ctx context.Context, id string) error {
	db := r.conn(ctx)
	res := db.Model(&Employee{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return db.Delete(&Employee{}, "id = ?", id).Error
}

func (r *repository) HardDelete(ctx context.Context, id string) error {
	db := r.conn(ctx)
	if err := db.Exec("DELETE FROM employee_projects WHERE employee_id = ?", id).Error; err != nil {
		return err
	}
	res := db.Unscoped().Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
