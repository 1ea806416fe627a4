package directory

import (
	"errors"
	"strings"

	directoryerrors "hris-admin/internal/directory/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return directoryerrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_employee_email":
			return directoryerrors.ErrEmailAlreadyExists
		case "uq_employee_code":
			return directoryerrors.ErrEmployeeCodeAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		switch {
		case strings.Contains(errMsg, "uq_employee_email"):
			return directoryerrors.ErrEmailAlreadyExists
		case strings.Contains(errMsg, "uq_employee_code"):
			return directoryerrors.ErrEmployeeCodeAlreadyExists
		}
	}

	return err
}
