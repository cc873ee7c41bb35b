package employee

import (
	"errors"
	"strings"

	employeeerrors "go-staff/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == "uq_employees_user_id":
			return employeeerrors.ErrUserAlreadyEmployee
		case pgErr.Code == "23503":
			// the only foreign key on employees is user_id
			return employeeerrors.ErrUserNotFound
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_employees_user_id") {
		return employeeerrors.ErrUserAlreadyEmployee
	}

	return err
}
