package employeeerrors

import (
	"net/http"

	"go-staff/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Not found.",
		http.StatusNotFound,
	)
	ErrNoEmployeeRecord = apperror.New(
		apperror.CodeNotFound,
		"You do not have an employee record yet.",
		http.StatusNotFound,
	)
	ErrUserNotFound = apperror.Validation(
		"user_id",
		"Invalid pk - object does not exist.",
	)
	ErrUserAlreadyEmployee = apperror.Validation(
		"user_id",
		"employee with this user already exists.",
	)
)
