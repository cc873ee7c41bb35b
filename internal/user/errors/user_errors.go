package usererrors

import (
	"go-staff/internal/shared/apperror"
	"net/http"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeValidation,
		"User with this email already exists.",
		http.StatusBadRequest,
	).WithDetails(apperror.FieldErrors{
		"email": {"User with this email already exists."},
	})
)
