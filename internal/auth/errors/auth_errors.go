package autherrors

import (
	"go-staff/internal/shared/apperror"
	"net/http"
)

var (
	// Same error for unknown email, wrong password and inactive account.
	ErrInvalidCredentials = apperror.New(
		apperror.CodeInvalidCredentials,
		"Invalid email or password",
		http.StatusBadRequest,
	)

	ErrRefreshTokenRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Refresh token is required",
		http.StatusBadRequest,
	)

	ErrInvalidToken = apperror.New(
		apperror.CodeInvalidToken,
		"Invalid or expired token",
		http.StatusBadRequest,
	)

	ErrInvalidRefreshToken = apperror.New(
		apperror.CodeInvalidToken,
		"Invalid or expired refresh token",
		http.StatusBadRequest,
	)

	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Internal server error",
		http.StatusInternalServerError,
	)
)
