package apperror

import "net/http"

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to perform this action",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"Internal server error",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication credentials were not provided",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrTooManyRequests = New(
		CodeTooManyRequests,
		"Too many requests",
		http.StatusTooManyRequests,
	)
)

// Validation builds a 400 error carrying a single field error.
func Validation(field, message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    formatFieldName(field) + ": " + message,
		HTTPStatus: http.StatusBadRequest,
		Details:    FieldErrors{field: {message}},
	}
}

// ValidationFailed wraps several field errors in one 400 response.
func ValidationFailed(details FieldErrors) *AppError {
	return ErrInvalidInput.WithDetails(details)
}
