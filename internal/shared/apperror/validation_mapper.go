package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	// first_name -> First Name
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

func messageForTag(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
	case "gt", "gte":
		return "Ensure this value is greater than zero."
	default:
		return "Enter a valid value."
	}
}

// MapValidationError turns a binding error into a 400 AppError whose
// details hold every failing field. The message names the first one.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		details := FieldErrors{}
		for _, e := range errs {
			// e.Field() is the json name, see Init
			details.Add(e.Field(), messageForTag(e))
		}

		first := errs[0]
		return &AppError{
			Code:       CodeValidation,
			Message:    formatFieldName(first.Field()) + ": " + messageForTag(first),
			HTTPStatus: http.StatusBadRequest,
			Details:    details,
			Err:        err,
		}
	}

	return Wrap(err, CodeInvalidInput, "Invalid input", http.StatusBadRequest)
}
