package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// formatFieldName: employee_code dan employeeCode sama-sama jadi "Employee Code".
func formatFieldName(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_':
			b.WriteRune(' ')
		case unicode.IsUpper(r) && i > 0:
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	// Caser tidak aman dipakai bersama antar goroutine.
	return cases.Title(language.English).String(b.String())
}

// MapValidationError mengubah error validator menjadi AppError dengan pesan
// untuk field pertama yang gagal.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return ErrInvalidInput
	}

	e := errs[0]
	field := formatFieldName(e.Field())

	switch e.Tag() {
	case "required":
		return RequiredField(field)
	case "email":
		return fieldMessage(fmt.Sprintf("%s must be a valid email address", field))
	case "max":
		return fieldMessage(fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
	case "min":
		return fieldMessage(fmt.Sprintf("%s must be at least %s characters", field, e.Param()))
	default:
		return InvalidField(field)
	}
}

func fieldMessage(msg string) *AppError {
	return New(CodeInvalidInput, msg, http.StatusBadRequest)
}
