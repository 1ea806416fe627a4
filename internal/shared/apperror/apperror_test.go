package apperror_test

import (
	"errors"
	"net/http"
	"testing"

	"hris-admin/internal/shared/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type employeeForm struct {
	Name         string `form:"name" binding:"required,max=5"`
	Email        string `json:"email" binding:"required,email"`
	EmployeeCode string `json:"employeeCode" binding:"required"`
	Password     string `json:"password" binding:"omitempty,min=8"`
}

func validForm() employeeForm {
	return employeeForm{Name: "Ann", Email: "ann@x.io", EmployeeCode: "E-1"}
}

func TestMapValidationError(t *testing.T) {
	apperror.Init()

	tests := []struct {
		name    string
		mutate  func(*employeeForm)
		message string
	}{
		{"camel case field is required", func(f *employeeForm) { f.EmployeeCode = "" }, "Employee Code is required"},
		{"form tag used without json", func(f *employeeForm) { f.Name = "Annabelle" }, "Name must be at most 5 characters"},
		{"email", func(f *employeeForm) { f.Email = "ann" }, "Email must be a valid email address"},
		{"min length", func(f *employeeForm) { f.Password = "short" }, "Password must be at least 8 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			err := apperror.MapValidationError(binding.Validator.ValidateStruct(&form))

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
			assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}

	t.Run("non validator error", func(t *testing.T) {
		err := apperror.MapValidationError(errors.New("EOF"))
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})
}

func TestWithCause(t *testing.T) {
	kind := apperror.New(apperror.CodeNetworkFailure, "Backend unreachable", http.StatusBadGateway)
	cause := errors.New("dial tcp 10.0.0.5:8080: connection refused")

	err := apperror.WithCause(kind, "", 0, cause)
	assert.ErrorIs(t, err, kind)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Backend unreachable", err.Message)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)

	httpErr := apperror.ToHTTP(err)
	assert.Nil(t, httpErr.Details)
	assert.Equal(t, apperror.CodeNetworkFailure, httpErr.Code)

	custom := apperror.WithCause(kind, "Try again later", http.StatusServiceUnavailable, nil)
	assert.ErrorIs(t, custom, kind)
	assert.Equal(t, "Try again later", custom.Message)
	assert.Equal(t, http.StatusServiceUnavailable, custom.HTTPStatus)
}
