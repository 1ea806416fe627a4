package dashboarderrors

import (
	"net/http"

	"hris-admin/internal/shared/apperror"
)

// Taksonomi error upstream. Error konkret membungkus (Unwrap) salah satu
// sentinel ini sehingga bisa diklasifikasi dengan errors.Is.
var (
	ErrNetworkFailure = apperror.New(
		apperror.CodeNetworkFailure,
		"Backend could not be reached",
		http.StatusBadGateway,
	)
	ErrBackendRejection = apperror.New(
		apperror.CodeBackendRejection,
		"Backend rejected the request",
		http.StatusBadGateway,
	)
	ErrValidationFailure = apperror.New(
		apperror.CodeInvalidInput,
		"Input tidak valid",
		http.StatusBadRequest,
	)
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee is not in the current list",
		http.StatusNotFound,
	)
	ErrActionCancelled = apperror.New(
		apperror.CodeCancelled,
		"Action was cancelled",
		http.StatusConflict,
	)
	ErrNoMenuOpen = apperror.New(
		apperror.CodeInvalidState,
		"Open the employee action menu first",
		http.StatusConflict,
	)
	ErrNoPendingDeletion = apperror.New(
		apperror.CodeInvalidState,
		"No deletion is waiting for confirmation",
		http.StatusConflict,
	)
	ErrConfirmationMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"Confirmation text does not match",
		http.StatusUnprocessableEntity,
	)
)

// Validation wraps a local validation problem. msg is shown to the user.
func Validation(msg string, cause error) *apperror.AppError {
	return apperror.WithCause(ErrValidationFailure, msg, 0, cause)
}

// Rejection wraps a non-success backend answer. status is the backend status;
// only 4xx is passed through to the client.
func Rejection(msg string, status int) *apperror.AppError {
	httpStatus := 0
	if status >= 400 && status < 500 {
		httpStatus = status
	}
	return apperror.WithCause(ErrBackendRejection, msg, httpStatus, nil)
}

// Network wraps a transport failure.
func Network(cause error) *apperror.AppError {
	return apperror.WithCause(ErrNetworkFailure, "", 0, cause)
}
