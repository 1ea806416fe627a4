package apperror

import "fmt"

// AppError membawa kode dan status HTTP untuk client. Message aman
// ditampilkan, Err hanya untuk log dan klasifikasi lewat errors.Is.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// WithCause membuat turunan dari sentinel kind. Hasilnya tetap cocok dengan
// errors.Is(err, kind) dan errors.Is(err, cause). Message atau status kosong
// diambil dari kind.
func WithCause(kind *AppError, message string, httpStatus int, cause error) *AppError {
	if message == "" {
		message = kind.Message
	}
	if httpStatus == 0 {
		httpStatus = kind.HTTPStatus
	}
	return &AppError{
		Code:       kind.Code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        &causeError{kind: kind, cause: cause},
	}
}

type causeError struct {
	kind  error
	cause error
}

func (e *causeError) Error() string {
	if e.cause == nil {
		return e.kind.Error()
	}
	return e.cause.Error()
}

func (e *causeError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}
