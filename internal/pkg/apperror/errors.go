package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeGone          ErrorCode = "GONE"
	ErrCodeUnprocessable ErrorCode = "UNPROCESSABLE"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeGone:
		return http.StatusGone
	case ErrCodeUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Status возвращает HTTP статус для ошибки. Для неизвестных ошибок — 500.
func Status(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConflict
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

var (
	ErrPollNotFound      = New(ErrCodeNotFound, "опрос не найден")
	ErrReportNotFound    = New(ErrCodeNotFound, "жалоба не найдена")
	ErrTrailerNotFound   = New(ErrCodeNotFound, "трейлер не найден")
	ErrDuplicatePoll     = New(ErrCodeConflict, "у трейлера уже есть опрос")
	ErrDuplicateVote     = New(ErrCodeConflict, "вы уже голосовали в этом опросе")
	ErrDuplicateReport   = New(ErrCodeConflict, "вы уже пожаловались на этот контент")
	ErrPollExpired       = New(ErrCodeGone, "опрос завершён, голосование закрыто")
	ErrInvalidOption     = New(ErrCodeUnprocessable, "такого варианта ответа нет")
	ErrInvalidTransition = New(ErrCodeConflict, "жалоба уже рассмотрена")
	ErrUnauthorized      = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden         = New(ErrCodeForbidden, "недостаточно прав")
)
