package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrAlreadyExists     = errors.New("resource already exists")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrBadRequest        = errors.New("bad request")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrStructural        = errors.New("structural inconsistency")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrBusy              = errors.New("resource busy")
	ErrInvalidToken      = errors.New("invalid or expired token")
)

// Error codes returned to clients
const (
	CodeBadRequest        = "ERR_BAD_REQUEST"
	CodeInvalidInput      = "ERR_INVALID_INPUT"
	CodeNotFound          = "ERR_NOT_FOUND"
	CodeConflict          = "ERR_CONFLICT"
	CodeUnauthorized      = "ERR_UNAUTHORIZED"
	CodeForbidden         = "ERR_FORBIDDEN"
	CodeStructural        = "ERR_STRUCTURAL"
	CodeInvalidTransition = "ERR_INVALID_TRANSITION"
	CodeBusy              = "ERR_BUSY"
	CodeInternalError     = "ERR_INTERNAL"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

// Validation is an alias of BadRequest used by domain validators.
func Validation(message string) *AppError {
	return BadRequest(message)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrConflict)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Structural(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeStructural, message, ErrStructural)
}

func InvalidTransition(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeInvalidTransition, message, ErrInvalidTransition)
}

func Busy(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeBusy, message, ErrBusy)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// InternalServerError is a 500 with a client-visible message.
func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// NewError creates a 400 with a custom message wrapping an existing error
func NewError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, CodeBadRequest, message, err)
}

// FromError converts any error into an AppError, mapping bare sentinels to
// their HTTP status.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, err.Error(), err)
	case errors.Is(err, ErrConflict), errors.Is(err, ErrAlreadyExists):
		return NewAppError(http.StatusConflict, CodeConflict, err.Error(), err)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBadRequest):
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, err.Error(), err)
	case errors.Is(err, ErrUnauthorized):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, err.Error(), err)
	case errors.Is(err, ErrForbidden):
		return NewAppError(http.StatusForbidden, CodeForbidden, err.Error(), err)
	case errors.Is(err, ErrStructural):
		return NewAppError(http.StatusUnprocessableEntity, CodeStructural, err.Error(), err)
	case errors.Is(err, ErrInvalidTransition):
		return NewAppError(http.StatusConflict, CodeInvalidTransition, err.Error(), err)
	case errors.Is(err, ErrBusy):
		return NewAppError(http.StatusConflict, CodeBusy, err.Error(), err)
	case errors.Is(err, ErrInvalidToken):
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, err.Error(), err)
	}
	return InternalError(err)
}
