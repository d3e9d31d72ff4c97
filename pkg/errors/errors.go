package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Base error kinds surfaced at the HTTP boundary
var (
	ErrInternalServer     = errors.New("internal server error")
	ErrNotFound           = errors.New("resource not found")
	ErrBadRequest         = errors.New("bad request")
	ErrPrecondition       = errors.New("precondition failed")
	ErrValidation         = errors.New("validation error")
	ErrTimeout            = errors.New("request timeout")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// AppError represents an application error with its HTTP mapping
type AppError struct {
	Err        error
	StatusCode int
	Message    string
	Code       string
	Data       interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(err error, statusCode int, message, code string, data interface{}) *AppError {
	return &AppError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
		Data:       data,
	}
}

// FromError converts a plain error into an AppError
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(err, http.StatusNotFound, "Resource not found", "not_found", nil)
	case errors.Is(err, ErrBadRequest):
		return NewAppError(err, http.StatusBadRequest, "Bad request", "bad_request", nil)
	case errors.Is(err, ErrPrecondition):
		return NewAppError(err, http.StatusConflict, "Precondition failed", "precondition_failed", nil)
	case errors.Is(err, ErrValidation):
		return NewAppError(err, http.StatusBadRequest, "Validation error", "validation_error", nil)
	case errors.Is(err, ErrTimeout):
		return NewAppError(err, http.StatusRequestTimeout, "Request timeout", "request_timeout", nil)
	case errors.Is(err, ErrServiceUnavailable):
		return NewAppError(err, http.StatusServiceUnavailable, "Service unavailable", "service_unavailable", nil)
	default:
		return NewAppError(err, http.StatusInternalServerError, "Internal server error", "internal_error", nil)
	}
}

// Error wraps an error with a message
func Error(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// NotFound creates a 404 Not Found error
func NotFound(entity string, id interface{}) *AppError {
	msg := fmt.Sprintf("%s with ID %v not found", entity, id)
	return NewAppError(ErrNotFound, http.StatusNotFound, msg, "not_found", nil)
}

// BadRequest creates a 400 Bad Request error
func BadRequest(message string) *AppError {
	return NewAppError(ErrBadRequest, http.StatusBadRequest, message, "bad_request", nil)
}

// Precondition creates a 409 Conflict error for an unmet business precondition
func Precondition(message string) *AppError {
	if message == "" {
		message = "A business precondition for this operation is not met"
	}
	return NewAppError(ErrPrecondition, http.StatusConflict, message, "precondition_failed", nil)
}

// ValidationError creates a 400 Bad Request error carrying per-field details
func ValidationError(data interface{}) *AppError {
	return NewAppError(ErrValidation, http.StatusBadRequest, "Validation failed", "validation_error", data)
}

// InternalServer creates a 500 Internal Server Error
func InternalServer(err error) *AppError {
	return NewAppError(err, http.StatusInternalServerError, "Internal server error", "internal_error", nil)
}

// ServiceUnavailable creates a 503 Service Unavailable error
func ServiceUnavailable(message string) *AppError {
	if message == "" {
		message = "Service is temporarily unavailable"
	}
	return NewAppError(ErrServiceUnavailable, http.StatusServiceUnavailable, message, "service_unavailable", nil)
}
