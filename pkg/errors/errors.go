package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the single error shape rendered at the HTTP boundary.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// Is matches on the error code so copies made by WithInternal still compare equal
// to their sentinel.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code
}

// Common errors exposed to the rest of the application.
var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrInternalServer = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "internal server error",
		StatusCode: http.StatusInternalServerError,
	}

	// The ask endpoint reports every failure as a 500, malformed input included.
	ErrMalformedRequest = &AppError{
		Code:       "MALFORMED_REQUEST",
		Message:    "request body must be a JSON object",
		StatusCode: http.StatusInternalServerError,
	}

	ErrQuestionRequired = &AppError{
		Code:       "QUESTION_REQUIRED",
		Message:    "question is required",
		StatusCode: http.StatusInternalServerError,
	}

	ErrCompletionFailed = &AppError{
		Code:       "COMPLETION_FAILED",
		Message:    "completion failed",
		StatusCode: http.StatusInternalServerError,
	}

	ErrStoreFailed = &AppError{
		Code:       "STORE_FAILED",
		Message:    "saving query failed",
		StatusCode: http.StatusInternalServerError,
	}
)

// New builds a new application error with the provided metadata.
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap turns any error into a 500 AppError while keeping the original error.
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   err,
	}
}

// FromError converts a generic error into an AppError, defaulting to ErrInternalServer.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternalServer.WithInternal(err)
}

// NewBadRequest wraps validation errors with a helpful message.
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:       ErrBadRequest.Code,
		Message:    message,
		StatusCode: ErrBadRequest.StatusCode,
	}
}
