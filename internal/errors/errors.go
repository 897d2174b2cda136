package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a kcal error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// KcalError represents a structured error with code, status, and details.
type KcalError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *KcalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *KcalError) Unwrap() error {
	return e.Err
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *KcalError {
	return &KcalError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewMissingField creates a 400 error for a required field that was not supplied.
func NewMissingField(field string) *KcalError {
	return &KcalError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: fmt.Sprintf("%s is required", field),
		Details: map[string]any{"field": field},
	}
}

// NewNotFound creates a 404 error for an unknown resource.
func NewNotFound(identifier string) *KcalError {
	return &KcalError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *KcalError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &KcalError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		Err:     err,
	}
}

// Is checks if an error is (or wraps) a KcalError with the given code.
func Is(err error, code ErrorCode) bool {
	var kErr *KcalError
	if stderrors.As(err, &kErr) {
		return kErr.Code == code
	}
	return false
}

// As returns err as a KcalError, wrapping unknown errors as INTERNAL.
func As(err error) *KcalError {
	var kErr *KcalError
	if stderrors.As(err, &kErr) {
		return kErr
	}
	return NewInternal(err)
}
