package service

import (
	"errors"

	"github.com/userdir/userdir/internal/validation"
)

// Service errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// ValidationError reports a user payload that broke a field rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(err *validation.Error) *ValidationError {
	return &ValidationError{Field: err.Field, Message: err.Message}
}

// BadRequestError reports a malformed path or query parameter.
type BadRequestError struct {
	Param   string
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}
