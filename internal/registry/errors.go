package registry

import (
	"errors"
	"fmt"
)

// UserError represents errors from user registry operations
type UserError struct {
	Type    string
	Message string
	Cause   error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("user error [%s]: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("user error [%s]: %s", e.Type, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// User error types
const (
	UserErrorTypeValidation = "validation_failed"
	UserErrorTypeDuplicate  = "already_exists"
	UserErrorTypeNotFound   = "not_found"
	UserErrorTypeStore      = "store_failure"
)

// NewMissingFieldError creates an error for a payload missing name or email
func NewMissingFieldError() *UserError {
	return &UserError{
		Type:    UserErrorTypeValidation,
		Message: "Name and Email are required",
	}
}

// NewInvalidEmailError creates an error for a malformed email address
func NewInvalidEmailError(email string) *UserError {
	return &UserError{
		Type:    UserErrorTypeValidation,
		Message: "Please add a valid email",
		Cause:   fmt.Errorf("email %q does not match the expected pattern", email),
	}
}

// NewDuplicateUserError creates an error for an email that is already registered
func NewDuplicateUserError(email string) *UserError {
	return &UserError{
		Type:    UserErrorTypeDuplicate,
		Message: "User already exists",
		Cause:   fmt.Errorf("email %q is already registered", email),
	}
}

// NewUserNotFoundError creates an error for an unknown user id
func NewUserNotFoundError(id string) *UserError {
	return &UserError{
		Type:    UserErrorTypeNotFound,
		Message: "User not found",
		Cause:   fmt.Errorf("no user with id %q", id),
	}
}

// NewStoreError wraps a storage or connectivity fault
func NewStoreError(op string, cause error) *UserError {
	return &UserError{
		Type:    UserErrorTypeStore,
		Message: fmt.Sprintf("failed to %s", op),
		Cause:   cause,
	}
}

func isUserErrorType(err error, errType string) bool {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Type == errType
	}
	return false
}

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool { return isUserErrorType(err, UserErrorTypeValidation) }

// IsDuplicate reports whether err is a uniqueness conflict
func IsDuplicate(err error) bool { return isUserErrorType(err, UserErrorTypeDuplicate) }

// IsNotFound reports whether err is an unknown-id failure
func IsNotFound(err error) bool { return isUserErrorType(err, UserErrorTypeNotFound) }
