package services

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a service failure into the stable categories the
// HTTP layer maps onto status codes.
type ErrorCode string

const (
	CodeValidation   ErrorCode = "validation_error"
	CodeConflict     ErrorCode = "conflict"
	CodeInvalidOTP   ErrorCode = "invalid_otp"
	CodeAuth         ErrorCode = "auth_failed"
	CodeInvalidToken ErrorCode = "invalid_token"
	CodeExpiredToken ErrorCode = "expired_token"
	CodeForbidden    ErrorCode = "forbidden"
	CodeNotFound     ErrorCode = "not_found"
	CodeStorage      ErrorCode = "storage_error"
	CodeTransient    ErrorCode = "transient_error"
)

// ServiceError carries a classification plus a user-presentable message.
// Internal causes are preserved for logs via Unwrap but never leak into
// the message.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is matches two service errors by code so sentinel comparisons with
// errors.Is work across wrapping.
func (e *ServiceError) Is(target error) bool {
	var se *ServiceError
	if !errors.As(target, &se) {
		return false
	}
	return e.Code == se.Code && e.Message == se.Message
}

func NewValidationError(message string) *ServiceError {
	return &ServiceError{Code: CodeValidation, Message: message}
}

func NewConflictError(message string) *ServiceError {
	return &ServiceError{Code: CodeConflict, Message: message}
}

func NewStorageError(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeStorage, Message: message, Err: err}
}

func NewTransientError(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeTransient, Message: message, Err: err}
}

// Shared sentinels. Login failures deliberately use one indistinguishable
// message for unknown email and wrong password.
var (
	ErrEmailTaken         = &ServiceError{Code: CodeConflict, Message: "Email already registered"}
	ErrInvalidOTP         = &ServiceError{Code: CodeInvalidOTP, Message: "Invalid or expired OTP"}
	ErrInvalidCredentials = &ServiceError{Code: CodeAuth, Message: "Email or password is incorrect"}
	ErrInvalidToken       = &ServiceError{Code: CodeInvalidToken, Message: "Invalid token"}
	ErrExpiredToken       = &ServiceError{Code: CodeExpiredToken, Message: "Token expired"}
	ErrUserNotFound       = &ServiceError{Code: CodeNotFound, Message: "User not found"}
	ErrMaterialNotFound   = &ServiceError{Code: CodeNotFound, Message: "Material not found"}
	ErrFileNotFound       = &ServiceError{Code: CodeNotFound, Message: "File not found"}
	ErrNotApproved        = &ServiceError{Code: CodeForbidden, Message: "Material not approved yet"}
)

// CodeOf extracts the classification from any error chain; unclassified
// errors count as storage failures so nothing internal leaks verbatim.
func CodeOf(err error) ErrorCode {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeStorage
}

// MessageOf returns the user-presentable message for an error chain
func MessageOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return "Internal server error"
}
