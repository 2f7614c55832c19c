// Package apperr defines the typed failures the core operations report to the
// presentation layer. Every business error carries a stable code and a message
// that names the offending field or constraint.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION"
	CodeNotFound          Code = "NOT_FOUND"
	CodeDuplicateID       Code = "DUPLICATE_ID"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeAuthentication    Code = "AUTHENTICATION"
	CodeAuthorization     Code = "AUTHORIZATION"
	CodePersistence       Code = "PERSISTENCE"
)

type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func Validation(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func DuplicateID(format string, args ...any) *Error {
	return &Error{Code: CodeDuplicateID, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStock(format string, args ...any) *Error {
	return &Error{Code: CodeInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

// Authentication returns the single generic credential error. The message is
// identical for an unknown username and a wrong password so a caller can never
// tell which factor failed.
func Authentication() *Error {
	return &Error{Code: CodeAuthentication, Message: "invalid username or password"}
}

func Authorization(format string, args ...any) *Error {
	return &Error{Code: CodeAuthorization, Message: fmt.Sprintf(format, args...)}
}

// Persistence wraps an underlying store failure. The cause stays reachable
// through errors.Unwrap for logging; callers match on the code.
func Persistence(cause error, format string, args ...any) *Error {
	return &Error{Code: CodePersistence, Message: fmt.Sprintf(format, args...), cause: cause}
}

// CodeOf extracts the application error code from err, or "" if err is not an
// *Error anywhere in its chain.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
