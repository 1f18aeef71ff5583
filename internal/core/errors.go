// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Archive errors
	ErrArchiveOpen       = &Error{Code: "ARCHIVE_OPEN_FAILED", Message: "archive could not be opened"}
	ErrArchiveCorrupt    = &Error{Code: "ARCHIVE_CORRUPT", Message: "archive is corrupt"}
	ErrNamespaceNotFound = &Error{Code: "NAMESPACE_NOT_FOUND", Message: "namespace not found"}
	ErrOffsetOutOfRange  = &Error{Code: "OFFSET_OUT_OF_RANGE", Message: "offset out of range"}

	// Lookup errors
	ErrArticleNotFound      = &Error{Code: "ARTICLE_NOT_FOUND", Message: "article not found"}
	ErrRedirectLoopExceeded = &Error{Code: "REDIRECT_LOOP_EXCEEDED", Message: "redirect chain too long"}

	// Accessor errors
	ErrNotBound = &Error{Code: "NOT_BOUND", Message: "no archive loaded"}

	// API errors
	ErrUnauthorized = &Error{Code: "UNAUTHORIZED", Message: "missing or invalid api key"}
	ErrBadRequest   = &Error{Code: "BAD_REQUEST", Message: "malformed request"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
