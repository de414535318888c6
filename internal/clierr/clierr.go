// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// optional details, and optionally the underlying cause.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error code constants: uppercase, underscore-separated, stable across minor versions.
const (
	// Form validation.
	EmptyTitle      = "EMPTY_TITLE"
	PastDueDate     = "PAST_DUE_DATE"
	DuplicateTitle  = "DUPLICATE_TITLE"
	InvalidTime     = "INVALID_TIME"
	InvalidReminder = "INVALID_REMINDER"
	InvalidRepeat   = "INVALID_REPEAT"

	// Remote store.
	SaveFailed = "SAVE_FAILED"
	StoreError = "STORE_ERROR"

	// Local session.
	NotLoggedIn        = "NOT_LOGGED_IN"
	InvalidCredentials = "INVALID_CREDENTIALS"
	UserExists         = "USER_EXISTS"
	ParseError         = "PARSE_ERROR"

	// General input.
	TaskNotFound    = "TASK_NOT_FOUND"
	InvalidInput    = "INVALID_INPUT"
	InvalidDate     = "INVALID_DATE"
	InvalidTaskID   = "INVALID_TASK_ID"
	InvalidView     = "INVALID_VIEW"
	NoChanges       = "NO_CHANGES"
	ConfirmationReq = "CONFIRMATION_REQUIRED"
	InternalError   = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that keeps err as its cause.
func Wrap(code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}

// SilentError signals an exit code without additional output.
// Used by batch operations where results are already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
