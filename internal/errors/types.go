package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeUsage      ErrorType = "usage"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeDelegate   ErrorType = "delegate"
	ErrorTypeConfig     ErrorType = "config"
)

// Exit codes returned by the bugspot binary.
const (
	// ExitSuccess indicates the delegated action (or list/help) succeeded.
	ExitSuccess = 0

	// ExitFailure indicates a usage error or a failed delegated action.
	ExitFailure = 1
)

// Error codes.
const (
	CodeMissingExercise = "ERR_MISSING_EXERCISE"
	CodeInvalidArgument = "ERR_INVALID_ARGUMENT"
	CodeDelegateFailed  = "ERR_DELEGATE_FAILED"
	CodeToolNotFound    = "ERR_TOOL_NOT_FOUND"
	CodeInvalidConfig   = "ERR_INVALID_CONFIG"
)

// DispatchError is a structured error raised while dispatching a subcommand.
type DispatchError struct {
	Type    ErrorType
	Code    string
	Message string
	Hint    string
	Action  string
	Cause   error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Action != "" {
		parts = append(parts, "action:"+e.Action)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *DispatchError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison on type and code.
func (e *DispatchError) Is(target error) bool {
	var t *DispatchError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithHint attaches a short remediation hint.
func (e *DispatchError) WithHint(hint string) *DispatchError {
	e.Hint = hint

	return e
}

// WithAction records which delegated action produced the error.
func (e *DispatchError) WithAction(action string) *DispatchError {
	e.Action = action

	return e
}

// NewUsageError creates a usage error. No delegation happens after one.
func NewUsageError(code, message, hint string) *DispatchError {
	return &DispatchError{
		Type:    ErrorTypeUsage,
		Code:    code,
		Message: message,
		Hint:    hint,
	}
}

// NewValidationError creates a validation error for a rejected argument.
func NewValidationError(message string, cause error) *DispatchError {
	return &DispatchError{
		Type:    ErrorTypeValidation,
		Code:    CodeInvalidArgument,
		Message: message,
		Cause:   cause,
	}
}

// NewDelegateError wraps a failure reported by the external build tool.
func NewDelegateError(action, message string, cause error) *DispatchError {
	return &DispatchError{
		Type:    ErrorTypeDelegate,
		Code:    CodeDelegateFailed,
		Action:  action,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *DispatchError {
	return &DispatchError{
		Type:    ErrorTypeConfig,
		Code:    CodeInvalidConfig,
		Message: message,
		Cause:   cause,
	}
}

// Type checking functions

// IsUsageError reports whether err is a usage or validation error.
func IsUsageError(err error) bool {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Type == ErrorTypeUsage || de.Type == ErrorTypeValidation
	}

	return false
}

// IsDelegateError reports whether err came from the external build tool.
func IsDelegateError(err error) bool {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Type == ErrorTypeDelegate
	}

	return false
}

// HintFor returns the hint attached to err, if any.
func HintFor(err error) string {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Hint
	}

	return ""
}

// ExitCode maps an error returned by a command onto the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	return ExitFailure
}
