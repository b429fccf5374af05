package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchError(t *testing.T) {
	tests := []struct {
		name     string
		err      *DispatchError
		expected string
	}{
		{
			name: "basic error",
			err: &DispatchError{
				Type:    ErrorTypeUsage,
				Code:    CodeMissingExercise,
				Message: "exercise name is required",
			},
			expected: "[ERR_MISSING_EXERCISE] exercise name is required",
		},
		{
			name: "error with action",
			err: &DispatchError{
				Type:    ErrorTypeDelegate,
				Code:    CodeDelegateFailed,
				Action:  "build",
				Message: "build failed",
			},
			expected: "[ERR_DELEGATE_FAILED] action:build build failed",
		},
		{
			name: "error with cause",
			err: &DispatchError{
				Type:    ErrorTypeDelegate,
				Code:    CodeDelegateFailed,
				Message: "tests failed",
				Cause:   errors.New("exit status 101"),
			},
			expected: "[ERR_DELEGATE_FAILED] tests failed: exit status 101",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDispatchErrorUnwrapAndIs(t *testing.T) {
	cause := errors.New("exit status 2")
	err := NewDelegateError("run", "exercise failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, errors.Is(err, &DispatchError{Type: ErrorTypeDelegate, Code: CodeDelegateFailed}))
	assert.False(t, errors.Is(err, &DispatchError{Type: ErrorTypeUsage, Code: CodeMissingExercise}))

	wrapped := fmt.Errorf("dispatch: %w", err)
	assert.True(t, IsDelegateError(wrapped))
	assert.False(t, IsUsageError(wrapped))
}

func TestUsageClassification(t *testing.T) {
	usage := NewUsageError(CodeMissingExercise, "exercise name is required", "bugspot run <exercise>")
	validation := NewValidationError("invalid exercise name", errors.New("contains dangerous character: ;"))

	assert.True(t, IsUsageError(usage))
	assert.True(t, IsUsageError(validation))
	assert.False(t, IsUsageError(errors.New("plain")))
	assert.Equal(t, "bugspot run <exercise>", HintFor(usage))
	assert.Empty(t, HintFor(errors.New("plain")))
}

func TestBuilders(t *testing.T) {
	err := NewConfigError("unknown profile", nil).WithHint("use cargo or go").WithAction("doc")

	assert.Equal(t, ErrorTypeConfig, err.Type)
	assert.Equal(t, CodeInvalidConfig, err.Code)
	assert.Equal(t, "use cargo or go", err.Hint)
	assert.Equal(t, "doc", err.Action)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitFailure, ExitCode(NewUsageError(CodeMissingExercise, "missing", "")))
	assert.Equal(t, ExitFailure, ExitCode(NewDelegateError("test", "tests failed", errors.New("exit status 2"))))
}
