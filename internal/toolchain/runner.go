package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/conneroisu/bugspot/internal/logging"
)

// ErrToolNotFound is returned when the profile's binary is not on PATH.
var ErrToolNotFound = errors.New("build tool not found")

// Invocation is one fully expanded delegate call.
type Invocation struct {
	Action Action
	Binary string
	Args   []string
	Dir    string
	Env    []string
}

// String renders the invocation as a shell-like command line for display.
func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Binary}, inv.Args...), " ")
}

// ExitError reports a delegate that ran and exited non-zero.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// Runner executes delegate invocations. Run blocks until the delegate exits.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// ExecRunner runs invocations as child processes, streaming their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Logger logging.Logger
}

// NewExecRunner creates a runner wired to the process's standard streams.
func NewExecRunner(logger logging.Logger) *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		Logger: logger.WithComponent("runner"),
	}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) error {
	path, err := exec.LookPath(inv.Binary)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrToolNotFound, inv.Binary)
	}

	cmd := exec.CommandContext(ctx, path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Stdin = r.Stdin
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}

	if r.Logger != nil {
		env := make([]string, len(inv.Env))
		for i, e := range inv.Env {
			env[i] = logging.SanitizeForLog(e)
		}
		r.Logger.Debug(ctx, "Starting delegate",
			"action", string(inv.Action),
			"path", path,
			"args", inv.Args,
			"dir", inv.Dir,
			"env", env,
		)
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to start %s: %w", inv.Binary, err)
	}

	return nil
}

// LookPath resolves the binary of a profile.
func LookPath(binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, binary)
	}
	return path, nil
}
