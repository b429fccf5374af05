package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/conneroisu/bugspot/internal/errors"
	"github.com/conneroisu/bugspot/internal/logging"
	"github.com/conneroisu/bugspot/internal/toolchain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// stubRunner records invocations instead of starting processes.
type stubRunner struct {
	mu       sync.Mutex
	calls    []toolchain.Invocation
	exitCode int
}

func (s *stubRunner) Run(_ context.Context, inv toolchain.Invocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, inv)
	if s.exitCode != 0 {
		return &toolchain.ExitError{Code: s.exitCode}
	}
	return nil
}

func (s *stubRunner) Calls() []toolchain.Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]toolchain.Invocation(nil), s.calls...)
}

type result struct {
	err    error
	stdout string
	stderr string
}

func (r result) exitCode() int {
	return errors.ExitCode(r.err)
}

// setupCommandTest isolates viper, flags and the working directory.
func setupCommandTest(t *testing.T) *stubRunner {
	t.Helper()

	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfgFile, logLevel, noColor = "", "warn", false
	listFormat, versionFormat, doctorFormat = "table", "text", "table"
	versionShort, versionDetailed = false, false
	watchVerbose, watchNoInitial = false, false

	runner := &stubRunner{}
	origFactory := runnerFactory
	runnerFactory = func(logging.Logger) toolchain.Runner { return runner }
	t.Cleanup(func() { runnerFactory = origFactory })

	return runner
}

func execute(t *testing.T, args ...string) result {
	t.Helper()

	if args == nil {
		// nil makes cobra fall back to os.Args.
		args = []string{}
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute()
	return result{err: err, stdout: stdout.String(), stderr: stderr.String()}
}

func TestUsageWithoutDelegation(t *testing.T) {
	cases := [][]string{nil, {"help"}, {"frobnicate"}, {"--bogus"}}
	// Short forms of the real commands are not commands.
	for _, tok := range []string{"r", "t", "b", "docs", "l", "ls", "w"} {
		cases = append(cases, []string{tok, "x"})
	}

	for _, args := range cases {
		t.Run(filepath.Join(append([]string{"args"}, args...)...), func(t *testing.T) {
			runner := setupCommandTest(t)

			res := execute(t, args...)

			require.NoError(t, res.err)
			assert.Equal(t, errors.ExitSuccess, res.exitCode())
			assert.Contains(t, res.stdout, "Usage:")
			assert.Empty(t, runner.Calls())
		})
	}
}

func TestRunWithoutExercise(t *testing.T) {
	runner := setupCommandTest(t)

	res := execute(t, "run")

	require.Error(t, res.err)
	assert.Equal(t, errors.ExitFailure, res.exitCode())
	assert.Contains(t, res.stderr, "exercise name is required")
	assert.Contains(t, res.stderr, "bugspot run <exercise>")
	assert.NotContains(t, res.stdout, "exercise name is required")
	assert.Empty(t, runner.Calls())
}

func TestRunDelegates(t *testing.T) {
	runner := setupCommandTest(t)

	res := execute(t, "run", "ownership_basics", "--", "7")

	require.NoError(t, res.err)
	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "cargo", calls[0].Binary)
	assert.Equal(t, []string{"run", "--bin", "ownership_basics", "--", "7"}, calls[0].Args)
	assert.Contains(t, res.stdout, "Exercise ownership_basics completed successfully")
}

func TestRunFailurePropagates(t *testing.T) {
	runner := setupCommandTest(t)
	runner.exitCode = 101

	res := execute(t, "run", "concurrency_basics")

	require.Error(t, res.err)
	assert.Equal(t, errors.ExitFailure, res.exitCode())
	assert.Len(t, runner.Calls(), 1)
	assert.Contains(t, res.stderr, "exercise concurrency_basics failed")
	assert.NotContains(t, res.stdout, "completed successfully")
}

func TestRunRejectsMetacharacters(t *testing.T) {
	runner := setupCommandTest(t)

	res := execute(t, "run", "foo;rm")

	require.Error(t, res.err)
	assert.True(t, errors.IsUsageError(res.err))
	assert.Empty(t, runner.Calls())
}

func TestTestCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"full suite", []string{"test"}, []string{"test"}},
		{"filtered", []string{"test", "ownership"}, []string{"test", "ownership"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := setupCommandTest(t)

			res := execute(t, tt.args...)

			require.NoError(t, res.err)
			calls := runner.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tt.want, calls[0].Args)
		})
	}
}

func TestTestFailurePropagates(t *testing.T) {
	runner := setupCommandTest(t)
	runner.exitCode = 1

	res := execute(t, "test", "concurrency")

	assert.Equal(t, errors.ExitFailure, res.exitCode())
	assert.Len(t, runner.Calls(), 1)
}

func TestBuildAndDoc(t *testing.T) {
	for _, tc := range []struct {
		command string
		want    []string
	}{
		{"build", []string{"build"}},
		{"doc", []string{"doc", "--open"}},
	} {
		t.Run(tc.command, func(t *testing.T) {
			runner := setupCommandTest(t)

			res := execute(t, tc.command)
			require.NoError(t, res.err)
			require.Len(t, runner.Calls(), 1)
			assert.Equal(t, tc.want, runner.Calls()[0].Args)

			runner.exitCode = 1
			res = execute(t, tc.command)
			assert.Equal(t, errors.ExitFailure, res.exitCode())
		})
	}
}

func TestCleanIgnoresFailureByDefault(t *testing.T) {
	runner := setupCommandTest(t)
	runner.exitCode = 1

	res := execute(t, "clean")

	require.NoError(t, res.err)
	assert.Len(t, runner.Calls(), 1)
	assert.Contains(t, res.stdout, "Clean reported a problem")
	assert.Contains(t, res.stdout, "Build artifacts cleaned")
}

func TestCleanStrictFromEnvironment(t *testing.T) {
	runner := setupCommandTest(t)
	runner.exitCode = 1
	t.Setenv("BUGSPOT_CLEAN_STRICT", "true")

	res := execute(t, "clean")

	assert.Equal(t, errors.ExitFailure, res.exitCode())
	assert.Len(t, runner.Calls(), 1)
}

func TestConfigFileSelectsProfile(t *testing.T) {
	runner := setupCommandTest(t)
	require.NoError(t, os.WriteFile(".bugspot.yml", []byte("toolchain:\n  profile: go\n  binary: go1.24\n"), 0o644))

	res := execute(t, "build")

	require.NoError(t, res.err)
	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "go1.24", calls[0].Binary)
	assert.Equal(t, []string{"build", "./..."}, calls[0].Args)
}

func TestInvalidConfigFails(t *testing.T) {
	runner := setupCommandTest(t)
	t.Setenv("BUGSPOT_TOOLCHAIN_PROFILE", "maven")

	res := execute(t, "build")

	assert.Equal(t, errors.ExitFailure, res.exitCode())
	assert.Contains(t, res.stderr, "failed to load configuration")
	assert.Empty(t, runner.Calls())
}

func TestListFormats(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		runner := setupCommandTest(t)

		res := execute(t, "list")

		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "Ownership Borrowing")
		assert.Contains(t, res.stdout, "memory_management_fixed")
		assert.Empty(t, runner.Calls())
	})

	t.Run("json", func(t *testing.T) {
		setupCommandTest(t)

		res := execute(t, "list", "--format", "json")
		require.NoError(t, res.err)

		var entries []listEntry
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &entries))
		require.Len(t, entries, 5)
		assert.Equal(t, "ownership", entries[0].Filter)
		assert.Len(t, entries[0].Exercises, 2)
	})

	t.Run("yaml", func(t *testing.T) {
		setupCommandTest(t)

		res := execute(t, "list", "-f", "yaml")
		require.NoError(t, res.err)

		var entries []listEntry
		require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &entries))
		assert.Len(t, entries, 5)
	})

	t.Run("bad format", func(t *testing.T) {
		setupCommandTest(t)

		res := execute(t, "list", "--format", "csv")
		assert.Equal(t, errors.ExitFailure, res.exitCode())
	})
}

func TestListIgnoresBrokenConfig(t *testing.T) {
	setupCommandTest(t)
	t.Setenv("BUGSPOT_TOOLCHAIN_PROFILE", "maven")

	res := execute(t, "list")

	require.NoError(t, res.err)
}

func TestVersionCommand(t *testing.T) {
	setupCommandTest(t)

	res := execute(t, "version", "--short")
	require.NoError(t, res.err)
	assert.NotEmpty(t, res.stdout)

	res = execute(t, "version", "--format", "json")
	require.NoError(t, res.err)
	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")
}

func TestDoctor(t *testing.T) {
	t.Run("tool present", func(t *testing.T) {
		setupCommandTest(t)
		stubLookPath(t, nil)

		res := execute(t, "doctor")

		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "cargo (profile cargo) at /usr/bin/cargo")
	})

	t.Run("tool missing", func(t *testing.T) {
		setupCommandTest(t)
		stubLookPath(t, toolchain.ErrToolNotFound)

		res := execute(t, "doctor", "--format", "json")

		assert.Equal(t, errors.ExitFailure, res.exitCode())
		var report DoctorReport
		require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
		assert.Equal(t, "cargo", report.Profile)
		assert.Equal(t, 1, countStatus(report.Results, statusError))
	})
}

func stubLookPath(t *testing.T, err error) {
	t.Helper()
	orig := lookPath
	lookPath = func(binary string) (string, error) {
		if err != nil {
			return "", err
		}
		return "/usr/bin/" + binary, nil
	}
	t.Cleanup(func() { lookPath = orig })
}
