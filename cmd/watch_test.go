package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/conneroisu/bugspot/internal/config"
	"github.com/conneroisu/bugspot/internal/dispatch"
	"github.com/conneroisu/bugspot/internal/errors"
	"github.com/conneroisu/bugspot/internal/logging"
	"github.com/conneroisu/bugspot/internal/toolchain"
	"github.com/conneroisu/bugspot/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer guards the printer output written from the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newWatchSession(t *testing.T, runner toolchain.Runner, paths ...string) (*session, *syncBuffer) {
	t.Helper()

	profile, err := toolchain.Builtin(toolchain.ProfileCargo)
	require.NoError(t, err)

	out := &syncBuffer{}
	printer := ui.NewPrinter(out, ui.ColorNever)
	logger := logging.NewNopLogger()

	return &session{
		cfg: &config.Config{
			Watch: config.WatchConfig{
				Paths:      paths,
				Extensions: []string{".rs"},
				Debounce:   20 * time.Millisecond,
			},
		},
		printer: printer,
		logger:  logger,
		dispatcher: dispatch.New(dispatch.Options{
			Runner:  runner,
			Profile: profile,
			Printer: printer,
			Logger:  logger,
		}),
	}, out
}

func TestWatchWithoutRoots(t *testing.T) {
	watchNoInitial = false
	runner := &stubRunner{}
	s, out := newWatchSession(t, runner, filepath.Join(t.TempDir(), "missing"))

	err := watchAndTest(context.Background(), s, "")

	require.Error(t, err)
	assert.Equal(t, errors.ExitFailure, errors.ExitCode(err))
	assert.Contains(t, out.String(), "Not watching")
	assert.Empty(t, runner.Calls())
}

func TestWatchRunsTestsOnChange(t *testing.T) {
	watchNoInitial, watchVerbose = false, false
	dir := t.TempDir()
	runner := &stubRunner{exitCode: 1}
	s, out := newWatchSession(t, runner, dir)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchAndTest(ctx, s, "ownership") }()

	// The initial run fails; watching continues regardless.
	require.Eventually(t, func() bool { return len(runner.Calls()) == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching")
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.rs"), []byte("fn main() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored\n"), 0o644))

	require.Eventually(t, func() bool { return len(runner.Calls()) == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	for _, call := range runner.Calls() {
		assert.Equal(t, []string{"test", "ownership"}, call.Args)
	}
	assert.Contains(t, out.String(), "tests matching ownership failed")
}

func TestWatchSkipsInitialRun(t *testing.T) {
	watchNoInitial = true
	t.Cleanup(func() { watchNoInitial = false })

	runner := &stubRunner{}
	s, _ := newWatchSession(t, runner, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, watchAndTest(ctx, s, ""))
	assert.Empty(t, runner.Calls())
}
