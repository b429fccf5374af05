package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/conneroisu/bugspot/internal/errors"
	"github.com/conneroisu/bugspot/internal/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [category]",
	Short: "Re-run tests whenever exercise sources change",
	Long: `Watch the configured source directories and re-run the tests after
every burst of changes. Failed runs are reported and watching continues
until interrupted.

Examples:
  bugspot watch                # Re-run the full suite on change
  bugspot watch concurrency    # Re-run only the concurrency tests
  bugspot watch --no-initial   # Wait for the first change`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return categoryKeys(), cobra.ShellCompDirectiveNoFileComp
	},
}

var (
	watchVerbose   bool
	watchNoInitial bool
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "List every changed file")
	watchCmd.Flags().BoolVar(&watchNoInitial, "no-initial", false, "Skip the test run at startup")
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	var category string
	if len(args) > 0 {
		category = args[0]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchAndTest(ctx, s, category)
}

// watchAndTest blocks until ctx is cancelled.
func watchAndTest(ctx context.Context, s *session, category string) error {
	fileWatcher, err := watcher.NewFileWatcher(s.cfg.Watch.Debounce, s.logger)
	if err != nil {
		return errors.NewConfigError("failed to create file watcher", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddFilter(watcher.ExtensionFilter(s.cfg.Watch.Extensions))
	fileWatcher.AddFilter(watcher.NoEditorTempFilter)

	missing, err := fileWatcher.WatchRoots(s.cfg.Watch.Paths)
	for _, path := range missing {
		s.printer.Warn("Not watching %s: directory does not exist", path)
	}
	if err != nil {
		if stderrors.Is(err, watcher.ErrNoRoots) {
			return errors.NewConfigError("nothing to watch", err).
				WithHint(fmt.Sprintf("create one of %v or set watch.paths in .bugspot.yml", s.cfg.Watch.Paths))
		}
		return errors.NewConfigError("failed to watch sources", err)
	}

	runTests := func(ctx context.Context) {
		// A failure is shown and watching goes on.
		if err := s.dispatcher.Test(ctx, category); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn(ctx, err, "Test run failed", "category", category)
			printDiagnostic(s.printer.Writer(), err)
		}
	}

	fileWatcher.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		if watchVerbose {
			s.printer.Info("%d file(s) changed:", len(events))
			for _, event := range events {
				s.printer.Item(event.Path, event.Type.String())
			}
		} else {
			s.printer.Info("%d file(s) changed", len(events))
		}
		runTests(ctx)
		return nil
	})

	if !watchNoInitial {
		runTests(ctx)
	}

	fileWatcher.Start(ctx)
	s.printer.Info("Watching %d director(ies) for changes (Ctrl+C to stop)", len(fileWatcher.WatchedPaths()))

	<-ctx.Done()
	s.printer.Plain("")
	s.printer.Info("Stopping watcher")
	_ = fileWatcher.Stop()
	fileWatcher.Wait()
	return nil
}
