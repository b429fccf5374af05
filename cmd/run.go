package cmd

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <exercise> [-- args...]",
	Short: "Build and run one exercise",
	Long: `Build and run the binary of a single exercise. Arguments after the
exercise name are forwarded to the exercise.

Examples:
  bugspot run ownership_basics         # Run the buggy ownership exercise
  bugspot run ownership_basics_fixed   # Run its corrected twin
  bugspot run concurrency_basics -- 8  # Forward "8" to the exercise`,
	// The missing-name case is reported by the dispatcher, with a hint.
	Args: cobra.ArbitraryArgs,
	RunE: runRun,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return exerciseNames(), cobra.ShellCompDirectiveNoFileComp
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	var name string
	var programArgs []string
	if len(args) > 0 {
		name = args[0]
		programArgs = args[1:]
	}

	return s.dispatcher.Run(cmd.Context(), name, programArgs)
}
