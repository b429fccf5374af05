package cmd

import (
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test [category]",
	Short: "Run the test suite, optionally for one category",
	Long: `Run every test, or only the tests whose names match a category.

Examples:
  bugspot test               # Run the full suite
  bugspot test ownership     # Run the ownership tests
  bugspot test concurrency   # Run the concurrency tests`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTest,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return categoryKeys(), cobra.ShellCompDirectiveNoFileComp
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	var category string
	if len(args) > 0 {
		category = args[0]
	}

	return s.dispatcher.Test(cmd.Context(), category)
}
