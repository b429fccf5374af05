package cmd

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile every exercise",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build artifacts",
	Long: `Remove build artifacts through the build tool.

A failed clean is reported as a warning and bugspot still exits 0.
Set clean.strict: true in .bugspot.yml to exit 1 instead.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Generate and open the documentation",
	Args:  cobra.NoArgs,
	RunE:  runDoc,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(docCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	return s.dispatcher.Build(cmd.Context())
}

func runClean(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	return s.dispatcher.Clean(cmd.Context())
}

func runDoc(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	return s.dispatcher.Doc(cmd.Context())
}
