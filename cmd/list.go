package cmd

import (
	"encoding/json"
	"io"

	"github.com/conneroisu/bugspot/internal/catalog"
	"github.com/conneroisu/bugspot/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List exercise categories and exercises",
	Long: `List every exercise category with its buggy and fixed exercises.
Nothing is built or run.

Examples:
  bugspot list              # Colourised listing
  bugspot list -f json      # Output as JSON
  bugspot list --format yaml`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listFormat string

func init() {
	rootCmd.AddCommand(listCmd)

	addFormatFlag(listCmd, &listFormat, "table", "json", "yaml")
}

// listEntry is the machine-readable form of a category.
type listEntry struct {
	Category  string             `json:"category" yaml:"category"`
	Title     string             `json:"title" yaml:"title"`
	Filter    string             `json:"filter" yaml:"filter"`
	Suite     string             `json:"suite" yaml:"suite"`
	Exercises []catalog.Exercise `json:"exercises" yaml:"exercises"`
}

func runList(cmd *cobra.Command, args []string) error {
	categories := catalog.Categories()
	out := cmd.OutOrStdout()

	switch listFormat {
	case "json":
		return outputListJSON(out, categories)
	case "yaml":
		return outputListYAML(out, categories)
	default:
		// list never fails on a broken config; it only needs the colour mode.
		printer := ui.NewPrinter(out, colorMode(viper.GetString("output.color")))
		outputListTable(printer, categories)
		return nil
	}
}

func listEntries(categories []catalog.Category) []listEntry {
	entries := make([]listEntry, len(categories))
	for i, c := range categories {
		entries[i] = listEntry{
			Category:  c.Dir,
			Title:     c.Title(),
			Filter:    c.Key,
			Suite:     c.Suite,
			Exercises: c.Exercises,
		}
	}
	return entries
}

func outputListJSON(out io.Writer, categories []catalog.Category) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(listEntries(categories))
}

func outputListYAML(out io.Writer, categories []catalog.Category) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(listEntries(categories))
}

func outputListTable(printer *ui.Printer, categories []catalog.Category) {
	printer.Title("Available exercises")
	for _, c := range categories {
		printer.Plain("")
		printer.Info("%s (bugspot test %s)", c.Title(), c.Key)
		for _, ex := range c.Exercises {
			printer.Item(ex.Name, ex.Summary)
		}
	}
	printer.Plain("")
	printer.Hint("%d exercises in %d categories. Run one with: bugspot run <exercise>", len(catalog.Exercises()), len(categories))
}
