package cmd

import (
	"fmt"
	"strings"

	"github.com/conneroisu/bugspot/internal/catalog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// enumValue is a string flag restricted to a fixed set of values, so a bad
// --format is rejected while flags are parsed.
type enumValue struct {
	target  *string
	allowed []string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnumValue(target *string, def string, allowed ...string) *enumValue {
	*target = def
	return &enumValue{target: target, allowed: allowed}
}

func (e *enumValue) String() string {
	if e.target == nil {
		return ""
	}
	return *e.target
}

func (e *enumValue) Set(val string) error {
	val = strings.ToLower(strings.TrimSpace(val))
	for _, a := range e.allowed {
		if val == a {
			*e.target = val
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", strings.Join(e.allowed, ", "))
}

func (e *enumValue) Type() string {
	return "string"
}

// addFormatFlag registers --format/-f with the given choices. The first
// choice is the default.
func addFormatFlag(cmd *cobra.Command, target *string, choices ...string) {
	cmd.Flags().VarP(newEnumValue(target, choices[0], choices...), "format", "f",
		fmt.Sprintf("Output format (%s)", strings.Join(choices, ", ")))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(choices, cobra.ShellCompDirectiveNoFileComp))
}

func exerciseNames() []string {
	return catalog.Exercises()
}

func categoryKeys() []string {
	categories := catalog.Categories()
	keys := make([]string, 0, len(categories))
	for _, c := range categories {
		keys = append(keys, c.Key)
	}
	return keys
}
