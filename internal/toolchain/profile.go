// Package toolchain describes the external build tool bugspot delegates to
// and runs it. A Profile maps every Action onto an argv template; a Runner
// executes the expanded Invocation.
package toolchain

import (
	"fmt"
	"sort"
	"strings"
)

// Action is one delegated operation.
type Action string

const (
	ActionRun   Action = "run"
	ActionTest  Action = "test"
	ActionBuild Action = "build"
	ActionClean Action = "clean"
	ActionDoc   Action = "doc"
)

// Actions lists every action in display order.
var Actions = []Action{ActionRun, ActionTest, ActionBuild, ActionClean, ActionDoc}

// ParseAction parses an action name.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Template placeholders.
const (
	PlaceholderName   = "{name}"
	PlaceholderFilter = "{filter}"
)

// templateKeyTestFilter addresses the filtered test template in overrides.
const templateKeyTestFilter = "test_filter"

// Profile is a build tool and the argv it takes for each action.
type Profile struct {
	Name   string
	Binary string

	Run        []string
	Test       []string
	TestFilter []string
	Build      []string
	Clean      []string
	Doc        []string

	// ArgSeparator is inserted between the run template and the program's
	// own arguments. Empty means arguments are appended directly.
	ArgSeparator string
}

// Vars are the values substituted into a template.
type Vars struct {
	Name    string
	Filter  string
	RunArgs []string
}

// Built-in profile names.
const (
	ProfileCargo = "cargo"
	ProfileGo    = "go"
)

var builtins = map[string]Profile{
	ProfileCargo: {
		Name:         ProfileCargo,
		Binary:       "cargo",
		Run:          []string{"run", "--bin", PlaceholderName},
		Test:         []string{"test"},
		TestFilter:   []string{"test", PlaceholderFilter},
		Build:        []string{"build"},
		Clean:        []string{"clean"},
		Doc:          []string{"doc", "--open"},
		ArgSeparator: "--",
	},
	ProfileGo: {
		Name:       ProfileGo,
		Binary:     "go",
		Run:        []string{"run", "./exercises/" + PlaceholderName},
		Test:       []string{"test", "./..."},
		TestFilter: []string{"test", "./...", "-run", PlaceholderFilter},
		Build:      []string{"build", "./..."},
		Clean:      []string{"clean", "-cache", "-testcache"},
		Doc:        []string{"doc", "-all"},
	},
}

// Builtin returns a copy of the named built-in profile.
func Builtin(name string) (Profile, error) {
	p, ok := builtins[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown toolchain profile %q (available: %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	return p.clone(), nil
}

// BuiltinNames returns the built-in profile names, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Override replaces one action's template. Valid keys are the action names
// plus "test_filter".
func (p *Profile) Override(key string, template []string) error {
	if len(template) == 0 {
		return fmt.Errorf("template for %q is empty", key)
	}

	tmpl := append([]string(nil), template...)

	switch key {
	case string(ActionRun):
		if !containsPlaceholder(tmpl, PlaceholderName) {
			return fmt.Errorf("run template must contain %s", PlaceholderName)
		}
		p.Run = tmpl
	case string(ActionTest):
		p.Test = tmpl
	case templateKeyTestFilter:
		if !containsPlaceholder(tmpl, PlaceholderFilter) {
			return fmt.Errorf("test_filter template must contain %s", PlaceholderFilter)
		}
		p.TestFilter = tmpl
	case string(ActionBuild):
		p.Build = tmpl
	case string(ActionClean):
		p.Clean = tmpl
	case string(ActionDoc):
		p.Doc = tmpl
	default:
		return fmt.Errorf("unknown template key %q", key)
	}

	return nil
}

// ValidTemplateKey reports whether key can be passed to Override.
func ValidTemplateKey(key string) bool {
	if key == templateKeyTestFilter {
		return true
	}
	_, err := ParseAction(key)
	return err == nil
}

// Expand builds the argv (without the binary) for action.
func (p Profile) Expand(action Action, vars Vars) ([]string, error) {
	var tmpl []string

	switch action {
	case ActionRun:
		if vars.Name == "" {
			return nil, fmt.Errorf("run requires an exercise name")
		}
		tmpl = p.Run
	case ActionTest:
		if vars.Filter != "" {
			tmpl = p.TestFilter
		} else {
			tmpl = p.Test
		}
	case ActionBuild:
		tmpl = p.Build
	case ActionClean:
		tmpl = p.Clean
	case ActionDoc:
		tmpl = p.Doc
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}

	if len(tmpl) == 0 {
		return nil, fmt.Errorf("profile %s has no template for %s", p.Name, action)
	}

	args := make([]string, 0, len(tmpl)+len(vars.RunArgs)+1)
	for _, part := range tmpl {
		part = strings.ReplaceAll(part, PlaceholderName, vars.Name)
		part = strings.ReplaceAll(part, PlaceholderFilter, vars.Filter)
		args = append(args, part)
	}

	if action == ActionRun && len(vars.RunArgs) > 0 {
		if p.ArgSeparator != "" {
			args = append(args, p.ArgSeparator)
		}
		args = append(args, vars.RunArgs...)
	}

	return args, nil
}

func (p Profile) clone() Profile {
	c := p
	c.Run = append([]string(nil), p.Run...)
	c.Test = append([]string(nil), p.Test...)
	c.TestFilter = append([]string(nil), p.TestFilter...)
	c.Build = append([]string(nil), p.Build...)
	c.Clean = append([]string(nil), p.Clean...)
	c.Doc = append([]string(nil), p.Doc...)
	return c
}

func containsPlaceholder(tmpl []string, placeholder string) bool {
	for _, part := range tmpl {
		if strings.Contains(part, placeholder) {
			return true
		}
	}
	return false
}
