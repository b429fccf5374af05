// Package dispatch maps bugspot subcommands onto delegated build tool
// invocations.
//
// A Dispatcher runs at most one blocking delegation per call and keeps no
// state between calls. Usage errors are raised before anything is
// delegated; a failed delegation is returned as a delegate error so the
// caller can exit non-zero. The one exception is Clean, which by default
// reports success even when the delegate fails.
package dispatch

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/conneroisu/bugspot/internal/catalog"
	"github.com/conneroisu/bugspot/internal/errors"
	"github.com/conneroisu/bugspot/internal/logging"
	"github.com/conneroisu/bugspot/internal/toolchain"
	"github.com/conneroisu/bugspot/internal/ui"
	"github.com/conneroisu/bugspot/internal/validation"
)

// Options configures a Dispatcher.
type Options struct {
	Runner  toolchain.Runner
	Profile toolchain.Profile
	Printer *ui.Printer
	Logger  logging.Logger

	// Dir and Env are passed to every invocation.
	Dir string
	Env []string

	// StrictClean makes Clean return the delegate's failure.
	StrictClean bool
}

// Dispatcher delegates subcommands to the configured build tool.
type Dispatcher struct {
	runner      toolchain.Runner
	profile     toolchain.Profile
	printer     *ui.Printer
	logger      logging.Logger
	dir         string
	env         []string
	strictClean bool
}

// New creates a Dispatcher.
func New(opts Options) *Dispatcher {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Dispatcher{
		runner:      opts.Runner,
		profile:     opts.Profile,
		printer:     opts.Printer,
		logger:      logger.WithComponent("dispatcher"),
		dir:         opts.Dir,
		env:         opts.Env,
		strictClean: opts.StrictClean,
	}
}

// Profile returns the toolchain profile in use.
func (d *Dispatcher) Profile() toolchain.Profile {
	return d.profile
}

// Run builds and runs the exercise binary called name. programArgs are
// forwarded to the exercise.
func (d *Dispatcher) Run(ctx context.Context, name string, programArgs []string) error {
	if name == "" {
		return errors.NewUsageError(
			errors.CodeMissingExercise,
			"exercise name is required",
			"usage: bugspot run <exercise>   (see `bugspot list` for names)",
		)
	}

	if err := validation.ValidateExerciseName(name); err != nil {
		return errors.NewValidationError(fmt.Sprintf("invalid exercise name %q", name), err).
			WithHint("see `bugspot list` for valid exercise names")
	}
	for _, arg := range programArgs {
		if err := validation.ValidateArgument(arg); err != nil {
			return errors.NewValidationError(fmt.Sprintf("invalid program argument %q", arg), err)
		}
	}

	if _, _, ok := catalog.Lookup(name); !ok {
		if suggestion := catalog.Suggest(name); suggestion != "" {
			d.printer.Warn("%s is not a known exercise, did you mean %s?", name, suggestion)
		}
	}

	d.printer.Info("Running exercise %s", name)

	if err := d.delegate(ctx, toolchain.ActionRun, toolchain.Vars{Name: name, RunArgs: programArgs}); err != nil {
		return d.failure(toolchain.ActionRun, fmt.Sprintf("exercise %s failed", name), err)
	}

	d.printer.Success("Exercise %s completed successfully", name)
	return nil
}

// Test runs the whole suite, or only tests whose names match category.
func (d *Dispatcher) Test(ctx context.Context, category string) error {
	if category != "" {
		if err := validation.ValidateFilter(category); err != nil {
			return errors.NewValidationError(fmt.Sprintf("invalid test filter %q", category), err)
		}
		d.printer.Info("Running tests matching %s", category)
	} else {
		d.printer.Info("Running all tests")
	}

	if err := d.delegate(ctx, toolchain.ActionTest, toolchain.Vars{Filter: category}); err != nil {
		if category != "" {
			return d.failure(toolchain.ActionTest, fmt.Sprintf("tests matching %s failed", category), err)
		}
		return d.failure(toolchain.ActionTest, "tests failed", err)
	}

	if category != "" {
		d.printer.Success("Tests matching %s passed", category)
	} else {
		d.printer.Success("All tests passed")
	}
	return nil
}

// Build compiles every target.
func (d *Dispatcher) Build(ctx context.Context) error {
	d.printer.Info("Building all exercises")

	if err := d.delegate(ctx, toolchain.ActionBuild, toolchain.Vars{}); err != nil {
		return d.failure(toolchain.ActionBuild, "build failed", err)
	}

	d.printer.Success("Build completed")
	return nil
}

// Clean removes build artifacts. Unless StrictClean is set, a failed clean
// is reported as a warning and Clean still succeeds.
func (d *Dispatcher) Clean(ctx context.Context) error {
	d.printer.Info("Cleaning build artifacts")

	if err := d.delegate(ctx, toolchain.ActionClean, toolchain.Vars{}); err != nil {
		if d.strictClean {
			return d.failure(toolchain.ActionClean, "clean failed", err)
		}
		d.logger.Debug(ctx, "Clean failed, reporting success", "error", err.Error(), "strict", false)
		d.printer.Warn("Clean reported a problem (%v)", err)
	}

	d.printer.Success("Build artifacts cleaned")
	return nil
}

// Doc generates the documentation and opens it.
func (d *Dispatcher) Doc(ctx context.Context) error {
	d.printer.Info("Generating documentation")

	if err := d.delegate(ctx, toolchain.ActionDoc, toolchain.Vars{}); err != nil {
		return d.failure(toolchain.ActionDoc, "documentation generation failed", err)
	}

	d.printer.Success("Documentation generated")
	return nil
}

func (d *Dispatcher) delegate(ctx context.Context, action toolchain.Action, vars toolchain.Vars) error {
	args, err := d.profile.Expand(action, vars)
	if err != nil {
		return errors.NewConfigError(fmt.Sprintf("cannot build %s command", action), err)
	}

	inv := toolchain.Invocation{
		Action: action,
		Binary: d.profile.Binary,
		Args:   args,
		Dir:    d.dir,
		Env:    d.env,
	}

	perf := logging.StartOperation(d.logger, string(action))
	d.logger.Debug(ctx, "Delegating", "command", inv.String(), "profile", d.profile.Name)

	if err := d.runner.Run(ctx, inv); err != nil {
		perf.EndWithError(ctx, err)
		return err
	}

	perf.End(ctx)
	return nil
}

func (d *Dispatcher) failure(action toolchain.Action, message string, err error) error {
	var de *errors.DispatchError
	if stderrors.As(err, &de) {
		return de.WithAction(string(action))
	}

	derr := errors.NewDelegateError(string(action), message, err)
	if stderrors.Is(err, toolchain.ErrToolNotFound) {
		derr.Code = errors.CodeToolNotFound
		derr.Hint = toolHint(d.profile)
	}
	return derr
}

func toolHint(p toolchain.Profile) string {
	switch p.Name {
	case toolchain.ProfileCargo:
		return "install Rust from https://rustup.rs or set toolchain.binary in .bugspot.yml"
	case toolchain.ProfileGo:
		return "install Go from https://go.dev/dl or set toolchain.binary in .bugspot.yml"
	default:
		return "set toolchain.binary in .bugspot.yml"
	}
}
