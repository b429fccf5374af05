package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/conneroisu/bugspot/internal/toolchain"
	"github.com/conneroisu/bugspot/internal/ui"
	"github.com/conneroisu/bugspot/internal/validation"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	msg := fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
	if len(ve.Suggestions) > 0 {
		msg += " (" + strings.Join(ve.Suggestions, "; ") + ")"
	}
	return msg
}

// validateConfig validates configuration values for correctness
func validateConfig(config *Config) error {
	var errs []error

	errs = append(errs, validateToolchainConfig(&config.Toolchain)...)
	errs = append(errs, validateWatchConfig(&config.Watch)...)

	if _, err := ui.ParseColorMode(config.Output.Color); err != nil {
		errs = append(errs, &ValidationError{
			Field:       "output.color",
			Value:       config.Output.Color,
			Message:     err.Error(),
			Suggestions: []string{"use auto, always or never"},
		})
	}

	return errors.Join(errs...)
}

func validateToolchainConfig(config *ToolchainConfig) []error {
	var errs []error

	if _, err := toolchain.Builtin(config.Profile); err != nil {
		errs = append(errs, &ValidationError{
			Field:       "toolchain.profile",
			Value:       config.Profile,
			Message:     err.Error(),
			Suggestions: []string{"set toolchain.profile to one of: " + strings.Join(toolchain.BuiltinNames(), ", ")},
		})
	}

	if config.Binary != "" && strings.ContainsAny(config.Binary, ";&|$`<>") {
		errs = append(errs, &ValidationError{
			Field:   "toolchain.binary",
			Value:   config.Binary,
			Message: "binary contains shell metacharacters",
		})
	}

	for _, entry := range config.Env {
		if key, _, ok := strings.Cut(entry, "="); !ok || key == "" {
			errs = append(errs, &ValidationError{
				Field:       "toolchain.env",
				Value:       entry,
				Message:     fmt.Sprintf("entry %q is not KEY=VALUE", entry),
				Suggestions: []string{"write entries as RUST_BACKTRACE=1"},
			})
		}
	}

	for key, template := range config.Commands {
		if !toolchain.ValidTemplateKey(key) {
			errs = append(errs, &ValidationError{
				Field:       "toolchain.commands." + key,
				Value:       template,
				Message:     fmt.Sprintf("unknown action %q", key),
				Suggestions: []string{"valid keys: run, test, test_filter, build, clean, doc"},
			})
			continue
		}
		if len(template) == 0 {
			errs = append(errs, &ValidationError{
				Field:   "toolchain.commands." + key,
				Message: "template is empty",
			})
		}
	}

	return errs
}

func validateWatchConfig(config *WatchConfig) []error {
	var errs []error

	for _, path := range config.Paths {
		if err := validation.ValidatePath(path); err != nil {
			errs = append(errs, &ValidationError{
				Field:   "watch.paths",
				Value:   path,
				Message: err.Error(),
			})
		}
	}

	for _, ext := range config.Extensions {
		if err := validation.ValidateFileExtension(ext); err != nil {
			errs = append(errs, &ValidationError{
				Field:   "watch.extensions",
				Value:   ext,
				Message: err.Error(),
			})
		}
	}

	if config.Debounce <= 0 {
		errs = append(errs, &ValidationError{
			Field:       "watch.debounce",
			Value:       config.Debounce,
			Message:     "debounce must be positive",
			Suggestions: []string{"use a duration such as 300ms"},
		})
	}

	return errs
}
