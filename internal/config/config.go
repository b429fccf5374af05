// Package config loads bugspot settings through Viper from .bugspot.yml,
// BUGSPOT_* environment variables and command-line flags.
//
// The settings pick the build tool profile the dispatcher delegates to,
// the clean failure policy, what `watch` observes and how status text is
// coloured.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/conneroisu/bugspot/internal/toolchain"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "BUGSPOT"

type Config struct {
	Toolchain ToolchainConfig `yaml:"toolchain" mapstructure:"toolchain"`
	Clean     CleanConfig     `yaml:"clean" mapstructure:"clean"`
	Watch     WatchConfig     `yaml:"watch" mapstructure:"watch"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

type ToolchainConfig struct {
	Profile  string              `yaml:"profile" mapstructure:"profile"`
	Binary   string              `yaml:"binary" mapstructure:"binary"`
	Dir      string              `yaml:"dir" mapstructure:"dir"`
	Env      []string            `yaml:"env" mapstructure:"env"`
	Commands map[string][]string `yaml:"commands" mapstructure:"commands"`
}

type CleanConfig struct {
	// Strict propagates a failed clean as exit 1. The historical behaviour
	// reports success regardless.
	Strict bool `yaml:"strict" mapstructure:"strict"`
}

type WatchConfig struct {
	Paths      []string      `yaml:"paths" mapstructure:"paths"`
	Extensions []string      `yaml:"extensions" mapstructure:"extensions"`
	Debounce   time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

type OutputConfig struct {
	Color string `yaml:"color" mapstructure:"color"`
}

// Defaults
var (
	DefaultProfile         = toolchain.ProfileCargo
	DefaultWatchPaths      = []string{"exercises", "tests", "src"}
	DefaultWatchExtensions = []string{".rs", ".go", ".toml"}
	DefaultDebounce        = 300 * time.Millisecond
	DefaultColor           = "auto"
)

// SetDefaults registers every key with viper so BUGSPOT_* environment
// variables are picked up by Unmarshal even when no config file sets them.
func SetDefaults() {
	viper.SetDefault("toolchain.profile", DefaultProfile)
	viper.SetDefault("toolchain.binary", "")
	viper.SetDefault("toolchain.dir", "")
	viper.SetDefault("toolchain.env", []string{})
	viper.SetDefault("clean.strict", false)
	viper.SetDefault("watch.paths", DefaultWatchPaths)
	viper.SetDefault("watch.extensions", DefaultWatchExtensions)
	viper.SetDefault("watch.debounce", DefaultDebounce)
	viper.SetDefault("output.color", DefaultColor)
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle slices set via viper from env vars (comma separated strings)
	if viper.IsSet("toolchain.env") && len(config.Toolchain.Env) == 0 {
		config.Toolchain.Env = viper.GetStringSlice("toolchain.env")
	}
	if viper.IsSet("watch.paths") && len(config.Watch.Paths) == 0 {
		config.Watch.Paths = viper.GetStringSlice("watch.paths")
	}
	if viper.IsSet("watch.extensions") && len(config.Watch.Extensions) == 0 {
		config.Watch.Extensions = viper.GetStringSlice("watch.extensions")
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Toolchain.Profile == "" {
		config.Toolchain.Profile = DefaultProfile
	}
	config.Toolchain.Profile = strings.ToLower(config.Toolchain.Profile)

	if config.Toolchain.Commands == nil {
		config.Toolchain.Commands = make(map[string][]string)
	}

	if len(config.Watch.Paths) == 0 {
		config.Watch.Paths = append([]string(nil), DefaultWatchPaths...)
	}
	if len(config.Watch.Extensions) == 0 {
		config.Watch.Extensions = append([]string(nil), DefaultWatchExtensions...)
	}
	if !viper.IsSet("watch.debounce") && config.Watch.Debounce == 0 {
		config.Watch.Debounce = DefaultDebounce
	}

	if config.Output.Color == "" {
		config.Output.Color = DefaultColor
	}
}

// Profile resolves the configured toolchain profile with overrides applied.
func (c *Config) Profile() (toolchain.Profile, error) {
	profile, err := toolchain.Builtin(c.Toolchain.Profile)
	if err != nil {
		return toolchain.Profile{}, err
	}

	if c.Toolchain.Binary != "" {
		profile.Binary = c.Toolchain.Binary
	}

	for key, template := range c.Toolchain.Commands {
		if err := profile.Override(key, template); err != nil {
			return toolchain.Profile{}, fmt.Errorf("toolchain.commands.%s: %w", key, err)
		}
	}

	return profile, nil
}
