// Package cmd provides the command-line interface for bugspot.
//
// Every exercise subcommand maps onto exactly one invocation of the
// configured build tool (cargo by default). Configuration is read from:
//
//  1. Command-line flags (--config, --log-level, --no-color) - highest priority
//  2. BUGSPOT_* environment variables (BUGSPOT_TOOLCHAIN_PROFILE, ...)
//  3. The file named by --config or BUGSPOT_CONFIG_FILE
//  4. .bugspot.yml in the current directory - lowest priority
package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/conneroisu/bugspot/internal/config"
	"github.com/conneroisu/bugspot/internal/dispatch"
	"github.com/conneroisu/bugspot/internal/errors"
	"github.com/conneroisu/bugspot/internal/logging"
	"github.com/conneroisu/bugspot/internal/toolchain"
	"github.com/conneroisu/bugspot/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
	noColor  bool
)

// runnerFactory builds the delegate runner. Tests replace it with a stub.
var runnerFactory = func(logger logging.Logger) toolchain.Runner {
	return toolchain.NewExecRunner(logger)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bugspot",
	Short: "Run, test and build the bug-spotting exercises",
	Long: `bugspot drives a collection of bug-spotting exercises. Every exercise
comes as a buggy program and its corrected twin, grouped by category.

Commands delegate to the configured build tool (cargo by default):
  bugspot run <exercise>          Build and run one exercise
  bugspot test [category]         Run all tests, or one category's tests
  bugspot build                   Compile every exercise
  bugspot clean                   Remove build artifacts
  bugspot doc                     Generate and open the documentation
  bugspot list                    Show categories and exercises

Configuration lives in .bugspot.yml and BUGSPOT_* environment variables.`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	// Unknown words and no words at all both get the usage text.
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command and prints a single diagnostic for any
// error. The returned error is meant for errors.ExitCode.
func Execute() error {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		if cmd == nil {
			cmd = rootCmd
		}
		printDiagnostic(cmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.FParseErrWhitelist.UnknownFlags = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .bugspot.yml, can also use BUGSPOT_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")
}

// initConfig points viper at the config file and environment.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(config.EnvPrefix + "_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bugspot")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	config.SetDefaults()
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	// A missing file means defaults; a broken one surfaces in config.Load.
	_ = viper.ReadInConfig()
}

// session is everything a command needs for one invocation.
type session struct {
	cfg        *config.Config
	printer    *ui.Printer
	logger     logging.Logger
	dispatcher *dispatch.Dispatcher
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	printer := ui.NewPrinter(cmd.OutOrStdout(), colorMode(cfg.Output.Color))

	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	logger = logger.With("command", cmd.Name())

	profile, err := cfg.Profile()
	if err != nil {
		return nil, errors.NewConfigError("invalid toolchain configuration", err)
	}

	logger.Debug(cmd.Context(), "Session ready",
		"profile", profile.Name,
		"binary", profile.Binary,
		"config_file", viper.ConfigFileUsed(),
	)

	return &session{
		cfg:     cfg,
		printer: printer,
		logger:  logger,
		dispatcher: dispatch.New(dispatch.Options{
			Runner:      runnerFactory(logger),
			Profile:     profile,
			Printer:     printer,
			Logger:      logger,
			Dir:         cfg.Toolchain.Dir,
			Env:         cfg.Toolchain.Env,
			StrictClean: cfg.Clean.Strict,
		}),
	}, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err).
			WithHint("check .bugspot.yml and BUGSPOT_* environment variables")
	}
	return cfg, nil
}

func newLogger(out io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, errors.NewUsageError(errors.CodeInvalidArgument, err.Error(), "use one of: debug, info, warn, error")
	}

	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Output = out

	logger, _ := logging.NewLogger(cfg).WithInvocation()
	return logger, nil
}

// colorMode resolves the effective colour mode. --no-color beats config and
// an unparsable setting falls back to auto detection.
func colorMode(setting string) ui.ColorMode {
	if noColor {
		return ui.ColorNever
	}
	mode, err := ui.ParseColorMode(setting)
	if err != nil {
		return ui.ColorAuto
	}
	return mode
}

func printDiagnostic(out io.Writer, err error) {
	printer := ui.NewPrinter(out, colorMode(viper.GetString("output.color")))

	var de *errors.DispatchError
	if stderrors.As(err, &de) {
		msg := de.Message
		if de.Cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, de.Cause)
		}
		printer.Error("%s", msg)
		if de.Hint != "" {
			printer.Hint("%s", de.Hint)
		}
		return
	}

	printer.Error("%v", err)
}
