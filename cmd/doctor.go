package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/conneroisu/bugspot/internal/config"
	"github.com/conneroisu/bugspot/internal/errors"
	"github.com/conneroisu/bugspot/internal/toolchain"
	"github.com/conneroisu/bugspot/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the build tool and configuration are usable",
	Long: `Diagnose the environment bugspot delegates to. The doctor command checks:

- that the configuration loads
- that the build tool of the active profile is on PATH
- that the configured working directory and watch paths exist

Exits 1 when a check fails.

Examples:
  bugspot doctor                  # Human readable report
  bugspot doctor --format json    # Output as JSON for tooling`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

var doctorFormat string

// lookPath resolves the build tool; tests replace it.
var lookPath = toolchain.LookPath

// Check statuses.
const (
	statusOK      = "ok"
	statusWarning = "warning"
	statusError   = "error"
)

// DiagnosticResult represents the result of a diagnostic check
type DiagnosticResult struct {
	Name       string `json:"name" yaml:"name"`
	Status     string `json:"status" yaml:"status"`
	Message    string `json:"message" yaml:"message"`
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// DoctorReport represents the complete diagnostic report
type DoctorReport struct {
	Timestamp  time.Time          `json:"timestamp" yaml:"timestamp"`
	Platform   string             `json:"platform" yaml:"platform"`
	ConfigFile string             `json:"config_file" yaml:"config_file"`
	Profile    string             `json:"profile" yaml:"profile"`
	Binary     string             `json:"binary" yaml:"binary"`
	Results    []DiagnosticResult `json:"results" yaml:"results"`
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	addFormatFlag(doctorCmd, &doctorFormat, "table", "json", "yaml")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	report := &DoctorReport{
		Timestamp:  time.Now(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		ConfigFile: viper.ConfigFileUsed(),
	}

	cfg, cfgErr := config.Load()
	report.Results = append(report.Results, checkConfiguration(cfgErr))

	if cfgErr == nil {
		profile, err := cfg.Profile()
		if err != nil {
			report.Results = append(report.Results, DiagnosticResult{
				Name:    "Toolchain profile",
				Status:  statusError,
				Message: err.Error(),
			})
		} else {
			report.Profile = profile.Name
			report.Binary = profile.Binary
			report.Results = append(report.Results, checkBuildTool(profile))
		}
		report.Results = append(report.Results, checkWorkingDir(cfg.Toolchain.Dir))
		report.Results = append(report.Results, checkWatchPaths(cfg.Watch.Paths))
	}

	if err := outputReport(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("failed to output report: %w", err)
	}

	if failed := countStatus(report.Results, statusError); failed > 0 {
		return errors.NewConfigError(fmt.Sprintf("%d doctor check(s) failed", failed), nil).
			WithAction("doctor")
	}
	return nil
}

func checkConfiguration(err error) DiagnosticResult {
	result := DiagnosticResult{Name: "Configuration"}
	switch {
	case err != nil:
		result.Status = statusError
		result.Message = err.Error()
		result.Suggestion = "fix .bugspot.yml or the BUGSPOT_* environment variables"
	case viper.ConfigFileUsed() != "":
		result.Status = statusOK
		result.Message = "loaded " + viper.ConfigFileUsed()
	default:
		result.Status = statusOK
		result.Message = "no config file, using defaults"
	}
	return result
}

func checkBuildTool(profile toolchain.Profile) DiagnosticResult {
	result := DiagnosticResult{Name: "Build tool"}
	path, err := lookPath(profile.Binary)
	if err != nil {
		result.Status = statusError
		result.Message = fmt.Sprintf("%s (profile %s) not found on PATH", profile.Binary, profile.Name)
		result.Suggestion = "install it or set toolchain.binary in .bugspot.yml"
		return result
	}
	result.Status = statusOK
	result.Message = fmt.Sprintf("%s (profile %s) at %s", profile.Binary, profile.Name, path)
	return result
}

func checkWorkingDir(dir string) DiagnosticResult {
	result := DiagnosticResult{Name: "Working directory", Status: statusOK}
	if dir == "" {
		result.Message = "current directory"
		return result
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		result.Status = statusError
		result.Message = fmt.Sprintf("%s does not exist", dir)
		result.Suggestion = "fix toolchain.dir in .bugspot.yml"
		return result
	}
	result.Message = dir
	return result
}

func checkWatchPaths(paths []string) DiagnosticResult {
	result := DiagnosticResult{Name: "Watch paths"}
	var found, missing []string
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			found = append(found, p)
		} else {
			missing = append(missing, p)
		}
	}

	switch {
	case len(found) == 0:
		result.Status = statusWarning
		result.Message = fmt.Sprintf("none of %v exist, `bugspot watch` has nothing to watch", paths)
		result.Suggestion = "set watch.paths in .bugspot.yml"
	case len(missing) > 0:
		result.Status = statusWarning
		result.Message = fmt.Sprintf("watching %v, missing %v", found, missing)
	default:
		result.Status = statusOK
		result.Message = fmt.Sprintf("watching %v", found)
	}
	return result
}

func countStatus(results []DiagnosticResult, status string) int {
	n := 0
	for _, r := range results {
		if r.Status == status {
			n++
		}
	}
	return n
}

func outputReport(out io.Writer, report *DoctorReport) error {
	switch doctorFormat {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	default:
		displayReport(ui.NewPrinter(out, colorMode(viper.GetString("output.color"))), report)
		return nil
	}
}

func displayReport(printer *ui.Printer, report *DoctorReport) {
	printer.Title("bugspot doctor")
	for _, result := range report.Results {
		switch result.Status {
		case statusOK:
			printer.Success("%s: %s", result.Name, result.Message)
		case statusWarning:
			printer.Warn("%s: %s", result.Name, result.Message)
		default:
			printer.Error("%s: %s", result.Name, result.Message)
		}
		if result.Suggestion != "" {
			printer.Hint("%s", result.Suggestion)
		}
	}
	printer.Plain("")
	printer.Plain("%d ok, %d warning(s), %d error(s)",
		countStatus(report.Results, statusOK),
		countStatus(report.Results, statusWarning),
		countStatus(report.Results, statusError))
}
