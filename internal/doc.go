// Package internal contains the implementation packages of bugspot.
//
// # Package Organization
//
//   - catalog: the fixed list of exercise categories and exercises
//   - config: Viper-backed settings with validation
//   - dispatch: maps subcommands onto one build tool invocation each
//   - errors: structured dispatch errors and exit codes
//   - logging: slog-based structured logging
//   - toolchain: build tool profiles and the process runner
//   - ui: colourised status output
//   - validation: argument and path checks applied before delegating
//   - version: build information
//   - watcher: debounced file system monitoring for `bugspot watch`
package internal
