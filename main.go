package main

import (
	"os"

	"github.com/conneroisu/bugspot/cmd"
	"github.com/conneroisu/bugspot/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.ExitCode(err))
	}
}
