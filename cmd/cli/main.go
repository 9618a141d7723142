// Package main is the entry point for the tollgrid CLI.
package main

import (
	"os"

	"tollgrid/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
