// Package main provides the shelltest CLI application.
// shelltest runs the commands found in shell test files and compares their
// output with the expected output written below each command.
package main

import (
	"os"

	"shelltest/cmd/shelltest/internal/cli"
)

func main() {
	app := cli.NewApp()
	rootCmd := app.CreateRootCommand()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(cli.ExitCode(err, os.Stderr))
	}
}
