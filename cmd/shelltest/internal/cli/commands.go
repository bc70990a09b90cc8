package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shelltest/internal/discovery"
	"shelltest/internal/execution"
	"shelltest/internal/export"
	"shelltest/internal/logger"
	"shelltest/internal/parser"
	"shelltest/internal/report"
	"shelltest/internal/settings"
)

// addRunCommands adds the test running and listing commands
func (app *App) addRunCommands(rootCmd *cobra.Command) {
	runCmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run shell tests (default command)",
		Long: `Run every test found in the given files and directories and report the results.
Returns exit code 0 if all tests pass, 1 if any fail, 2 on fatal errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runTests(cmd, args)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List tests without running them",
		Long:  `Parse the given files and directories and print the location and command of every test.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.listTests(cmd, args)
		},
	}

	rootCmd.AddCommand(runCmd, listCmd)
}

// parsedFile is one discovered file with its tests or its parse error.
type parsedFile struct {
	path  string
	tests []parser.Test
	err   error
}

// parseAll discovers and parses test files. Only discovery errors are fatal.
func (app *App) parseAll(paths []string) ([]parsedFile, error) {
	base, err := app.Settings.BaseConfig()
	if err != nil {
		return nil, err
	}

	files, err := discovery.Find(paths, base.ShellTestExts())
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered test files", "count", len(files))

	parsed := make([]parsedFile, 0, len(files))
	for _, path := range files {
		tests, err := parser.ParseFile(path, base, parser.Options{Strict: app.Settings.Strict})
		if err != nil {
			logger.Error("failed to parse test file", "file", path, "error", err)
		}
		parsed = append(parsed, parsedFile{path: path, tests: tests, err: err})
	}
	return parsed, nil
}

// runTests runs all tests found under paths and prints the report
func (app *App) runTests(cmd *cobra.Command, paths []string) error {
	s := app.Settings
	started := time.Now()

	files, err := app.parseAll(paths)
	if err != nil {
		return err
	}

	env, err := settings.LoadEnvFile(s.EnvFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	runner := execution.NewRunner()
	runner.Env = env
	runner.Timeout = s.Timeout
	if s.ShowOutput {
		runner.ShowOutput = out
	}

	printer := app.newPrinter(out)
	var hooks execution.Hooks
	if s.Verbose {
		hooks.Started = func(test parser.Test) {
			end := ""
			if s.ShowOutput {
				end = "\n"
			}
			printer.Progress(fmt.Sprintf("exec: %q ... %s", test.Command, end))
		}
		hooks.Finished = func(res execution.Result) {
			if res.Failed() {
				printer.Failure("failed")
			} else {
				printer.Success("passed")
			}
		}
	}

	rep := report.New()
	for _, f := range files {
		if f.err != nil {
			rep.AddError(f.path, f.err)
			continue
		}
		rep.File(f.path)
		for _, res := range runner.RunAll(cmd.Context(), f.tests, hooks) {
			rep.Add(res)
		}
	}

	printReport(printer, rep, report.FormatOptions{
		OutputMaxLen: s.OutputMaxLen,
		Inline:       s.InlineDiff,
	})

	if s.ReportFile != "" {
		summary := export.NewSummary(rep, started, time.Since(started))
		if err := summary.WriteFile(s.ReportFile); err != nil {
			return err
		}
		logger.Info("summary written", "file", s.ReportFile, "run_id", summary.RunID)
	}

	if !rep.OK() {
		return ErrTestsFailed
	}
	return nil
}

// listTests prints every test location and command without running anything
func (app *App) listTests(cmd *cobra.Command, paths []string) error {
	files, err := app.parseAll(paths)
	if err != nil {
		return err
	}

	printer := app.newPrinter(cmd.OutOrStdout())
	failed := false
	for _, f := range files {
		if f.err != nil {
			failed = true
			printer.Error(fmt.Sprintf("%s error: %v", f.path, f.err))
			continue
		}
		for _, test := range f.tests {
			printer.Println(fmt.Sprintf("%s\t%q", test.Source, test.Command))
		}
	}
	if failed {
		return ErrTestsFailed
	}
	return nil
}
