// Package cli provides command-line interface setup for shelltest.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shelltest/internal/logger"
	"shelltest/internal/report"
	"shelltest/internal/settings"
)

// ErrTestsFailed is returned when at least one test failed or a file could not be parsed.
var ErrTestsFailed = errors.New("shell tests failed")

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitError  = 2
)

// App represents the shelltest CLI application
type App struct {
	Settings *settings.Settings

	viper      *viper.Viper
	configFile string
	debug      bool
}

// NewApp creates a new shelltest CLI application
func NewApp() *App {
	return &App{viper: settings.NewViper()}
}

// CreateRootCommand creates and configures the root command
func (app *App) CreateRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shelltest [paths...]",
		Short: "Run shell tests written as example sessions",
		Long: `shelltest runs shell test files: lines starting with the command prompt (">")
are executed by the configured shell and the lines that follow are the expected output.
Paths may be files or directories; directories are searched for .sh and .shtest files.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runTests(cmd, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.configFile, "config", "", "Project config file (default: ./.shelltest.yaml if present)")
	flags.BoolVar(&app.debug, "debug", false, "Enable debug logging (same as --log-level debug)")
	flags.String("log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String("log-file", "", "Write logs to file instead of stderr")
	flags.BoolP("verbose", "v", false, "Show each test as it runs")
	flags.Bool("show-output", false, "Stream command output while tests run")
	flags.Bool("strict", false, "Fail files containing malformed #[sht] directives")
	flags.Duration("timeout", 0, "Per-test timeout, 0 for none")
	flags.String("env-file", "", "Dotenv file with variables added to every command's environment")
	flags.String("report-file", "", "Write a YAML summary of the run to this file")
	flags.Int("output-max-len", report.DefaultOutputMaxLen, "Truncate expected/actual output in failure details")
	flags.Bool("inline-diff", false, "Add a character-level diff to failure details")
	flags.String("color", "auto", "Color report output (auto|always|never)")

	bindings := map[string]string{
		settings.KeyLogLevel:     "log-level",
		settings.KeyLogFile:      "log-file",
		settings.KeyVerbose:      "verbose",
		settings.KeyShowOutput:   "show-output",
		settings.KeyStrict:       "strict",
		settings.KeyTimeout:      "timeout",
		settings.KeyEnvFile:      "env-file",
		settings.KeyReportFile:   "report-file",
		settings.KeyOutputMaxLen: "output-max-len",
		settings.KeyInlineDiff:   "inline-diff",
		settings.KeyColor:        "color",
	}
	for key, flag := range bindings {
		if err := app.viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			logger.Fatal("failed to bind flag", "flag", flag, "error", err)
		}
	}

	app.addRunCommands(rootCmd)
	app.addVersionCommand(rootCmd)

	return rootCmd
}

// setup loads settings and configures logging before any command runs.
func (app *App) setup(cmd *cobra.Command, _ []string) error {
	s, err := settings.Load(app.viper, app.configFile)
	if err != nil {
		return err
	}
	if app.debug {
		s.LogLevel = "debug"
	}
	if err := logger.Configure(s.LogLevel, s.LogFile); err != nil {
		return err
	}
	if s.LogFile == "" {
		logger.SetOutput(cmd.ErrOrStderr())
	}
	app.Settings = s
	logger.Debug("settings loaded", "config", app.viper.ConfigFileUsed(), "strict", s.Strict, "timeout", s.Timeout)
	return nil
}

// ExitCode maps a command error to a process exit code, printing fatal errors to w.
func ExitCode(err error, w io.Writer) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrTestsFailed):
		return ExitFailed
	default:
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
		return ExitError
	}
}
