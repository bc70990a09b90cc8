// Package logger provides the shared structured logger for shelltest.
// Output goes to stderr by default so it never mixes with captured test output or reports.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// EnvLogLevel names the environment variable consulted when no level flag is given.
const EnvLogLevel = "SHELLTEST_LOG_LEVEL"

// Logger is the global logger instance.
var Logger *log.Logger

func init() {
	Logger = log.New(os.Stderr)
	Logger.SetTimeFormat("")
	Logger.SetLevel(log.InfoLevel)
}

// Configure sets the level and destination of the global logger.
// An explicit level wins over SHELLTEST_LOG_LEVEL, which wins over "info".
// When logFile is set, log lines are appended to that file instead of stderr.
func Configure(logLevel string, logFile string) error {
	level := logLevel
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}

	var output io.Writer = os.Stderr
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		output = file
	}

	Logger = log.New(output)
	Logger.SetTimeFormat("")
	Logger.SetLevel(ParseLevel(level))
	return nil
}

// SetOutput redirects the global logger, keeping its level.
func SetOutput(w io.Writer) {
	level := Logger.GetLevel()
	Logger = log.New(w)
	Logger.SetTimeFormat("")
	Logger.SetLevel(level)
}

// ParseLevel converts a level name to a log level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
}

// Fatal logs a fatal message with optional key-value pairs and exits.
func Fatal(msg interface{}, keyvals ...interface{}) {
	Logger.Fatal(msg, keyvals...)
}

// NewStyledLogger creates a component logger (e.g. "Parser", "Runner") that
// shares the global logger's level and destination.
func NewStyledLogger(prefix string) *log.Logger {
	styles := log.DefaultStyles()

	styles.Levels[log.DebugLevel] = levelStyle("DEBUG", "240")
	styles.Levels[log.InfoLevel] = levelStyle("INFO", "33")
	styles.Levels[log.WarnLevel] = levelStyle("WARN", "214")
	styles.Levels[log.ErrorLevel] = levelStyle("ERROR", "196")
	styles.Levels[log.FatalLevel] = levelStyle("FATAL", "88")

	styles.Keys["file"] = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styles.Keys["line"] = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styles.Keys["command"] = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	styles.Keys["state"] = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styles.Values["state"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	styles.Values["error"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	componentLogger := Logger.WithPrefix(prefix)
	componentLogger.SetStyles(styles)
	return componentLogger
}

func levelStyle(label, background string) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(label).
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color(background)).
		Foreground(lipgloss.Color("15"))
}
