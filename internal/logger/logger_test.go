package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"DEBUG":   log.DebugLevel,
		" warn ":  log.WarnLevel,
		"error":   log.ErrorLevel,
		"fatal":   log.FatalLevel,
		"info":    log.InfoLevel,
		"":        log.InfoLevel,
		"verbose": log.InfoLevel,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestConfigure_EnvFallback(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	require.NoError(t, Configure("", ""))
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())

	require.NoError(t, Configure("error", ""))
	assert.Equal(t, log.ErrorLevel, Logger.GetLevel())
}

func TestConfigure_LogFile(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "shelltest.log")
	require.NoError(t, Configure("info", path))

	Info("hello from test", "file", "a.sh")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Contains(t, string(data), "a.sh")
}

func TestSetOutput_KeepsLevel(t *testing.T) {
	require.NoError(t, Configure("warn", ""))
	var buf bytes.Buffer
	SetOutput(&buf)

	Info("hidden")
	Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewStyledLogger_SharesLevel(t *testing.T) {
	require.NoError(t, Configure("debug", ""))
	var buf bytes.Buffer
	SetOutput(&buf)

	component := NewStyledLogger("Parser")
	component.Debug("directive applied", "file", "x.sh")

	assert.Equal(t, log.DebugLevel, component.GetLevel())
	assert.Contains(t, buf.String(), "Parser")
	assert.Contains(t, buf.String(), "directive applied")
}
