package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, ">", cfg.CommandPrompt())
	assert.Equal(t, "sh -c", cfg.CommandShell())
	assert.True(t, cfg.IgnoreTrailingWhitespace())
	assert.False(t, cfg.MergeStderr())
	assert.Equal(t, []string{"sh", "shtest"}, cfg.ShellTestExts())
}

func TestConfig_Get(t *testing.T) {
	cfg := New()

	value, err := cfg.Get(CommandPrompt)
	require.NoError(t, err)
	assert.Equal(t, ">", value)

	value, err = cfg.Get("shell_command")
	require.NoError(t, err)
	assert.Equal(t, "sh -c", value)

	_, err = cfg.Get("no_such_option")
	assert.True(t, errors.Is(err, ErrUnknownOption))
}

func TestConfig_Set(t *testing.T) {
	tests := []struct {
		name    string
		option  string
		raw     string
		wantErr error
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:   "prompt",
			option: CommandPrompt,
			raw:    "py>",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "py>", cfg.CommandPrompt())
			},
		},
		{
			name:   "shell through alias",
			option: "shell_command",
			raw:    "bash -c",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "bash -c", cfg.CommandShell())
			},
		},
		{
			name:   "boolean mixed case",
			option: IgnoreTrailingWhitespace,
			raw:    "False",
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.IgnoreTrailingWhitespace())
			},
		},
		{
			name:    "boolean garbage",
			option:  IgnoreTrailingWhitespace,
			raw:     "yes",
			wantErr: ErrInvalidValue,
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IgnoreTrailingWhitespace())
			},
		},
		{
			name:    "not editable",
			option:  ShellTestExts,
			raw:     "txt",
			wantErr: ErrOptionNotEditable,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"sh", "shtest"}, cfg.ShellTestExts())
			},
		},
		{
			name:    "unknown",
			option:  "colour",
			raw:     "red",
			wantErr: ErrUnknownOption,
			check:   func(_ *testing.T, _ *Config) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			err := cfg.Set(tt.option, tt.raw)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestConfig_SnapshotIsIndependent(t *testing.T) {
	original := New()
	snap := original.Snapshot()
	require.Equal(t, original.String(), snap.String())

	require.NoError(t, original.Set(CommandPrompt, "$"))
	assert.Equal(t, ">", snap.CommandPrompt())

	require.NoError(t, snap.Set(CommandShell, "bash -c"))
	assert.Equal(t, "sh -c", original.CommandShell())
	assert.NotEqual(t, original.String(), snap.String())

	exts := snap.ShellTestExts()
	exts[0] = "mutated"
	assert.Equal(t, []string{"sh", "shtest"}, original.ShellTestExts())
	assert.Equal(t, []string{"sh", "shtest"}, snap.ShellTestExts())
}

func TestParseBool(t *testing.T) {
	for _, raw := range []string{"true", "TRUE", "True"} {
		v, err := ParseBool(raw)
		require.NoError(t, err)
		assert.Equal(t, true, v)
	}
	for _, raw := range []string{"false", "FALSE"} {
		v, err := ParseBool(raw)
		require.NoError(t, err)
		assert.Equal(t, false, v)
	}
	for _, raw := range []string{"1", "", "yes", " true"} {
		_, err := ParseBool(raw)
		assert.Error(t, err, raw)
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		CommandPrompt,
		CommandShell,
		IgnoreTrailingWhitespace,
		MergeStderr,
		ShellTestExts,
	}, Names())
}

func TestConfig_String(t *testing.T) {
	assert.Equal(t,
		`command_prompt=> command_shell=sh -c ignore_trailing_whitespace=true merge_stderr=false shell_test_exts=[sh shtest]`,
		New().String())
}
