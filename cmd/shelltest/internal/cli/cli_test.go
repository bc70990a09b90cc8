package cli

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"shelltest/internal/testutils"
)

// execute runs the CLI in a fresh temp directory holding files.
func execute(t *testing.T, files map[string]string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(testutils.TempTree(t, files))

	var out bytes.Buffer
	cmd := NewApp().CreateRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--color=never"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_AllPass(t *testing.T) {
	testutils.RequireShell(t, "sh")
	out, err := execute(t, map[string]string{
		"ok.sh": "> echo hello\nhello\n> true\n",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "ok.sh 2 of 2 (100.0%) passed")
}

func TestRun_Failure(t *testing.T) {
	testutils.RequireShell(t, "sh")
	out, err := execute(t, map[string]string{
		"bad.sh": "> echo hello\nbye\n",
	}, "run", "bad.sh")
	require.ErrorIs(t, err, ErrTestsFailed)
	assert.Contains(t, out, "bad.sh 0 of 1 (0.0%) passed")
	assert.Contains(t, out, "Command failed due to unexpected output")
	assert.Contains(t, out, "1 test(s) failed")
	assert.Equal(t, ExitFailed, ExitCode(err, &bytes.Buffer{}))
}

func TestRun_ParseErrorDoesNotStopOtherFiles(t *testing.T) {
	testutils.RequireShell(t, "sh")
	out, err := execute(t, map[string]string{
		"a.sh": "#[sht] no_such_option = 1\n> true\n",
		"b.sh": "> echo b\nb\n",
	})
	require.ErrorIs(t, err, ErrTestsFailed)
	assert.Contains(t, out, "a.sh error:")
	assert.Contains(t, out, "b.sh 1 of 1 (100.0%) passed")
	assert.Contains(t, out, "1 file(s) could not be parsed")
}

func TestRun_Verbose(t *testing.T) {
	testutils.RequireShell(t, "sh")
	out, err := execute(t, map[string]string{
		"v.sh": "> echo hi\nhi\n",
	}, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, `exec: "echo hi" ... passed`)
}

func TestRun_ProjectOptionsAndEnvFile(t *testing.T) {
	testutils.RequireShell(t, "sh")
	out, err := execute(t, map[string]string{
		".shelltest.yaml": "env_file: test.env\noptions:\n  command_prompt: \"$\"\n",
		"test.env":        "GREETING=hello\n",
		"env.sh":          "$ echo $GREETING\nhello\n",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "env.sh 1 of 1 (100.0%) passed")
}

func TestRun_ReportFile(t *testing.T) {
	testutils.RequireShell(t, "sh")
	_, err := execute(t, map[string]string{
		"r.sh": "> echo one\none\n> false\n",
	}, "--report-file", "summary.yaml")
	require.ErrorIs(t, err, ErrTestsFailed)

	data, err := os.ReadFile("summary.yaml")
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, yaml.Unmarshal(data, &summary))
	assert.Equal(t, 2, summary["total"])
	assert.Equal(t, 1, summary["failed"])
	assert.NotEmpty(t, summary["run_id"])
}

func TestRun_MissingPath(t *testing.T) {
	_, err := execute(t, nil, "missing.sh")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTestsFailed))

	var buf bytes.Buffer
	assert.Equal(t, ExitError, ExitCode(err, &buf))
	assert.Contains(t, buf.String(), "Error:")
}

func TestRun_NegativeTimeout(t *testing.T) {
	_, err := execute(t, nil, "--timeout=-1s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestList(t *testing.T) {
	out, err := execute(t, map[string]string{
		"l.sh": "> echo a\na\n> echo b\n",
	}, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "l.sh:1\t\"echo a\"")
	assert.Contains(t, out, "l.sh:3\t\"echo b\"")
}

func TestList_ParseError(t *testing.T) {
	out, err := execute(t, map[string]string{
		"bad.sh": "#[sht] command_prompt\n> true\n",
	}, "list", "--strict")
	require.ErrorIs(t, err, ErrTestsFailed)
	assert.Contains(t, out, "bad.sh error:")
}

func TestList_DebugLogsGoToCommandStderr(t *testing.T) {
	out, err := execute(t, map[string]string{
		"d.sh": "> true\n",
	}, "list", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "settings loaded")
	assert.Contains(t, out, "d.sh:1\t\"true\"")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "shelltest ")

	out, err = execute(t, nil, "version", "--detailed")
	require.NoError(t, err)
	assert.Contains(t, out, "shelltest v")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil, &bytes.Buffer{}))
}
