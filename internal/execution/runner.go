package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kballard/go-shellquote"

	"shelltest/internal/config"
	"shelltest/internal/logger"
	"shelltest/internal/parser"
)

// waitDelay bounds how long Wait keeps draining pipes after a timed-out
// process was killed.
const waitDelay = time.Second

// Runner executes tests one at a time. The zero value is not usable; use NewRunner.
type Runner struct {
	// Env is added to the inherited environment of every child process.
	Env map[string]string
	// Timeout bounds each test. Zero means no timeout.
	Timeout time.Duration
	// ShowOutput, when set, receives each stdout line prefixed with ">>> "
	// while the command runs.
	ShowOutput io.Writer

	log *log.Logger
}

// NewRunner creates a Runner without timeout or extra environment.
func NewRunner() *Runner {
	return &Runner{
		log: logger.NewStyledLogger("Runner"),
	}
}

// Run executes a single test and blocks until the process exits and its
// output is drained. Failures to start the process are recorded in the result.
func (r *Runner) Run(ctx context.Context, test parser.Test) (result Result) {
	cfg := test.Config
	if cfg == nil {
		cfg = config.New()
	}

	result = Result{Test: test, ReturnCode: ReturnCodeUnknown}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	argv, err := CommandLine(cfg.CommandShell(), test.Command)
	if err != nil {
		return r.finish(result, cfg, err)
	}

	ownDeadline := false
	if r.Timeout > 0 {
		parent, hasParent := ctx.Deadline()
		ownDeadline = !hasParent || time.Now().Add(r.Timeout).Before(parent)

		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = WorkingDir(test.Source.Name)
	cmd.Env = r.environ()
	if _, ok := ctx.Deadline(); ok {
		cmd.WaitDelay = waitDelay
	}

	var stdout, stderr bytes.Buffer
	var live *lineWriter
	var out io.Writer = &stdout
	if r.ShowOutput != nil {
		live = newLineWriter(r.ShowOutput, ">>> ")
		out = io.MultiWriter(&stdout, live)
	}
	cmd.Stdout = out
	if cfg.MergeStderr() {
		cmd.Stderr = out
	} else {
		cmd.Stderr = &stderr
	}

	r.log.Debug("starting process", "file", test.Source.Name, "line", test.Source.Line, "argv", argv, "dir", cmd.Dir)
	runErr := cmd.Run()
	if live != nil {
		live.Flush()
	}

	result.ActualOutput = stdout.String()
	result.ErrOutput = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		if cmd.ProcessState != nil {
			result.ReturnCode = cmd.ProcessState.ExitCode()
		}
		return r.finish(result, cfg, r.timeoutError(ctx, ownDeadline))
	case errors.As(runErr, &exitErr):
		result.ReturnCode = exitErr.ExitCode()
	case runErr != nil:
		return r.finish(result, cfg, fmt.Errorf("failed to run %q: %w", argv[0], runErr))
	default:
		result.ReturnCode = cmd.ProcessState.ExitCode()
	}

	return r.finish(result, cfg, nil)
}

// Hooks observe a sequential run. Either field may be nil.
type Hooks struct {
	Started  func(test parser.Test)
	Finished func(result Result)
}

// RunAll runs tests sequentially in order, calling the hooks around each test.
// It stops early when ctx is done.
func (r *Runner) RunAll(ctx context.Context, tests []parser.Test, hooks Hooks) []Result {
	results := make([]Result, 0, len(tests))
	for _, test := range tests {
		if err := ctx.Err(); err != nil {
			r.log.Warn("run interrupted", "remaining", len(tests)-len(results), "error", err)
			break
		}
		if hooks.Started != nil {
			hooks.Started(test)
		}
		res := r.Run(ctx, test)
		if hooks.Finished != nil {
			hooks.Finished(res)
		}
		results = append(results, res)
	}
	return results
}

func (r *Runner) finish(result Result, cfg *config.Config, err error) Result {
	result.Err = err
	result.Status = Verify(result.Test.ExpectedOutput, result.ActualOutput, result.ReturnCode, cfg.IgnoreTrailingWhitespace())
	if err != nil {
		result.Status.ReturnCodeVerified = false
		result.Status.Success = false
		r.log.Error("test could not run", "file", result.Test.Source.Name, "line", result.Test.Source.Line, "error", err)
		return result
	}
	r.log.Debug("process exited", "file", result.Test.Source.Name, "line", result.Test.Source.Line,
		"rc", result.ReturnCode, "success", result.Status.Success)
	return result
}

// timeoutError describes an expired deadline. The runner timeout is named only
// when it was earlier than any deadline inherited from the caller.
func (r *Runner) timeoutError(ctx context.Context, ownDeadline bool) error {
	if ownDeadline {
		return fmt.Errorf("command timed out after %v: %w", r.Timeout, ctx.Err())
	}
	return fmt.Errorf("command timed out: %w", ctx.Err())
}

func (r *Runner) environ() []string {
	env := os.Environ()
	keys := make([]string, 0, len(r.Env))
	for key := range r.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		env = append(env, key+"="+r.Env[key])
	}
	return env
}

// CommandLine splits the shell invocation by shell quoting rules and appends
// the command text as its final argument.
func CommandLine(shell, command string) ([]string, error) {
	args, err := shellquote.Split(shell)
	if err != nil {
		return nil, fmt.Errorf("invalid command shell %q: %w", shell, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("invalid command shell %q: no interpreter", shell)
	}
	return append(args, command), nil
}

// WorkingDir returns the directory of the test source, or "." when that
// directory does not exist (e.g. for tests parsed from memory).
func WorkingDir(sourceName string) string {
	dir := filepath.Dir(sourceName)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return "."
}
