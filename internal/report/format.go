package report

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"

	"shelltest/internal/execution"
)

const (
	// DefaultOutputMaxLen bounds expected/actual output in failure details.
	DefaultOutputMaxLen = 80

	ellipsis = " ..."
	// detailIndent is the column where detail values start.
	detailIndent = 11
)

// FormatOptions control failure rendering.
type FormatOptions struct {
	// OutputMaxLen truncates expected and actual output; <= 0 means the default.
	OutputMaxLen int
	// Inline adds a character-level diff of the outputs.
	Inline bool
}

// FormatResult renders one result. For failures it states the reason, the
// location, the command, truncated outputs and a diff when the output differs.
func FormatResult(r execution.Result, opts FormatOptions) string {
	if r.Status.Success {
		return "command completed successfully"
	}
	maxLen := opts.OutputMaxLen
	if maxLen <= 0 {
		maxLen = DefaultOutputMaxLen
	}

	expected := r.Test.ExpectedOutput
	actual := r.ActualOutput

	lines := []string{
		"Command failed due to " + Reason(r.Status),
		fmt.Sprintf("     file: %s", r.Test.Source),
		fmt.Sprintf("      cmd: %q", r.Test.Command),
		fmt.Sprintf("  retcode: %d", r.ReturnCode),
		fmt.Sprintf(" expected: %q", Truncate(expected, maxLen)),
		fmt.Sprintf("   actual: %q", Truncate(actual, maxLen)),
	}
	if !r.Status.OutputVerified {
		lines = append(lines, "     diff: "+Indent(UnifiedDiff(expected, actual), detailIndent))
		if opts.Inline {
			lines = append(lines, "   inline: "+Indent(InlineDiff(expected, actual), detailIndent))
		}
	}
	if r.ErrOutput != "" {
		lines = append(lines, "   stderr: "+Indent(r.ErrOutput, detailIndent))
	}
	if r.Err != nil {
		lines = append(lines, fmt.Sprintf("    error: %v", r.Err))
	}
	return strings.Join(lines, "\n")
}

// Reason names why a test failed. A bad return code takes precedence.
func Reason(s execution.Status) string {
	if !s.ReturnCodeVerified {
		return "non-zero return code"
	}
	return "unexpected output"
}

// Truncate shortens s to maxLen runes, ending with an ellipsis marker when cut.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	keep := maxLen - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + ellipsis
}

// Indent prefixes every line but the first with width spaces.
func Indent(text string, width int) string {
	lines := strings.Split(text, "\n")
	space := strings.Repeat(" ", width)
	for i := 1; i < len(lines); i++ {
		lines[i] = space + lines[i]
	}
	return strings.Join(lines, "\n")
}

// UnifiedDiff returns a unified line diff from expected to actual, or "" when equal.
func UnifiedDiff(expected, actual string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("<diff unavailable: %v>", err)
	}
	return strings.TrimRight(text, "\n")
}

// InlineDiff renders a character-level diff, deletions as [-text-] and
// insertions as {+text+}.
func InlineDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(expected, actual, false))

	var b strings.Builder
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + diff.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + diff.Text + "+}")
		case diffmatchpatch.DiffEqual:
			b.WriteString(diff.Text)
		}
	}
	return b.String()
}
