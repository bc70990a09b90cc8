// Package report groups execution results by source file and renders
// pass counts and failure details for the CLI.
package report

import (
	"fmt"
	"strings"

	"shelltest/internal/execution"
)

// FileReport holds the results of one test file in execution order.
type FileReport struct {
	Name    string
	Results []execution.Result
	// Err is set when the file could not be parsed; it then has no results.
	Err error
}

// Total returns the number of tests run for the file.
func (f *FileReport) Total() int {
	return len(f.Results)
}

// Passed returns the number of successful tests.
func (f *FileReport) Passed() int {
	n := 0
	for _, r := range f.Results {
		if r.Status.Success {
			n++
		}
	}
	return n
}

// Failed returns the failing results in order.
func (f *FileReport) Failed() []execution.Result {
	var failed []execution.Result
	for _, r := range f.Results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// PassRate returns the percentage of passing tests, 0 for an empty file.
func (f *FileReport) PassRate() float64 {
	if f.Total() == 0 {
		return 0
	}
	return 100 * float64(f.Passed()) / float64(f.Total())
}

// Report is the aggregate of a whole run, files in first-seen order.
type Report struct {
	Files []*FileReport
	index map[string]*FileReport
}

// New creates an empty report.
func New() *Report {
	return &Report{index: make(map[string]*FileReport)}
}

// Add appends a result to its file's group.
func (rep *Report) Add(r execution.Result) {
	file := rep.File(r.Test.Source.Name)
	file.Results = append(file.Results, r)
}

// AddError records a file that could not be parsed.
func (rep *Report) AddError(name string, err error) {
	rep.File(name).Err = err
}

// File returns the group for name, creating it if needed. Files with no
// tests still appear in the report once they have been touched.
func (rep *Report) File(name string) *FileReport {
	if f, ok := rep.index[name]; ok {
		return f
	}
	f := &FileReport{Name: name}
	rep.index[name] = f
	rep.Files = append(rep.Files, f)
	return f
}

// Total returns the number of tests across all files.
func (rep *Report) Total() int {
	n := 0
	for _, f := range rep.Files {
		n += f.Total()
	}
	return n
}

// FailedCount returns the number of failed tests across all files.
func (rep *Report) FailedCount() int {
	n := 0
	for _, f := range rep.Files {
		n += f.Total() - f.Passed()
	}
	return n
}

// ErrorCount returns the number of files that could not be parsed.
func (rep *Report) ErrorCount() int {
	n := 0
	for _, f := range rep.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// OK reports whether every test passed and every file parsed.
func (rep *Report) OK() bool {
	return rep.FailedCount() == 0 && rep.ErrorCount() == 0
}

// LineKind classifies a line of a rendered report.
type LineKind int

const (
	// LinePassed is the summary of a file whose tests all passed.
	LinePassed LineKind = iota
	// LineFailed is the summary of a file with failures, or the failure total.
	LineFailed
	// LineDetail is the failure block of one test.
	LineDetail
	// LineError is a file that could not be parsed, or the error total.
	LineError
)

// Line is one entry of a rendered report.
type Line struct {
	Kind LineKind
	Text string
}

// Lines renders per-file pass counts, details for each failure and the totals.
func (rep *Report) Lines(opts FormatOptions) []Line {
	var out []Line
	for _, f := range rep.Files {
		if f.Err != nil {
			out = append(out, Line{LineError, fmt.Sprintf("%s error: %v", f.Name, f.Err)})
			continue
		}
		kind := LinePassed
		if f.Passed() != f.Total() {
			kind = LineFailed
		}
		out = append(out, Line{kind, FileSummary(f)})
		for _, r := range f.Failed() {
			out = append(out, Line{LineDetail, FormatResult(r, opts)})
		}
	}
	if failed := rep.FailedCount(); failed > 0 {
		out = append(out, Line{LineFailed, fmt.Sprintf("%d test(s) failed", failed)})
	}
	if errored := rep.ErrorCount(); errored > 0 {
		out = append(out, Line{LineError, fmt.Sprintf("%d file(s) could not be parsed", errored)})
	}
	return out
}

// Format renders the report as plain text.
func (rep *Report) Format(opts FormatOptions) string {
	lines := rep.Lines(opts)
	text := make([]string, len(lines))
	for i, line := range lines {
		text[i] = line.Text
	}
	return strings.Join(text, "\n")
}

// FileSummary renders the pass count line for a file.
func FileSummary(f *FileReport) string {
	return fmt.Sprintf("%s %d of %d (%3.1f%%) passed", f.Name, f.Passed(), f.Total(), f.PassRate())
}
