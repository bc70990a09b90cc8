// Package execution runs parsed shell tests as external processes and
// classifies their results against the expected output and return code.
package execution

import (
	"time"

	"shelltest/internal/parser"
)

// ReturnCodeUnknown is recorded when no exit status could be obtained,
// e.g. when the interpreter could not be started.
const ReturnCodeUnknown = -1

// Status classifies a finished test.
type Status struct {
	// Success is OutputVerified && ReturnCodeVerified.
	Success            bool
	OutputVerified     bool
	ReturnCodeVerified bool
}

// Result is the outcome of running one test. It is never mutated after Run returns.
type Result struct {
	Test         parser.Test
	ActualOutput string
	// ErrOutput holds stderr unless the test's config merges it into ActualOutput.
	ErrOutput  string
	ReturnCode int
	Status     Status
	// Err describes a failure to run the process at all (spawn failure, timeout).
	Err      error
	Duration time.Duration
}

// Failed reports whether the result counts as a failed test.
func (r Result) Failed() bool {
	return !r.Status.Success
}
