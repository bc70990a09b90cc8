// Package parser converts shell test files into ordered lists of tests.
// A file starts in a header where "#[sht] name = value" directives adjust the
// config; the first line starting with the command prompt switches to the body,
// where each command collects the lines after it as its expected output.
package parser

import (
	"errors"
	"fmt"

	"shelltest/internal/config"
)

// ErrMalformedDirective is returned in strict mode for a directive marker line
// that does not follow the "#[sht] name = value" form.
var ErrMalformedDirective = errors.New("malformed directive")

// State is the state of the parser state machine.
type State int

const (
	// StateHeader - before the first command; directives are honored
	StateHeader State = iota
	// StateBody - after the first command; lines are commands or expected output
	StateBody
)

// String returns a human-readable representation of the parser state.
func (s State) String() string {
	switch s {
	case StateHeader:
		return "Header"
	case StateBody:
		return "Body"
	default:
		return "Unknown"
	}
}

// Source identifies where a test's command appears.
type Source struct {
	Name string
	// Line is the 1-based line number of the command.
	Line int
}

// String formats the source as name:line.
func (s Source) String() string {
	return fmt.Sprintf("%s:%d", s.Name, s.Line)
}

// Test is one parsed command with its expectation.
type Test struct {
	// Command may span several physical lines joined by escaped newlines.
	Command string
	// ExpectedOutput holds the output lines verbatim, terminators included.
	ExpectedOutput string
	Source         Source
	// Config is the snapshot taken when the command line was recognized.
	Config *config.Config
}

// Error reports a parse failure at a specific line.
type Error struct {
	Source Source
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
