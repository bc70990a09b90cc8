// Package output provides the console printer used to report test runs.
// Styling is applied per semantic type and falls back to plain text when the
// terminal has no color support.
package output

import (
	"fmt"
	"strings"
)

// Mode defines how the printer decides whether to style output.
type Mode int

const (
	// ModeAuto styles output only when the terminal supports color
	ModeAuto Mode = iota

	// ModeStyled always styles output
	ModeStyled

	// ModePlain never styles output
	ModePlain
)

// String returns the flag value for the mode.
func (m Mode) String() string {
	switch m {
	case ModeStyled:
		return "always"
	case ModePlain:
		return "never"
	default:
		return "auto"
	}
}

// ParseMode maps a --color value to a Mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return ModeAuto, nil
	case "always":
		return ModeStyled, nil
	case "never":
		return ModePlain, nil
	default:
		return ModeAuto, fmt.Errorf("invalid color mode %q (expected auto, always or never)", value)
	}
}

// SemanticType defines the meaning of a line for consistent styling.
type SemanticType string

const (
	// SemanticPlain represents text without any semantic meaning.
	SemanticPlain SemanticType = "plain"
	// SemanticSuccess represents a passing file or test.
	SemanticSuccess SemanticType = "success"
	// SemanticFailure represents a failing file or test.
	SemanticFailure SemanticType = "failure"
	// SemanticError represents a file that could not be run at all.
	SemanticError SemanticType = "error"
	// SemanticProgress represents per-test progress lines.
	SemanticProgress SemanticType = "progress"
	// SemanticDetail represents failure details.
	SemanticDetail SemanticType = "detail"
)
