package execution

import (
	"slices"
	"strings"
)

// Verify computes the status of a test from its output and return code.
func Verify(expected, actual string, returnCode int, ignoreWhitespace bool) Status {
	rcVerified := returnCode == 0
	outVerified := OutputMatches(expected, actual, ignoreWhitespace)
	return Status{
		Success:            rcVerified && outVerified,
		OutputVerified:     outVerified,
		ReturnCodeVerified: rcVerified,
	}
}

// OutputMatches compares actual against expected output. When ignoreWhitespace
// is set, both sides are reduced to their trimmed non-blank lines before
// comparing; otherwise the outputs must be byte-for-byte equal.
func OutputMatches(expected, actual string, ignoreWhitespace bool) bool {
	if !ignoreWhitespace {
		return expected == actual
	}
	return slices.Equal(significantLines(expected), significantLines(actual))
}

func significantLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
