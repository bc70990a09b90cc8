// Package shelltesting runs shell test files from regular Go tests.
//
//	func TestShell(t *testing.T) {
//		shelltesting.Run(t, "testdata")
//	}
//
// Every file becomes a subtest named after its path relative to the root, and
// every command in it a nested subtest named after its line.
package shelltesting

import (
	"fmt"
	"path/filepath"
	"regexp"
	"testing"

	"shelltest/internal/config"
	"shelltest/internal/discovery"
	"shelltest/internal/execution"
	"shelltest/internal/parser"
	"shelltest/internal/report"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Run discovers the shell test files under root and runs them as subtests.
func Run(t *testing.T, root string) {
	t.Helper()
	RunWithConfig(t, root, config.New())
}

// RunWithConfig is Run with a custom starting config for every file.
func RunWithConfig(t *testing.T, root string, cfg *config.Config) {
	t.Helper()

	files, err := discovery.Find([]string{root}, cfg.ShellTestExts())
	if err != nil {
		t.Fatalf("shell test discovery failed: %v", err)
	}

	runner := execution.NewRunner()
	for _, file := range files {
		t.Run(TestName(file, root), func(t *testing.T) {
			tests, err := parser.ParseFile(file, cfg, parser.Options{})
			if err != nil {
				t.Fatalf("%v", err)
			}
			for _, test := range tests {
				t.Run(fmt.Sprintf("line_%d", test.Source.Line), func(t *testing.T) {
					res := runner.Run(t.Context(), test)
					if res.Failed() {
						t.Error(report.FormatResult(res, report.FormatOptions{}))
					}
				})
			}
		})
	}
}

// TestName converts the path of a test file relative to root into a subtest
// name with every non-alphanumeric character replaced by an underscore.
func TestName(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return nonAlphanumeric.ReplaceAllString(rel, "_")
}
