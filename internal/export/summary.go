// Package export writes a machine-readable YAML summary of a run.
package export

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"shelltest/internal/report"
)

// Summary is the YAML document written for a run.
type Summary struct {
	RunID     string        `yaml:"run_id"`
	StartedAt time.Time     `yaml:"started_at"`
	Duration  string        `yaml:"duration"`
	Total     int           `yaml:"total"`
	Passed    int           `yaml:"passed"`
	Failed    int           `yaml:"failed"`
	Errored   int           `yaml:"errored_files"`
	Files     []FileSummary `yaml:"files"`
}

// FileSummary describes one test file.
type FileSummary struct {
	Name   string        `yaml:"name"`
	Passed int           `yaml:"passed"`
	Total  int           `yaml:"total"`
	Error  string        `yaml:"error,omitempty"`
	Tests  []TestSummary `yaml:"tests,omitempty"`
}

// TestSummary describes one executed test.
type TestSummary struct {
	Line               int    `yaml:"line"`
	Command            string `yaml:"command"`
	ReturnCode         int    `yaml:"return_code"`
	Success            bool   `yaml:"success"`
	OutputVerified     bool   `yaml:"output_verified"`
	ReturnCodeVerified bool   `yaml:"return_code_verified"`
	DurationMS         int64  `yaml:"duration_ms"`
	Error              string `yaml:"error,omitempty"`
}

// NewSummary builds a summary with a fresh run id.
func NewSummary(rep *report.Report, startedAt time.Time, elapsed time.Duration) *Summary {
	s := &Summary{
		RunID:     uuid.New().String(),
		StartedAt: startedAt.UTC(),
		Duration:  elapsed.Round(time.Millisecond).String(),
		Total:     rep.Total(),
		Failed:    rep.FailedCount(),
		Errored:   rep.ErrorCount(),
	}
	s.Passed = s.Total - s.Failed

	for _, f := range rep.Files {
		fs := FileSummary{Name: f.Name, Passed: f.Passed(), Total: f.Total()}
		if f.Err != nil {
			fs.Error = f.Err.Error()
		}
		for _, r := range f.Results {
			ts := TestSummary{
				Line:               r.Test.Source.Line,
				Command:            r.Test.Command,
				ReturnCode:         r.ReturnCode,
				Success:            r.Status.Success,
				OutputVerified:     r.Status.OutputVerified,
				ReturnCodeVerified: r.Status.ReturnCodeVerified,
				DurationMS:         r.Duration.Milliseconds(),
			}
			if r.Err != nil {
				ts.Error = r.Err.Error()
			}
			fs.Tests = append(fs.Tests, ts)
		}
		s.Files = append(s.Files, fs)
	}
	return s
}

// Marshal renders the summary as YAML.
func (s *Summary) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}
	return data, nil
}

// WriteFile writes the YAML summary to path.
func (s *Summary) WriteFile(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return nil
}
