package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vrt/internal/domain"
)

// BuildOutput turns a run summary into the persisted results structure.
func BuildOutput(summary domain.RunSummary) *domain.TestResultsOutput {
	passed := 0
	failed := 0
	for _, r := range summary.Results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	started := summary.Started
	if started.IsZero() {
		started = time.Now()
	}

	details := summary.Failures()
	if details == nil {
		details = []domain.Failure{}
	}

	return &domain.TestResultsOutput{
		Meta: domain.TestResultsMeta{
			TotalCases:      len(summary.Results) + len(summary.Skipped),
			PassedCases:     passed,
			FailedCases:     failed,
			SkippedCases:    len(summary.Skipped),
			Aborted:         summary.Aborted,
			Duration:        summary.Duration.String(),
			DurationSeconds: summary.Duration.Seconds(),
			Timestamp:       started.Format(time.RFC3339),
		},
		Details: details,
	}
}

// Save writes the run summary to the configured JSON output file.
func (s *JSONStorage) Save(summary domain.RunSummary) error {
	return s.SaveOutput(BuildOutput(summary))
}

// Load reads the last test results from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.TestResultsOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.TestResultsOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file.
func (s *JSONStorage) SaveOutput(output *domain.TestResultsOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
