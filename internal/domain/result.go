package domain

import "time"

// CaseResult represents the outcome of a single test case
type CaseResult struct {
	Case            TestCase
	Passed          bool
	Err             error         // Why the case failed; nil when Passed
	CapturePath     string        // Where the capture was written
	ReferencePath   string        // The image it was compared against
	CaptureDigest   string        // SHA-1 of the capture, hex
	ReferenceDigest string        // SHA-1 of the reference, hex
	CaptureKept     bool          // Capture left on disk for inspection
	Duration        time.Duration // Time taken to execute
}

// Failure converts a failed result into its persisted form
func (r CaseResult) Failure() Failure {
	f := Failure{
		TestName:        r.Case.Name,
		Folder:          r.Case.Folder,
		Window:          r.Case.Window,
		Kind:            Kind(r.Err),
		ReferencePath:   r.ReferencePath,
		CaptureDigest:   r.CaptureDigest,
		ReferenceDigest: r.ReferenceDigest,
	}
	if r.Err != nil {
		f.Message = r.Err.Error()
	}
	if r.CaptureKept {
		f.CapturePath = r.CapturePath
	}
	return f
}

// RunSummary is the outcome of a whole suite run
type RunSummary struct {
	Results  []CaseResult
	Skipped  []TestCase // Cases not executed because the run stopped early
	Aborted  bool       // Stopped at the first failure
	Duration time.Duration
	Started  time.Time
}

// Passed reports whether every executed case passed and none were skipped
func (s RunSummary) Passed() bool {
	if len(s.Skipped) > 0 {
		return false
	}
	for _, r := range s.Results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// Failures returns the persisted form of every failed result
func (s RunSummary) Failures() []Failure {
	var failures []Failure
	for _, r := range s.Results {
		if !r.Passed {
			failures = append(failures, r.Failure())
		}
	}
	return failures
}

// TestResultsMeta contains metadata about a test run
type TestResultsMeta struct {
	TotalCases      int     `json:"total_cases"`
	PassedCases     int     `json:"passed_cases"`
	FailedCases     int     `json:"failed_cases"`
	SkippedCases    int     `json:"skipped_cases"`
	Aborted         bool    `json:"aborted"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// TestResultsOutput is the complete output structure for test results
type TestResultsOutput struct {
	Meta    TestResultsMeta `json:"meta"`
	Details []Failure       `json:"details"`
}
