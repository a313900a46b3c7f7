package execution

import (
	"context"
	"time"

	"vrt/internal/domain"
	"vrt/internal/ui"
)

// SuiteRunner runs test cases one after another. Demos share the display,
// so there is never more than one running.
type SuiteRunner struct {
	runner    CaseRunner
	keepGoing bool
	progress  *ui.ProgressBar
}

// NewSuiteRunner creates a new SuiteRunner. Unless keepGoing is set the run
// stops at the first failing case.
func NewSuiteRunner(runner CaseRunner, keepGoing bool) *SuiteRunner {
	return &SuiteRunner{
		runner:    runner,
		keepGoing: keepGoing,
	}
}

// SetProgress sets the progress bar for the suite runner
func (s *SuiteRunner) SetProgress(progress *ui.ProgressBar) {
	s.progress = progress
}

// Execute runs the cases in order and returns the summary. Cases that were
// not reached are listed in Skipped.
func (s *SuiteRunner) Execute(ctx context.Context, cases []domain.TestCase) domain.RunSummary {
	summary := domain.RunSummary{Started: time.Now()}
	var passed, failed int

	for i, tc := range cases {
		if ctx.Err() != nil {
			summary.Aborted = true
			summary.Skipped = append(summary.Skipped, cases[i:]...)
			break
		}

		if s.progress != nil {
			s.progress.Start(tc.Name, passed, failed)
		}
		result := s.runner.Run(ctx, tc)
		summary.Results = append(summary.Results, result)

		if result.Passed {
			passed++
		} else {
			failed++
		}
		if s.progress != nil {
			s.progress.Update(passed, failed)
		}

		if !result.Passed && !s.keepGoing {
			summary.Aborted = i < len(cases)-1
			summary.Skipped = append(summary.Skipped, cases[i+1:]...)
			break
		}
	}

	if s.progress != nil {
		s.progress.Finish()
	}
	summary.Duration = time.Since(summary.Started)
	return summary
}
