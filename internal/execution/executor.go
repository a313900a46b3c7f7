package execution

import (
	"context"

	"vrt/internal/domain"
)

// Executor executes a suite of test cases and returns the run summary
type Executor interface {
	Execute(ctx context.Context, cases []domain.TestCase) domain.RunSummary
}

var _ Executor = (*SuiteRunner)(nil)
