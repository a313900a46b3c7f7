package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"vrt/internal/config"
	"vrt/internal/discovery"
	"vrt/internal/domain"
	"vrt/internal/execution"
	"vrt/internal/storage"
	"vrt/internal/ui"
	"vrt/internal/window"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ErrTestsFailed is returned by the run command when any case failed
var ErrTestsFailed = errors.New("graphic tests failed")

// RunCommand handles the run command
type RunCommand struct {
	config      *config.Config
	filter      *discovery.Filter
	launcher    execution.Launcher
	killer      execution.Killer
	capturer    window.Capturer
	storage     storage.Storage
	formatter   *ui.Formatter
	viewer      ui.Viewer
	openDisplay func() (window.Display, error)
	progress    bool
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	launcher execution.Launcher,
	killer execution.Killer,
	capturer window.Capturer,
	st storage.Storage,
	formatter *ui.Formatter,
	viewer ui.Viewer,
) *RunCommand {
	return &RunCommand{
		config:      cfg,
		filter:      filter,
		launcher:    launcher,
		killer:      killer,
		capturer:    capturer,
		storage:     st,
		formatter:   formatter,
		viewer:      viewer,
		openDisplay: window.Open,
		progress:    true,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	suite, err := config.LoadSuite(rc.config.GetSuitePath())
	if err != nil {
		return err
	}

	cases := rc.filter.FilterByName(suite.Cases, rc.config.Flags.NameFilter)
	if len(cases) == 0 {
		color.Yellow("No graphic tests to execute")
		return nil
	}

	display, err := rc.openDisplay()
	if err != nil {
		return fmt.Errorf("open display: %w", err)
	}
	defer display.Close()

	summary := rc.execute(ctx, display, cases)

	if err := rc.storage.Save(summary); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}
	if err := rc.recordHistory(ctx, summary); err != nil {
		color.Yellow("History not recorded: %v", err)
	}

	if err := rc.formatter.PrintMetaStats(); err != nil {
		return err
	}

	if summary.Passed() {
		return nil
	}
	if rc.config.Flags.OpenFails && rc.viewer != nil {
		if out, err := rc.storage.Load(); err == nil {
			_ = rc.viewer.View(out)
		}
	}
	return ErrTestsFailed
}

func (rc *RunCommand) execute(ctx context.Context, locator window.Locator, cases []domain.TestCase) domain.RunSummary {
	runner := execution.NewRunner(rc.config, rc.launcher, rc.killer, locator, rc.capturer)
	suiteRunner := execution.NewSuiteRunner(runner, rc.config.Flags.KeepGoing)
	if rc.progress {
		suiteRunner.SetProgress(ui.NewProgressBar(len(cases)))
	}
	var executor execution.Executor = suiteRunner
	return executor.Execute(ctx, cases)
}

func (rc *RunCommand) recordHistory(ctx context.Context, summary domain.RunSummary) error {
	if rc.config.HistoryDSN == "" {
		return nil
	}
	history, err := storage.OpenHistory(ctx, rc.config.HistoryDriver, rc.config.HistoryDSN)
	if err != nil {
		return err
	}
	defer history.Close()
	return history.Record(ctx, summary)
}
