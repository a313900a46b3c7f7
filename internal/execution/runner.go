package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vrt/internal/compare"
	"vrt/internal/config"
	"vrt/internal/domain"
	"vrt/internal/window"
)

// CaseRunner executes a single visual test case
type CaseRunner interface {
	Run(ctx context.Context, tc domain.TestCase) domain.CaseResult
}

// Runner launches a demo, captures its window and compares it with the reference
type Runner struct {
	config   *config.Config
	launcher Launcher
	killer   Killer
	locator  window.Locator
	capturer window.Capturer
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, launcher Launcher, killer Killer, locator window.Locator, capturer window.Capturer) *Runner {
	return &Runner{
		config:   cfg,
		launcher: launcher,
		killer:   killer,
		locator:  locator,
		capturer: capturer,
	}
}

// Run executes one test case. The demo is always killed before Run returns,
// whatever the outcome.
func (r *Runner) Run(ctx context.Context, tc domain.TestCase) (res domain.CaseResult) {
	start := time.Now()
	dir := r.config.ResolveFolder(tc.Folder)
	res = domain.CaseResult{
		Case:          tc,
		CapturePath:   filepath.Join(dir, r.config.CaptureFile),
		ReferencePath: filepath.Join(dir, r.config.ReferenceFile),
	}
	defer func() {
		res.Duration = time.Since(start)
		res.Passed = res.Err == nil
	}()

	// A leftover capture from an earlier failed run must not be compared by accident
	if err := os.Remove(res.CapturePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		res.Err = fmt.Errorf("remove stale capture: %w", err)
		return res
	}

	proc, err := r.launcher.Launch(ctx, dir, tc.Executable, tc.Args)
	if err != nil {
		res.Err = err
		return res
	}
	defer r.stop(tc, proc)

	res.Err = r.check(ctx, tc, proc, &res)
	return res
}

// check runs the window part of the contract: wait, raise, capture, compare
func (r *Runner) check(ctx context.Context, tc domain.TestCase, proc Handle, res *domain.CaseResult) error {
	waitCtx, cancel := context.WithTimeout(ctx, r.config.WindowTimeout)
	defer cancel()
	go func() {
		select {
		case <-proc.Done():
			cancel()
		case <-waitCtx.Done():
		}
	}()

	w, err := window.WaitFor(waitCtx, r.locator, tc.Window, r.config.PollInterval)
	if err != nil {
		select {
		case <-proc.Done():
			return fmt.Errorf("%w: %q: process exited with code %d before its window appeared",
				domain.ErrWindowNotFound, tc.Window, proc.ExitCode())
		default:
		}
		return err
	}

	if err := sleep(ctx, r.config.SettleDelay); err != nil {
		return err
	}
	if err := w.Foreground(); err != nil {
		return fmt.Errorf("%w: foreground %q: %v", domain.ErrCaptureFailed, tc.Window, err)
	}
	if err := sleep(ctx, r.config.FocusDelay); err != nil {
		return err
	}

	rect, err := w.ClientRect()
	if err != nil {
		return fmt.Errorf("%w: client area of %q: %v", domain.ErrCaptureFailed, tc.Window, err)
	}
	img, err := r.capturer.Capture(rect)
	if err != nil {
		return err
	}
	if err := window.SaveJPEG(img, res.CapturePath); err != nil {
		return err
	}

	cmp, err := compare.Verify(res.CapturePath, res.ReferencePath)
	res.CaptureDigest = cmp.CaptureDigest
	res.ReferenceDigest = cmp.ReferenceDigest
	res.CaptureKept = !cmp.Equal
	return err
}

// stop kills the demo by process name, then makes sure our own child is gone too
func (r *Runner) stop(tc domain.TestCase, proc Handle) {
	if r.killer != nil {
		_, _ = r.killer.KillByName(tc.ProcessName())
	}
	_ = proc.Kill()

	select {
	case <-proc.Done():
	case <-time.After(r.config.ExitTimeout):
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
