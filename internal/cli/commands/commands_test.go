package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrt/internal/config"
	"vrt/internal/discovery"
	"vrt/internal/domain"
	"vrt/internal/execution"
	"vrt/internal/storage"
	"vrt/internal/ui"
	"vrt/internal/window"
)

type stubHandle struct {
	once sync.Once
	done chan struct{}
}

func (h *stubHandle) Pid() int              { return 1 }
func (h *stubHandle) Done() <-chan struct{} { return h.done }
func (h *stubHandle) ExitCode() int         { return -1 }
func (h *stubHandle) Kill() error {
	h.once.Do(func() { close(h.done) })
	return nil
}

type stubLauncher struct{}

func (stubLauncher) Launch(ctx context.Context, dir, executable string, args []string) (execution.Handle, error) {
	return &stubHandle{done: make(chan struct{})}, nil
}

type stubWindow struct{ title string }

func (w stubWindow) Title() string                        { return w.title }
func (w stubWindow) Foreground() error                    { return nil }
func (w stubWindow) ClientRect() (image.Rectangle, error) { return image.Rect(0, 0, 8, 8), nil }

// stubDisplay shows every window whose title is known
type stubDisplay struct {
	titles map[string]bool
	closed bool
}

func (d *stubDisplay) Find(title string) (window.Window, error) {
	if d.titles[title] {
		return stubWindow{title: title}, nil
	}
	return nil, fmt.Errorf("%w: %q", window.ErrNotFound, title)
}

func (d *stubDisplay) Close() error {
	d.closed = true
	return nil
}

type solidCapturer struct{ shade uint8 }

func (c solidCapturer) Capture(r image.Rectangle) (image.Image, error) {
	return solid(r.Dx(), r.Dy(), c.shade), nil
}

func solid(w, h int, shade uint8) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: shade, G: shade, B: 255 - shade, A: 255})
		}
	}
	return img
}

type recordingViewer struct {
	viewed *domain.TestResultsOutput
}

func (v *recordingViewer) View(results *domain.TestResultsOutput) error {
	v.viewed = results
	return nil
}

// setupProject writes a one-case suite whose reference image is a solid shade of 10
func setupProject(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	cfg.WindowTimeout = 50 * time.Millisecond
	cfg.PollInterval = time.Millisecond
	cfg.SettleDelay = 0
	cfg.FocusDelay = 0
	cfg.ExitTimeout = 50 * time.Millisecond

	dir := filepath.Join(cfg.ProjectPath, "Hello Triangle")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, window.SaveJPEG(solid(8, 8, 10), filepath.Join(dir, cfg.ReferenceFile)))

	suite := "cases:\n  - name: Hello Triangle\n    folder: Hello Triangle\n    executable: bin/Hello Triangle.exe\n    window: Hello Triangle\n"
	require.NoError(t, os.WriteFile(cfg.GetSuitePath(), []byte(suite), 0644))
	return cfg
}

func newTestRunCommand(cfg *config.Config, display *stubDisplay, shade uint8, viewer ui.Viewer) (*RunCommand, *bytes.Buffer) {
	var out bytes.Buffer
	formatter := ui.NewFormatter(cfg)
	formatter.SetOutput(&out)
	rc := NewRunCommand(cfg, discovery.NewFilter(), stubLauncher{}, nil, solidCapturer{shade: shade},
		storage.NewJSONStorage(cfg), formatter, viewer)
	rc.openDisplay = func() (window.Display, error) { return display, nil }
	rc.progress = false
	return rc, &out
}

func testCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestRunCommand_Passes(t *testing.T) {
	cfg := setupProject(t)
	display := &stubDisplay{titles: map[string]bool{"Hello Triangle": true}}
	rc, out := newTestRunCommand(cfg, display, 10, nil)

	require.NoError(t, rc.Execute(testCmd(), nil))
	assert.True(t, display.closed)
	assert.Contains(t, out.String(), "All graphic tests passed!")

	results, err := storage.NewJSONStorage(cfg).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, results.Meta.PassedCases)
	assert.Empty(t, results.Details)
	assert.NoFileExists(t, filepath.Join(cfg.ProjectPath, "Hello Triangle", cfg.CaptureFile))
}

func TestRunCommand_MismatchFails(t *testing.T) {
	cfg := setupProject(t)
	cfg.Flags.OpenFails = true
	display := &stubDisplay{titles: map[string]bool{"Hello Triangle": true}}
	viewer := &recordingViewer{}
	rc, out := newTestRunCommand(cfg, display, 200, viewer)

	err := rc.Execute(testCmd(), nil)
	require.ErrorIs(t, err, ErrTestsFailed)
	assert.Contains(t, out.String(), "1 graphic test(s) failed")

	require.NotNil(t, viewer.viewed)
	require.Len(t, viewer.viewed.Details, 1)
	assert.Equal(t, "image-mismatch", viewer.viewed.Details[0].Kind)
	assert.FileExists(t, filepath.Join(cfg.ProjectPath, "Hello Triangle", cfg.CaptureFile))
}

func TestRunCommand_WindowMissing(t *testing.T) {
	cfg := setupProject(t)
	display := &stubDisplay{}
	rc, _ := newTestRunCommand(cfg, display, 10, nil)

	err := rc.Execute(testCmd(), nil)
	require.ErrorIs(t, err, ErrTestsFailed)

	results, err := storage.NewJSONStorage(cfg).Load()
	require.NoError(t, err)
	require.Len(t, results.Details, 1)
	assert.Equal(t, "window-not-found", results.Details[0].Kind)
}

func TestRunCommand_NoMatchingCases(t *testing.T) {
	cfg := setupProject(t)
	cfg.Flags.NameFilter = "Nothing*"
	rc, _ := newTestRunCommand(cfg, &stubDisplay{}, 10, nil)
	rc.openDisplay = func() (window.Display, error) {
		t.Fatal("display opened with nothing to run")
		return nil, nil
	}

	require.NoError(t, rc.Execute(testCmd(), nil))
}

func TestRunCommand_DisplayUnavailable(t *testing.T) {
	cfg := setupProject(t)
	rc, _ := newTestRunCommand(cfg, nil, 10, nil)
	rc.openDisplay = func() (window.Display, error) { return nil, window.ErrUnsupported }

	err := rc.Execute(testCmd(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, window.ErrUnsupported))
}

func TestListCommand_MarksLastFailures(t *testing.T) {
	cfg := setupProject(t)
	st := storage.NewJSONStorage(cfg)
	require.NoError(t, st.SaveOutput(&domain.TestResultsOutput{
		Details: []domain.Failure{{TestName: "Hello Triangle", Kind: "image-mismatch"}},
	}))

	var out bytes.Buffer
	formatter := ui.NewFormatter(cfg)
	formatter.SetOutput(&out)
	lc := NewListCommand(cfg, discovery.NewFilter(), formatter, st)

	require.NoError(t, lc.Execute(testCmd(), nil))
	assert.Contains(t, out.String(), "Hello Triangle")
	assert.Contains(t, out.String(), "[F]")
}

func TestListCommand_Discover(t *testing.T) {
	cfg := setupProject(t)
	cfg.Flags.Discover = true
	lc := NewListCommand(cfg, discovery.NewFilter(), ui.NewFormatter(cfg), storage.NewJSONStorage(cfg))

	cmd := testCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, lc.Execute(cmd, []string{"."}))

	suite, err := config.ParseSuite(out.Bytes())
	require.NoError(t, err)
	require.Len(t, suite.Cases, 1)
	assert.Equal(t, "Hello Triangle", suite.Cases[0].Name)
	assert.Equal(t, "Hello Triangle", suite.Cases[0].Folder)
	assert.True(t, strings.HasSuffix(suite.Cases[0].Executable, "Hello Triangle.exe"))
}

func TestHistoryCommand_Disabled(t *testing.T) {
	cfg := config.New()
	hc := NewHistoryCommand(cfg, ui.NewFormatter(cfg))
	require.ErrorIs(t, hc.Execute(testCmd(), nil), ErrNoHistory)
}

func TestHistoryCommand_ShowsRecordedRuns(t *testing.T) {
	cfg := setupProject(t)
	cfg.HistoryDriver = "sqlite"
	cfg.HistoryDSN = filepath.Join(t.TempDir(), "history.db")
	cfg.Flags.HistoryLimit = 10

	display := &stubDisplay{titles: map[string]bool{"Hello Triangle": true}}
	rc, _ := newTestRunCommand(cfg, display, 10, nil)
	require.NoError(t, rc.Execute(testCmd(), nil))

	var out bytes.Buffer
	formatter := ui.NewFormatter(cfg)
	formatter.SetOutput(&out)
	require.NoError(t, NewHistoryCommand(cfg, formatter).Execute(testCmd(), nil))
	assert.Contains(t, out.String(), "Hello Triangle")
	assert.Contains(t, out.String(), "pass")
}
