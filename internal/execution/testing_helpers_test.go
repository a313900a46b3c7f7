package execution

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vrt/internal/config"
	"vrt/internal/domain"
	"vrt/internal/window"
)

type fakeHandle struct {
	once     sync.Once
	done     chan struct{}
	exitCode int
	killed   bool
	mu       sync.Mutex
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{done: make(chan struct{}), exitCode: -1}
}

func (h *fakeHandle) Pid() int              { return 4242 }
func (h *fakeHandle) Done() <-chan struct{} { return h.done }
func (h *fakeHandle) ExitCode() int         { return h.exitCode }

func (h *fakeHandle) Kill() error {
	h.mu.Lock()
	h.killed = true
	h.mu.Unlock()
	h.exit(-1)
	return nil
}

func (h *fakeHandle) exit(code int) {
	h.once.Do(func() {
		h.exitCode = code
		close(h.done)
	})
}

func (h *fakeHandle) wasKilled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.killed
}

type fakeLauncher struct {
	mu       sync.Mutex
	launched []string
	handles  []*fakeHandle
	err      error
	// exitImmediately makes the demo exit with this code right after start
	exitImmediately *int
}

func (l *fakeLauncher) Launch(ctx context.Context, dir, executable string, args []string) (Handle, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launched = append(l.launched, executable)
	h := newFakeHandle()
	if l.exitImmediately != nil {
		h.exit(*l.exitImmediately)
	}
	l.handles = append(l.handles, h)
	return h, nil
}

type fakeKiller struct {
	mu    sync.Mutex
	names []string
}

func (k *fakeKiller) KillByName(name string) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.names = append(k.names, name)
	return 1, nil
}

type fakeWindow struct {
	title        string
	foregrounded bool
}

func (w *fakeWindow) Title() string { return w.title }
func (w *fakeWindow) Foreground() error {
	w.foregrounded = true
	return nil
}
func (w *fakeWindow) ClientRect() (image.Rectangle, error) { return image.Rect(10, 10, 26, 26), nil }

// fakeLocator knows a fixed set of window titles
type fakeLocator struct {
	titles map[string]bool
}

func (l *fakeLocator) Find(title string) (window.Window, error) {
	if l.titles[title] {
		return &fakeWindow{title: title}, nil
	}
	return nil, fmt.Errorf("%w: %q", window.ErrNotFound, title)
}

// fakeCapturer renders a gradient seeded per title so different demos give different images
type fakeCapturer struct {
	seed uint8
}

func (c *fakeCapturer) Capture(r image.Rectangle) (image.Image, error) {
	return gradient(r.Dx(), r.Dy(), c.seed), nil
}

func gradient(w, h int, seed uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x*8) + seed, G: uint8(y * 8), B: seed, A: 255})
		}
	}
	return img
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	cfg.WindowTimeout = 50 * time.Millisecond
	cfg.PollInterval = time.Millisecond
	cfg.SettleDelay = 0
	cfg.FocusDelay = 0
	cfg.ExitTimeout = 100 * time.Millisecond
	return cfg
}

// makeCase creates the case folder and, when refSeed is non-nil, a reference
// image matching what fakeCapturer{seed: *refSeed} produces
func makeCase(t *testing.T, cfg *config.Config, name string, refSeed *uint8) domain.TestCase {
	t.Helper()
	dir := filepath.Join(cfg.ProjectPath, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	if refSeed != nil {
		require.NoError(t, window.SaveJPEG(gradient(16, 16, *refSeed), filepath.Join(dir, cfg.ReferenceFile)))
	}
	return domain.TestCase{
		Name:       name,
		Folder:     name,
		Executable: "../bin/" + name + ".exe",
		Process:    name + ".exe",
		Window:     name,
	}
}

func seed(v uint8) *uint8 { return &v }
