// Package window finds demo windows by title, raises them and captures their
// client area. The platform backends live in window_windows.go (user32) and
// window_x11.go (X11); other platforms report ErrUnsupported from Open.
package window

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"vrt/internal/domain"
)

// ErrNotFound is returned by a Locator when no window has the title.
// It is the same value as domain.ErrWindowNotFound.
var ErrNotFound = domain.ErrWindowNotFound

// ErrUnsupported is returned by Open on platforms without a backend
var ErrUnsupported = errors.New("window capture is not supported on this platform")

// Window is a top-level window on the desktop
type Window interface {
	Title() string
	// Foreground raises the window above all others and gives it focus
	Foreground() error
	// ClientRect is the drawable area in screen coordinates
	ClientRect() (image.Rectangle, error)
}

// Locator finds a window by exact title
type Locator interface {
	Find(title string) (Window, error)
}

// Display is a Locator bound to a desktop session that must be closed
type Display interface {
	Locator
	Close() error
}

// WaitFor polls loc until a window titled title exists or ctx is done.
// The returned error wraps ErrNotFound when the window never appeared.
func WaitFor(ctx context.Context, loc Locator, title string, interval time.Duration) (Window, error) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		w, err := loc.Find(title)
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("find window %q: %w", title, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %q (%v)", ErrNotFound, title, ctx.Err())
		case <-ticker.C:
		}
	}
}
