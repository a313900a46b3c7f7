package window

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"github.com/kbinani/screenshot"

	"vrt/internal/domain"
)

// JPEGQuality matches the encoder settings the reference images were made with
const JPEGQuality = 75

// Capturer grabs a region of the screen
type Capturer interface {
	Capture(r image.Rectangle) (image.Image, error)
}

// ScreenCapturer captures from the live desktop
type ScreenCapturer struct{}

// NewScreenCapturer creates a new ScreenCapturer
func NewScreenCapturer() *ScreenCapturer {
	return &ScreenCapturer{}
}

// Capture grabs the screen pixels inside r
func (ScreenCapturer) Capture(r image.Rectangle) (image.Image, error) {
	if r.Empty() {
		return nil, fmt.Errorf("%w: empty region %v", domain.ErrCaptureFailed, r)
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCaptureFailed, err)
	}
	return img, nil
}

// SaveJPEG encodes img to path, replacing any previous capture
func SaveJPEG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCaptureFailed, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrCaptureFailed, path, err)
	}
	return f.Close()
}
