package domain

import (
	"errors"
)

var (
	// ErrWindowNotFound is returned when no window with the expected title appeared in time
	ErrWindowNotFound = errors.New("window not found")
	// ErrImageMismatch is returned when the capture differs from the reference
	ErrImageMismatch = errors.New("image mismatch")
	// ErrProcessLaunch is returned when the demo executable could not be started
	ErrProcessLaunch = errors.New("process launch failed")
	// ErrReferenceMissing is returned when the reference image does not exist
	ErrReferenceMissing = errors.New("reference image missing")
	// ErrCaptureFailed is returned when the window region could not be captured or saved
	ErrCaptureFailed = errors.New("capture failed")
)

// Kind returns a short label for the error kind of err
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrWindowNotFound):
		return "window-not-found"
	case errors.Is(err, ErrImageMismatch):
		return "image-mismatch"
	case errors.Is(err, ErrProcessLaunch):
		return "process-launch-failure"
	case errors.Is(err, ErrReferenceMissing):
		return "reference-missing"
	case errors.Is(err, ErrCaptureFailed):
		return "capture-failure"
	}
	return "error"
}

// Failure represents a failed test case as persisted in the results file
type Failure struct {
	TestName        string `json:"test_name"`
	Folder          string `json:"folder"`
	Window          string `json:"window"`
	Kind            string `json:"kind"`
	Message         string `json:"message"`
	CapturePath     string `json:"capture_path,omitempty"`
	ReferencePath   string `json:"reference_path,omitempty"`
	CaptureDigest   string `json:"capture_digest,omitempty"`
	ReferenceDigest string `json:"reference_digest,omitempty"`
	Resolved        bool   `json:"resolved,omitempty"` // Track if the failure is marked as resolved
}
