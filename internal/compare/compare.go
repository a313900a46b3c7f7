// Package compare checks a captured image against its reference.
//
// The comparison is byte-for-byte on the encoded files. SHA-1 digests of
// both files are reported so that a failure can be matched against earlier
// runs without keeping every capture. sha1 is fine here; this is not a
// cryptographic task.
package compare

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"vrt/internal/domain"
)

// Result is the outcome of comparing a capture with a reference
type Result struct {
	Equal           bool
	CaptureDigest   string
	ReferenceDigest string
	CaptureSize     int
	ReferenceSize   int
}

// Files compares the two files byte-for-byte
func Files(capturePath, referencePath string) (Result, error) {
	reference, err := os.ReadFile(referencePath)
	if errors.Is(err, fs.ErrNotExist) {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrReferenceMissing, referencePath)
	}
	if err != nil {
		return Result{}, fmt.Errorf("read reference: %w", err)
	}

	capture, err := os.ReadFile(capturePath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: read capture: %v", domain.ErrCaptureFailed, err)
	}

	return Result{
		Equal:           bytes.Equal(capture, reference),
		CaptureDigest:   Digest(capture),
		ReferenceDigest: Digest(reference),
		CaptureSize:     len(capture),
		ReferenceSize:   len(reference),
	}, nil
}

// Verify compares the capture with the reference. A matching capture is
// deleted; a mismatching one is left on disk and ErrImageMismatch returned.
func Verify(capturePath, referencePath string) (Result, error) {
	res, err := Files(capturePath, referencePath)
	if err != nil {
		return res, err
	}

	if !res.Equal {
		return res, fmt.Errorf("%w: capture %s (%d bytes, sha1 %s) differs from reference (%d bytes, sha1 %s)",
			domain.ErrImageMismatch, capturePath, res.CaptureSize, short(res.CaptureDigest),
			res.ReferenceSize, short(res.ReferenceDigest))
	}

	if err := os.Remove(capturePath); err != nil {
		return res, fmt.Errorf("remove matching capture: %w", err)
	}
	return res, nil
}

// Digest returns the hex SHA-1 of data
func Digest(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func short(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
