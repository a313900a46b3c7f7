//go:build !windows && !linux && !freebsd && !openbsd && !netbsd

package window

// Open reports ErrUnsupported; there is no window backend for this platform
func Open() (Display, error) {
	return nil, ErrUnsupported
}
