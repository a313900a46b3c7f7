//go:build windows

package window

import (
	"fmt"
	"image"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW         = user32.NewProc("FindWindowW")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procSetWindowPos        = user32.NewProc("SetWindowPos")
	procGetClientRect       = user32.NewProc("GetClientRect")
	procClientToScreen      = user32.NewProc("ClientToScreen")
	procKeybdEvent          = user32.NewProc("keybd_event")
)

const (
	vkMenu         = 0x12
	keyEventfKeyUp = 0x0002
	swpNoSize      = 0x0001
	swpNoMove      = 0x0002
	hwndTopMost    = ^uintptr(0) // (HWND)-1
)

type rect struct {
	Left, Top, Right, Bottom int32
}

type point struct {
	X, Y int32
}

type win32Display struct{}

// Open returns the user32 backend; there is no session to connect to
func Open() (Display, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("load user32: %w", err)
	}
	return win32Display{}, nil
}

func (win32Display) Close() error { return nil }

func (win32Display) Find(title string) (Window, error) {
	p, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return nil, err
	}
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(p)))
	if hwnd == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	return &win32Window{hwnd: hwnd, title: title}, nil
}

type win32Window struct {
	hwnd  uintptr
	title string
}

func (w *win32Window) Title() string { return w.title }

// Foreground raises the window. Windows only lets the process that received
// the last input event change the foreground window, so an Alt press is
// injected first.
func (w *win32Window) Foreground() error {
	procKeybdEvent.Call(vkMenu, 0, 0, 0)
	procKeybdEvent.Call(vkMenu, 0, keyEventfKeyUp, 0)

	if r, _, err := procSetForegroundWindow.Call(w.hwnd); r == 0 {
		return fmt.Errorf("SetForegroundWindow: %w", err)
	}
	if r, _, err := procSetWindowPos.Call(w.hwnd, hwndTopMost, 0, 0, 0, 0, swpNoSize|swpNoMove); r == 0 {
		return fmt.Errorf("SetWindowPos: %w", err)
	}
	return nil
}

func (w *win32Window) ClientRect() (image.Rectangle, error) {
	var rc rect
	if r, _, err := procGetClientRect.Call(w.hwnd, uintptr(unsafe.Pointer(&rc))); r == 0 {
		return image.Rectangle{}, fmt.Errorf("GetClientRect: %w", err)
	}

	origin := point{X: rc.Left, Y: rc.Top}
	if r, _, err := procClientToScreen.Call(w.hwnd, uintptr(unsafe.Pointer(&origin))); r == 0 {
		return image.Rectangle{}, fmt.Errorf("ClientToScreen: %w", err)
	}

	width := int(rc.Right - rc.Left)
	height := int(rc.Bottom - rc.Top)
	return image.Rect(int(origin.X), int(origin.Y), int(origin.X)+width, int(origin.Y)+height), nil
}
