//go:build windows

package win32

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/winkeep/winkeep/pkg/window"
)

var (
	user32              = syscall.NewLazyDLL("user32.dll")
	procFindWindowW     = user32.NewProc("FindWindowW")
	procIsWindow        = user32.NewProc("IsWindow")
	procIsWindowVisible = user32.NewProc("IsWindowVisible")
	procGetWindowRect   = user32.NewProc("GetWindowRect")
	procSetWindowPos    = user32.NewProc("SetWindowPos")
)

// Backend implements window.Backend with user32 calls
type Backend struct{}

// New creates a new win32 backend
func New() *Backend {
	return &Backend{}
}

// IsAvailable reports whether user32.dll could be loaded
func (b *Backend) IsAvailable() bool {
	return user32.Load() == nil
}

// FindVisibleWindow looks up a top-level window by exact title and checks
// that it is visible.
func (b *Backend) FindVisibleWindow(title string) (window.Handle, bool, error) {
	name, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return 0, false, fmt.Errorf("invalid window title %q: %w", title, err)
	}

	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(name)))
	if hwnd == 0 {
		return 0, false, nil
	}

	visible, _, _ := procIsWindowVisible.Call(hwnd)
	if visible == 0 {
		return 0, false, nil
	}
	return window.Handle(hwnd), true, nil
}

// GetRect returns the outer window rectangle in screen coordinates
func (b *Backend) GetRect(h window.Handle) (window.Rect, bool, error) {
	hwnd := uintptr(h)

	if ok, _, _ := procIsWindow.Call(hwnd); ok == 0 {
		return window.Rect{}, false, nil
	}

	var r winRect
	ok, _, callErr := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	if ok == 0 {
		return window.Rect{}, false, fmt.Errorf("GetWindowRect failed: %w", callErr)
	}
	return r.toRect(), true, nil
}

// SetRect moves and resizes the window without changing z-order or focus
func (b *Backend) SetRect(h window.Handle, r window.Rect) error {
	ok, _, callErr := procSetWindowPos.Call(
		uintptr(h),
		0,
		uintptr(r.X),
		uintptr(r.Y),
		uintptr(r.Width),
		uintptr(r.Height),
		swpNoZOrder|swpNoActivate,
	)
	if ok == 0 {
		return fmt.Errorf("SetWindowPos failed: %w", callErr)
	}
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}
