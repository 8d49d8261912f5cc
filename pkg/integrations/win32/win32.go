// Package win32 finds and positions top-level windows through user32.dll.
package win32

import (
	"errors"

	"github.com/winkeep/winkeep/pkg/window"
)

// ErrUnsupported is returned by every operation on non-Windows builds
var ErrUnsupported = errors.New("win32 backend is only available on Windows")

// SetWindowPos flags
const (
	swpNoZOrder   = 0x0004
	swpNoActivate = 0x0010
)

// winRect mirrors the Win32 RECT structure
type winRect struct {
	Left, Top, Right, Bottom int32
}

func (r winRect) toRect() window.Rect {
	return window.Rect{
		X:      r.Left,
		Y:      r.Top,
		Width:  r.Right - r.Left,
		Height: r.Bottom - r.Top,
	}
}

// DisplayServer returns "win32"
func (b *Backend) DisplayServer() string {
	return "win32"
}
