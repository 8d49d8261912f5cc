//go:build !windows

package win32

import "github.com/winkeep/winkeep/pkg/window"

// Backend is unavailable outside Windows
type Backend struct{}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) IsAvailable() bool {
	return false
}

func (b *Backend) FindVisibleWindow(string) (window.Handle, bool, error) {
	return 0, false, ErrUnsupported
}

func (b *Backend) GetRect(window.Handle) (window.Rect, bool, error) {
	return window.Rect{}, false, ErrUnsupported
}

func (b *Backend) SetRect(window.Handle, window.Rect) error {
	return ErrUnsupported
}

func (b *Backend) Close() error {
	return nil
}
