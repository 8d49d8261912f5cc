package win32

import (
	"runtime"
	"testing"

	"github.com/winkeep/winkeep/pkg/window"
)

func TestWinRectToRect(t *testing.T) {
	r := winRect{Left: -8, Top: 100, Right: 792, Bottom: 700}

	want := window.Rect{X: -8, Y: 100, Width: 800, Height: 600}
	if got := r.toRect(); got != want {
		t.Errorf("toRect() = %v, want %v", got, want)
	}
}

func TestDisplayServer(t *testing.T) {
	if got := New().DisplayServer(); got != "win32" {
		t.Errorf("DisplayServer() = %s, want win32", got)
	}
}

func TestAvailability(t *testing.T) {
	b := New()
	if runtime.GOOS != "windows" {
		if b.IsAvailable() {
			t.Error("IsAvailable() = true outside Windows")
		}
		if _, _, err := b.FindVisibleWindow("Replayer"); err != ErrUnsupported {
			t.Errorf("FindVisibleWindow() error = %v, want ErrUnsupported", err)
		}
		return
	}

	_, ok, err := b.FindVisibleWindow("winkeep-test-no-such-window-title")
	if err != nil || ok {
		t.Errorf("FindVisibleWindow() = %v, %v", ok, err)
	}
}

func TestInterface(t *testing.T) {
	var _ window.Backend = (*Backend)(nil)
}
