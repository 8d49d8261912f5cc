package x11

import (
	"os"
	"reflect"
	"testing"

	"github.com/winkeep/winkeep/pkg/window"
)

func TestDecodeIDs(t *testing.T) {
	data := []byte{
		0x07, 0x00, 0x80, 0x02,
		0x01, 0x00, 0x00, 0x00,
		0xff, // trailing partial item is ignored
	}

	got := decodeIDs(data)
	want := []uint32{0x02800007, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decodeIDs() = %#x, want %#x", got, want)
	}
}

func TestMoveResizeData(t *testing.T) {
	got := moveResizeData(window.Rect{X: -10, Y: 20, Width: 800, Height: 600})

	if got[0] != 0x2f0a {
		t.Errorf("flags = %#x, want 0x2f0a", got[0])
	}
	if int32(got[1]) != -10 || got[2] != 20 || got[3] != 800 || got[4] != 600 {
		t.Errorf("moveResizeData() = %v", got)
	}
}

func TestConfigureValues(t *testing.T) {
	got := configureValues(window.Rect{X: -1, Y: 2, Width: 3, Height: 4})
	want := []uint32{0xffffffff, 2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("configureValues() = %v, want %v", got, want)
	}
}

func TestNativeAgainstDisplay(t *testing.T) {
	if os.Getenv("DISPLAY") == "" {
		t.Skip("no X display")
	}

	n, err := NewNative()
	if err != nil {
		t.Skipf("cannot connect to X server: %v", err)
	}
	defer n.Close()

	if !n.IsAvailable() {
		t.Error("IsAvailable() = false on an open connection")
	}

	_, ok, err := n.FindVisibleWindow("winkeep-test-no-such-window-title")
	if err != nil {
		t.Fatalf("FindVisibleWindow() error: %v", err)
	}
	if ok {
		t.Error("FindVisibleWindow() matched a window that does not exist")
	}

	if err := n.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if n.IsAvailable() {
		t.Error("IsAvailable() = true after Close")
	}
}

func TestNativeInterface(t *testing.T) {
	var _ window.Backend = (*Native)(nil)
}
