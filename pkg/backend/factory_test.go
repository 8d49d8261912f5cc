package backend

import (
	"testing"
)

func TestNew(t *testing.T) {
	b, err := New("auto", nil)
	if err != nil {
		t.Logf("New() returned error (may be expected): %v", err)
		return
	}

	if b == nil {
		t.Fatal("New() returned nil backend without error")
	}

	t.Logf("Detected display server: %s via %s", b.DisplayServer(), b.Active())

	_, found, err := b.FindVisibleWindow("winkeep-test-no-such-window-title")
	if err != nil {
		t.Logf("FindVisibleWindow() error: %v", err)
	} else if found {
		t.Error("FindVisibleWindow() matched a window that does not exist")
	}

	if err := b.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name           string
		sessionType    string
		waylandDisplay string
		x11Display     string
		expected       string
	}{
		{
			name:           "Wayland session",
			sessionType:    "wayland",
			waylandDisplay: "wayland-0",
			expected:       "wayland",
		},
		{
			name:        "X11 session",
			sessionType: "x11",
			x11Display:  ":0",
			expected:    "x11",
		},
		{
			name:     "Unknown session",
			expected: "unknown",
		},
		{
			name:           "Wayland display set",
			waylandDisplay: "wayland-1",
			expected:       "wayland",
		},
		{
			name:       "X11 display set",
			x11Display: ":1",
			expected:   "x11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tt.sessionType)
			t.Setenv("WAYLAND_DISPLAY", tt.waylandDisplay)
			t.Setenv("DISPLAY", tt.x11Display)

			if result := detect("linux"); result != tt.expected {
				t.Errorf("detect() = %s, want %s", result, tt.expected)
			}
		})
	}
}

func TestDetectWindows(t *testing.T) {
	t.Setenv("DISPLAY", ":0")
	if result := detect("windows"); result != "win32" {
		t.Errorf("detect(windows) = %s, want win32", result)
	}
}

func TestNewSwayWithoutSocket(t *testing.T) {
	t.Setenv("XDG_SESSION_TYPE", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("DISPLAY", "")
	t.Setenv("SWAYSOCK", "")

	b, err := New("sway", nil)
	if err == nil {
		t.Errorf("New(sway) succeeded without SWAYSOCK: %s", b.Active())
		b.Close()
	}
}
