// Package backend picks the window backend for the running session.
package backend

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/winkeep/winkeep/pkg/integrations/hybrid"
)

// New returns the backend chain for prefer on the detected display server
func New(prefer string, logger *slog.Logger) (*hybrid.Backend, error) {
	return hybrid.New(prefer, DetectDisplayServer(), logger)
}

// DetectDisplayServer reports "win32", "wayland", "x11" or "unknown"
func DetectDisplayServer() string {
	return detect(runtime.GOOS)
}

func detect(goos string) string {
	if goos == "windows" {
		return "win32"
	}

	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}
