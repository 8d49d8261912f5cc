package x11

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/winkeep/winkeep/pkg/integrations/common"
	"github.com/winkeep/winkeep/pkg/window"
)

// Xdotool drives windows through the xdotool command. It is the fallback
// when the X server cannot be reached directly.
type Xdotool struct {
	hasXdotool bool
	run        common.Runner
}

// NewXdotool creates a new xdotool backend
func NewXdotool() *Xdotool {
	return &Xdotool{
		hasXdotool: common.CommandExists("xdotool"),
		run:        common.Output,
	}
}

// IsAvailable checks if xdotool is installed
func (x *Xdotool) IsAvailable() bool {
	return x.hasXdotool
}

// DisplayServer returns "x11"
func (x *Xdotool) DisplayServer() string {
	return "x11"
}

// FindVisibleWindow searches visible windows whose name matches title
// exactly. xdotool exits with status 1 when nothing matches.
func (x *Xdotool) FindVisibleWindow(title string) (window.Handle, bool, error) {
	out, err := x.run("xdotool", "search", "--onlyvisible", "--name", titlePattern(title))
	if err != nil {
		if common.IsExit(err, 1) && strings.TrimSpace(string(out)) == "" {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to search x11 windows: %w", err)
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		id, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("unexpected window id %q from xdotool", line)
		}
		return window.Handle(id), true, nil
	}
	return 0, false, nil
}

// GetRect reads the window geometry. A destroyed window is reported as not
// found.
func (x *Xdotool) GetRect(h window.Handle) (window.Rect, bool, error) {
	out, err := x.run("xdotool", "getwindowgeometry", "--shell", handleArg(h))
	if err != nil {
		if common.StderrContains(err, "BadWindow") {
			return window.Rect{}, false, nil
		}
		return window.Rect{}, false, fmt.Errorf("failed to get window geometry: %w", err)
	}

	r, err := parseShellGeometry(string(out))
	if err != nil {
		return window.Rect{}, false, err
	}
	return r, true, nil
}

// SetRect moves then resizes the window
func (x *Xdotool) SetRect(h window.Handle, r window.Rect) error {
	id := handleArg(h)

	// "--" keeps negative coordinates from being read as options
	if _, err := x.run("xdotool", "windowmove", id, "--", itoa(r.X), itoa(r.Y)); err != nil {
		return fmt.Errorf("failed to move window: %w", err)
	}
	if _, err := x.run("xdotool", "windowsize", id, itoa(r.Width), itoa(r.Height)); err != nil {
		return fmt.Errorf("failed to resize window: %w", err)
	}
	return nil
}

// Close cleans up resources
func (x *Xdotool) Close() error {
	return nil
}

// titlePattern anchors title so xdotool's regex search matches it exactly
func titlePattern(title string) string {
	return "^" + regexp.QuoteMeta(title) + "$"
}

// parseShellGeometry parses `xdotool getwindowgeometry --shell` output:
//
//	WINDOW=12345
//	X=100
//	Y=50
//	WIDTH=800
//	HEIGHT=600
//	SCREEN=0
func parseShellGeometry(output string) (window.Rect, error) {
	values := make(map[string]int32)
	for _, line := range strings.Split(output, "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "X", "Y", "WIDTH", "HEIGHT":
			n, err := strconv.ParseInt(val, 10, 32)
			if err != nil {
				return window.Rect{}, fmt.Errorf("invalid %s in xdotool output: %q", key, val)
			}
			values[key] = int32(n)
		}
	}

	for _, key := range []string{"X", "Y", "WIDTH", "HEIGHT"} {
		if _, ok := values[key]; !ok {
			return window.Rect{}, fmt.Errorf("missing %s in xdotool output", key)
		}
	}

	return window.Rect{
		X:      values["X"],
		Y:      values["Y"],
		Width:  values["WIDTH"],
		Height: values["HEIGHT"],
	}, nil
}

func handleArg(h window.Handle) string {
	return strconv.FormatUint(uint64(h), 10)
}

func itoa(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}
