package window

import "fmt"

// Handle is an opaque, backend-specific window identifier
type Handle uint64

// Rect is a window geometry in screen pixel coordinates
type Rect struct {
	X      int32 `json:"x" yaml:"x"`
	Y      int32 `json:"y" yaml:"y"`
	Width  int32 `json:"width" yaml:"width"`
	Height int32 `json:"height" yaml:"height"`
}

// Point is a top-left screen position
type Point struct {
	X int32 `json:"x" yaml:"x"`
	Y int32 `json:"y" yaml:"y"`
}

// Origin returns the top-left corner of the rectangle
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// MovedTo returns a copy of r with its top-left corner at p and its size unchanged
func (r Rect) MovedTo(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("x=%d y=%d w=%d h=%d", r.X, r.Y, r.Width, r.Height)
}

// Backend is the interface that all window system integrations must satisfy.
//
// A "not found" or "no longer valid" answer is reported through the boolean
// result, never as an error. Errors mean the query itself failed.
type Backend interface {
	// FindVisibleWindow returns the first currently visible top-level window
	// whose title equals title exactly
	FindVisibleWindow(title string) (Handle, bool, error)

	// GetRect returns the screen rectangle of the window
	GetRect(h Handle) (Rect, bool, error)

	// SetRect moves and resizes the window without changing stacking order or focus
	SetRect(h Handle, r Rect) error

	// IsAvailable checks if this backend can run on the current system
	IsAvailable() bool

	// DisplayServer returns the window system name ("x11", "wayland", "win32")
	DisplayServer() string

	// Close cleans up any resources used by the backend
	Close() error
}
