package x11

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/winkeep/winkeep/pkg/window"
)

// _NET_MOVERESIZE_WINDOW flags: X, Y, width and height present, request
// from a pager, static gravity so coordinates refer to the client window.
const moveResizeFlags = 1<<8 | 1<<9 | 1<<10 | 1<<11 | 2<<12 | xproto.GravityStatic

const maxPropertyLength = 4096

var atomNames = []string{
	"_NET_SUPPORTED",
	"_NET_CLIENT_LIST",
	"_NET_WM_NAME",
	"_NET_WM_STATE",
	"_NET_WM_STATE_HIDDEN",
	"_NET_MOVERESIZE_WINDOW",
	"WM_NAME",
	"UTF8_STRING",
}

// Native talks to the X server directly over the X11 protocol
type Native struct {
	mu    sync.Mutex
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom

	moveResize bool // window manager honours _NET_MOVERESIZE_WINDOW
}

// NewNative connects to the display named by $DISPLAY
func NewNative() (*Native, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	n := &Native{
		conn:  conn,
		root:  setup.DefaultScreen(conn).Root,
		atoms: make(map[string]xproto.Atom),
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to intern atom %s: %w", name, err)
		}
		n.atoms[name] = reply.Atom
	}

	if data, err := n.getProperty(n.root, n.atoms["_NET_SUPPORTED"], xproto.AtomAtom); err == nil {
		for _, a := range decodeIDs(data) {
			if xproto.Atom(a) == n.atoms["_NET_MOVERESIZE_WINDOW"] {
				n.moveResize = true
			}
		}
	}

	return n, nil
}

func (n *Native) IsAvailable() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.conn != nil
}

func (n *Native) DisplayServer() string {
	return "x11"
}

// FindVisibleWindow returns the first viewable top-level window whose
// title equals title exactly.
func (n *Native) FindVisibleWindow(title string) (window.Handle, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	candidates, err := n.clientWindows()
	if err != nil {
		return 0, false, err
	}

	for _, w := range candidates {
		if n.windowName(w) != title {
			continue
		}
		if !n.isViewable(w) {
			continue
		}
		return window.Handle(w), true, nil
	}
	return 0, false, nil
}

// GetRect returns the client area in root coordinates. A window that no
// longer exists is reported as not found.
func (n *Native) GetRect(h window.Handle) (window.Rect, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	w := xproto.Window(h)

	geom, err := xproto.GetGeometry(n.conn, xproto.Drawable(w)).Reply()
	if err != nil {
		if isGone(err) {
			return window.Rect{}, false, nil
		}
		return window.Rect{}, false, fmt.Errorf("failed to get geometry of window 0x%x: %w", uint32(w), err)
	}

	origin, err := xproto.TranslateCoordinates(n.conn, w, n.root, 0, 0).Reply()
	if err != nil {
		if isGone(err) {
			return window.Rect{}, false, nil
		}
		return window.Rect{}, false, fmt.Errorf("failed to translate coordinates of window 0x%x: %w", uint32(w), err)
	}

	return window.Rect{
		X:      int32(origin.DstX),
		Y:      int32(origin.DstY),
		Width:  int32(geom.Width),
		Height: int32(geom.Height),
	}, true, nil
}

// SetRect asks the window manager to move and resize the window. Without
// EWMH support the window is configured directly.
func (n *Native) SetRect(h window.Handle, r window.Rect) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	w := xproto.Window(h)

	if n.moveResize {
		ev := xproto.ClientMessageEvent{
			Format: 32,
			Window: w,
			Type:   n.atoms["_NET_MOVERESIZE_WINDOW"],
			Data:   xproto.ClientMessageDataUnionData32New(moveResizeData(r)),
		}
		mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
		if err := xproto.SendEventChecked(n.conn, false, n.root, mask, string(ev.Bytes())).Check(); err != nil {
			return fmt.Errorf("failed to send _NET_MOVERESIZE_WINDOW to 0x%x: %w", uint32(w), err)
		}
		return nil
	}

	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	if err := xproto.ConfigureWindowChecked(n.conn, w, mask, configureValues(r)).Check(); err != nil {
		return fmt.Errorf("failed to configure window 0x%x: %w", uint32(w), err)
	}
	return nil
}

func (n *Native) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn != nil {
		n.conn.Close()
		n.conn = nil
	}
	return nil
}

// clientWindows lists managed windows via _NET_CLIENT_LIST, falling back to
// the root's children when no EWMH window manager is running.
func (n *Native) clientWindows() ([]xproto.Window, error) {
	if n.conn == nil {
		return nil, errors.New("x11 connection closed")
	}

	data, err := n.getProperty(n.root, n.atoms["_NET_CLIENT_LIST"], xproto.AtomWindow)
	if err == nil && len(data) >= 4 {
		ids := decodeIDs(data)
		windows := make([]xproto.Window, len(ids))
		for i, id := range ids {
			windows[i] = xproto.Window(id)
		}
		return windows, nil
	}

	tree, err := xproto.QueryTree(n.conn, n.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}
	return tree.Children, nil
}

func (n *Native) getProperty(w xproto.Window, atom, atomType xproto.Atom) ([]byte, error) {
	reply, err := xproto.GetProperty(n.conn, false, w, atom, atomType, 0, maxPropertyLength).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

func (n *Native) windowName(w xproto.Window) string {
	data, err := n.getProperty(w, n.atoms["_NET_WM_NAME"], n.atoms["UTF8_STRING"])
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	data, err = n.getProperty(w, n.atoms["WM_NAME"], xproto.AtomString)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	return ""
}

func (n *Native) isViewable(w xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(n.conn, w).Reply()
	if err != nil || attrs.MapState != xproto.MapStateViewable {
		return false
	}

	data, err := n.getProperty(w, n.atoms["_NET_WM_STATE"], xproto.AtomAtom)
	if err != nil {
		return true
	}
	for _, a := range decodeIDs(data) {
		if xproto.Atom(a) == n.atoms["_NET_WM_STATE_HIDDEN"] {
			return false
		}
	}
	return true
}

// decodeIDs splits a 32-bit property value into its items
func decodeIDs(data []byte) []uint32 {
	ids := make([]uint32, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		ids = append(ids, binary.LittleEndian.Uint32(data[i:]))
	}
	return ids
}

func moveResizeData(r window.Rect) []uint32 {
	return []uint32{
		moveResizeFlags,
		uint32(r.X),
		uint32(r.Y),
		uint32(r.Width),
		uint32(r.Height),
	}
}

// configureValues orders the values as ConfigureWindow expects for an
// X|Y|Width|Height mask. Negative positions travel as two's complement.
func configureValues(r window.Rect) []uint32 {
	return []uint32{uint32(r.X), uint32(r.Y), uint32(r.Width), uint32(r.Height)}
}

// isGone reports whether err says the window has been destroyed
func isGone(err error) bool {
	var windowErr xproto.WindowError
	var drawableErr xproto.DrawableError
	return errors.As(err, &windowErr) || errors.As(err, &drawableErr)
}
