package wayland

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/winkeep/winkeep/pkg/integrations/common"
	"github.com/winkeep/winkeep/pkg/window"
)

// Sway drives windows through swaymsg. Other Wayland compositors expose no
// protocol for moving foreign windows.
type Sway struct {
	hasSwaymsg bool
	run        common.Runner
}

// NewSway creates a new sway backend
func NewSway() *Sway {
	return &Sway{
		hasSwaymsg: common.CommandExists("swaymsg"),
		run:        common.Output,
	}
}

// IsAvailable reports whether swaymsg is installed and a sway IPC socket
// is advertised.
func (s *Sway) IsAvailable() bool {
	return s.hasSwaymsg && os.Getenv("SWAYSOCK") != ""
}

// DisplayServer returns "wayland"
func (s *Sway) DisplayServer() string {
	return "wayland"
}

// swayNode is the subset of a get_tree node winkeep reads
type swayNode struct {
	ID            uint64     `json:"id"`
	Name          *string    `json:"name"`
	Type          string     `json:"type"`
	Visible       *bool      `json:"visible"`
	Rect          swayRect   `json:"rect"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
}

type swayRect struct {
	X      int32 `json:"x"`
	Y      int32 `json:"y"`
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
}

// commandResult is one entry of swaymsg's reply to a command
type commandResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Sway) FindVisibleWindow(title string) (window.Handle, bool, error) {
	tree, err := s.tree()
	if err != nil {
		return 0, false, err
	}

	node := findNode(tree, func(n *swayNode) bool {
		return isView(n) && n.Name != nil && *n.Name == title && n.Visible != nil && *n.Visible
	})
	if node == nil {
		return 0, false, nil
	}
	return window.Handle(node.ID), true, nil
}

func (s *Sway) GetRect(h window.Handle) (window.Rect, bool, error) {
	tree, err := s.tree()
	if err != nil {
		return window.Rect{}, false, err
	}

	node := findNode(tree, func(n *swayNode) bool {
		return isView(n) && n.ID == uint64(h)
	})
	if node == nil {
		return window.Rect{}, false, nil
	}

	return window.Rect{
		X:      node.Rect.X,
		Y:      node.Rect.Y,
		Width:  node.Rect.Width,
		Height: node.Rect.Height,
	}, true, nil
}

// SetRect positions the container. Sway only honours positions for
// floating containers, so the window is floated first.
func (s *Sway) SetRect(h window.Handle, r window.Rect) error {
	out, err := s.run("swaymsg", moveResizeCommand(h, r))
	if err != nil {
		return fmt.Errorf("failed to run swaymsg: %w", err)
	}

	var results []commandResult
	if err := json.Unmarshal(out, &results); err != nil {
		return fmt.Errorf("failed to parse swaymsg reply: %w", err)
	}

	var failures []string
	for _, res := range results {
		if !res.Success {
			failures = append(failures, res.Error)
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("sway rejected move: %s", strings.Join(failures, "; "))
	}
	return nil
}

// Close cleans up resources
func (s *Sway) Close() error {
	return nil
}

func (s *Sway) tree() (*swayNode, error) {
	out, err := s.run("swaymsg", "-t", "get_tree", "--raw")
	if err != nil {
		return nil, fmt.Errorf("failed to execute swaymsg: %w", err)
	}
	return parseTree(out)
}

func parseTree(data []byte) (*swayNode, error) {
	var root swayNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse sway tree: %w", err)
	}
	return &root, nil
}

// isView reports whether n is an application window rather than an
// output, workspace or split container.
func isView(n *swayNode) bool {
	return (n.Type == "con" || n.Type == "floating_con") && len(n.Nodes) == 0
}

// findNode walks the tree depth first, tiled children before floating ones
func findNode(n *swayNode, match func(*swayNode) bool) *swayNode {
	if match(n) {
		return n
	}
	for i := range n.Nodes {
		if found := findNode(&n.Nodes[i], match); found != nil {
			return found
		}
	}
	for i := range n.FloatingNodes {
		if found := findNode(&n.FloatingNodes[i], match); found != nil {
			return found
		}
	}
	return nil
}

func moveResizeCommand(h window.Handle, r window.Rect) string {
	return fmt.Sprintf("[con_id=%d] floating enable, move absolute position %d px %d px, resize set width %d px height %d px",
		uint64(h), r.X, r.Y, r.Width, r.Height)
}
