package hybrid

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/winkeep/winkeep/pkg/integrations/wayland"
	"github.com/winkeep/winkeep/pkg/integrations/win32"
	"github.com/winkeep/winkeep/pkg/integrations/x11"
	"github.com/winkeep/winkeep/pkg/window"
)

var ErrNoBackend = errors.New("no usable window backend")

// Backend forwards to the first available backend of a chain and moves to
// the next one when an operation fails. Every backend in a chain serves the
// same display server, so handles stay valid across a switch.
type Backend struct {
	mu     sync.Mutex
	chain  []window.Backend
	active int
	logger *slog.Logger

	lastSuccessful string
}

// New picks a backend chain for prefer ("auto", "x11", "xdotool", "sway" or
// "win32"). With "auto" the chain follows displayServer as reported by
// backend.DetectDisplayServer.
func New(prefer, displayServer string, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	for _, build := range chainsFor(prefer, displayServer) {
		b, err := NewChain(logger, build(logger)...)
		if err == nil {
			return b, nil
		}
	}

	return nil, fmt.Errorf("%w for %q on %s display", ErrNoBackend, prefer, displayServer)
}

// NewChain keeps the available members of backends in order. Unavailable
// members are closed.
func NewChain(logger *slog.Logger, backends ...window.Backend) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	b := &Backend{logger: logger}
	for _, be := range backends {
		if be == nil {
			continue
		}
		if !be.IsAvailable() {
			_ = be.Close()
			continue
		}
		b.chain = append(b.chain, be)
	}

	if len(b.chain) == 0 {
		return nil, ErrNoBackend
	}
	return b, nil
}

type chainBuilder func(logger *slog.Logger) []window.Backend

func chainsFor(prefer, displayServer string) []chainBuilder {
	switch prefer {
	case "x11":
		return []chainBuilder{nativeX11}
	case "xdotool":
		return []chainBuilder{xdotool}
	case "sway":
		return []chainBuilder{sway}
	case "win32":
		return []chainBuilder{windows}
	}

	switch displayServer {
	case "win32":
		return []chainBuilder{windows}
	case "wayland":
		// XWayland clients are still reachable over X11
		return []chainBuilder{sway, x11Chain}
	case "x11":
		return []chainBuilder{x11Chain}
	default:
		return []chainBuilder{x11Chain, sway}
	}
}

func nativeX11(logger *slog.Logger) []window.Backend {
	n, err := x11.NewNative()
	if err != nil {
		logger.Debug("native x11 backend unavailable", "error", err)
		return nil
	}
	return []window.Backend{n}
}

func xdotool(*slog.Logger) []window.Backend {
	return []window.Backend{x11.NewXdotool()}
}

func x11Chain(logger *slog.Logger) []window.Backend {
	return append(nativeX11(logger), xdotool(logger)...)
}

func sway(*slog.Logger) []window.Backend {
	return []window.Backend{wayland.NewSway()}
}

func windows(*slog.Logger) []window.Backend {
	return []window.Backend{win32.New()}
}

func (b *Backend) FindVisibleWindow(title string) (window.Handle, bool, error) {
	var (
		h  window.Handle
		ok bool
	)
	err := b.do("find", func(be window.Backend) error {
		var err error
		h, ok, err = be.FindVisibleWindow(title)
		return err
	})
	return h, ok, err
}

func (b *Backend) GetRect(h window.Handle) (window.Rect, bool, error) {
	var (
		r  window.Rect
		ok bool
	)
	err := b.do("get-rect", func(be window.Backend) error {
		var err error
		r, ok, err = be.GetRect(h)
		return err
	})
	return r, ok, err
}

func (b *Backend) SetRect(h window.Handle, r window.Rect) error {
	return b.do("set-rect", func(be window.Backend) error {
		return be.SetRect(h, r)
	})
}

// do runs op on the active backend, falling through the rest of the chain
// on error. A backend that succeeds becomes the active one.
func (b *Backend) do(name string, op func(window.Backend) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []string
	for i := 0; i < len(b.chain); i++ {
		idx := (b.active + i) % len(b.chain)
		be := b.chain[idx]

		err := op(be)
		if err == nil {
			if idx != b.active {
				b.logger.Warn("switched window backend",
					"op", name,
					"from", describe(b.chain[b.active]),
					"to", describe(be))
				b.active = idx
			}
			b.lastSuccessful = describe(be)
			return nil
		}
		errs = append(errs, fmt.Sprintf("%s: %v", describe(be), err))
	}

	return fmt.Errorf("%s failed on all backends: %s", name, strings.Join(errs, "; "))
}

func (b *Backend) IsAvailable() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, be := range b.chain {
		if be.IsAvailable() {
			return true
		}
	}
	return false
}

func (b *Backend) DisplayServer() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.chain[b.active].DisplayServer()
}

// Active names the backend currently serving requests
func (b *Backend) Active() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return describe(b.chain[b.active])
}

// GetStatus describes the chain for the status command
func (b *Backend) GetStatus() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	status := "Window Backend Status:\n"
	for i, be := range b.chain {
		marker := " "
		if i == b.active {
			marker = "*"
		}
		status += fmt.Sprintf("  %s %s (%s, available: %v)\n", marker, describe(be), be.DisplayServer(), be.IsAvailable())
	}
	if b.lastSuccessful != "" {
		status += fmt.Sprintf("  Last successful backend: %s\n", b.lastSuccessful)
	}
	return status
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for _, be := range b.chain {
		if err := be.Close(); err != nil {
			b.logger.Warn("error closing window backend", "backend", describe(be), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func describe(be window.Backend) string {
	switch be.(type) {
	case *x11.Native:
		return "x11"
	case *x11.Xdotool:
		return "xdotool"
	case *wayland.Sway:
		return "sway"
	case *win32.Backend:
		return "win32"
	default:
		return fmt.Sprintf("%T", be)
	}
}
