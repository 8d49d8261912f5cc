// Package host remembers where winkeep's own window sits on screen.
package host

import (
	"fmt"

	"github.com/winkeep/winkeep/pkg/window"
)

// PositionStore persists the host window's position
type PositionStore interface {
	LoadOr(def window.Point) (window.Point, error)
	Save(p window.Point) error
}

// Keeper restores the host window position at startup and records it at
// shutdown. With an empty Title both operations do nothing.
type Keeper struct {
	Title   string
	Backend window.Backend
	Store   PositionStore
	Default window.Point
}

// Restore moves the host window to the stored position, or to Default when
// nothing usable is stored. The window keeps its current size. The returned
// point is the position that was applied.
func (k *Keeper) Restore() (window.Point, error) {
	if k.Title == "" {
		return window.Point{}, nil
	}

	pos, loadErr := k.Store.LoadOr(k.Default)

	h, ok, err := k.Backend.FindVisibleWindow(k.Title)
	if err != nil {
		return pos, fmt.Errorf("failed to find host window %q: %w", k.Title, err)
	}
	if !ok {
		return pos, fmt.Errorf("host window %q is not visible", k.Title)
	}

	current, ok, err := k.Backend.GetRect(h)
	if err != nil {
		return pos, fmt.Errorf("failed to read host window geometry: %w", err)
	}
	if !ok {
		return pos, fmt.Errorf("host window %q disappeared", k.Title)
	}

	if err := k.Backend.SetRect(h, current.MovedTo(pos)); err != nil {
		return pos, fmt.Errorf("failed to move host window: %w", err)
	}

	if loadErr != nil {
		return pos, fmt.Errorf("stored host position unusable, applied default: %w", loadErr)
	}
	return pos, nil
}

// Persist saves the host window's current position
func (k *Keeper) Persist() (window.Point, error) {
	if k.Title == "" {
		return window.Point{}, nil
	}

	h, ok, err := k.Backend.FindVisibleWindow(k.Title)
	if err != nil {
		return window.Point{}, fmt.Errorf("failed to find host window %q: %w", k.Title, err)
	}
	if !ok {
		return window.Point{}, fmt.Errorf("host window %q is not visible", k.Title)
	}

	rect, ok, err := k.Backend.GetRect(h)
	if err != nil {
		return window.Point{}, fmt.Errorf("failed to read host window geometry: %w", err)
	}
	if !ok {
		return window.Point{}, fmt.Errorf("host window %q disappeared", k.Title)
	}

	pos := rect.Origin()
	if err := k.Store.Save(pos); err != nil {
		return pos, fmt.Errorf("failed to save host position: %w", err)
	}
	return pos, nil
}
