package tracker

import (
	"fmt"
	"time"

	"github.com/winkeep/winkeep/pkg/window"
)

// EventKind identifies what happened on a poll tick
type EventKind string

const (
	EventStarted    EventKind = "started"
	EventStopped    EventKind = "stopped"
	EventFound      EventKind = "found"
	EventClosed     EventKind = "closed"
	EventSample     EventKind = "sample"
	EventRestored   EventKind = "restored"
	EventQueryError EventKind = "query_error"
	EventStoreError EventKind = "store_error"
)

// Operations reported with QueryError and StoreError events
const (
	OpFind    = "find"
	OpGetRect = "get-rect"
	OpSetRect = "set-rect"
	OpLoad    = "load"
	OpSave    = "save"
)

// Event is a single tracker observation. Rect is only meaningful for
// EventSample and EventRestored; Op and Err only for the error kinds.
type Event struct {
	Time  time.Time
	Kind  EventKind
	Title string
	Rect  window.Rect
	Op    string
	Err   error
}

// HasRect reports whether the event carries a geometry
func (e Event) HasRect() bool {
	return e.Kind == EventSample || e.Kind == EventRestored
}

// IsError reports whether the event describes a failure
func (e Event) IsError() bool {
	return e.Kind == EventQueryError || e.Kind == EventStoreError
}

// String renders the event as a human-readable log line
func (e Event) String() string {
	switch e.Kind {
	case EventStarted:
		return "Monitoring started."
	case EventStopped:
		return "Monitoring stopped."
	case EventFound:
		return fmt.Sprintf("Window '%s' found and is visible.", e.Title)
	case EventClosed:
		return fmt.Sprintf("Window '%s' has been closed or is not visible.", e.Title)
	case EventSample:
		return e.Rect.String()
	case EventRestored:
		return fmt.Sprintf("Restored window '%s' to %s", e.Title, e.Rect)
	case EventQueryError:
		return fmt.Sprintf("Window query %s failed: %v", e.Op, e.Err)
	case EventStoreError:
		return fmt.Sprintf("Geometry %s failed: %v", e.Op, e.Err)
	default:
		return string(e.Kind)
	}
}
