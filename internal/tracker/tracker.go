package tracker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/winkeep/winkeep/pkg/window"
)

// State is the tracker's view of the target window
type State int32

const (
	StateNotFound State = iota
	StateFound
)

func (s State) String() string {
	if s == StateFound {
		return "found"
	}
	return "not_found"
}

// GeometryStore persists the target window's geometry between appearances
type GeometryStore interface {
	Load() (window.Rect, bool, error)
	Save(r window.Rect) error
}

// Tracker follows a single window by title. It restores the stored geometry
// when the window appears and saves the last sampled geometry when it
// disappears.
//
// Everything except State is owned by the goroutine executing Run.
type Tracker struct {
	title   string
	backend window.Backend
	store   GeometryStore
	now     func() time.Time

	state     State
	handle    window.Handle
	lastKnown *window.Rect

	published atomic.Int32
}

func New(title string, backend window.Backend, store GeometryStore) *Tracker {
	return &Tracker{
		title:   title,
		backend: backend,
		store:   store,
		now:     time.Now,
	}
}

func (t *Tracker) Title() string {
	return t.title
}

// State returns the most recently published state. Safe for concurrent use.
func (t *Tracker) State() State {
	return State(t.published.Load())
}

// Run polls every interval until ctx is cancelled. Failures are reported to
// sink and never end the loop.
func (t *Tracker) Run(ctx context.Context, interval time.Duration, sink Sink) {
	if sink == nil {
		sink = MultiSink(nil)
	}
	t.reset()

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			return
		}

		t.poll(sink)

		timer.Reset(interval)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

func (t *Tracker) reset() {
	t.setState(StateNotFound)
	t.handle = 0
	t.lastKnown = nil
}

// poll runs one tick of the state machine
func (t *Tracker) poll(sink Sink) {
	h, ok, err := t.backend.FindVisibleWindow(t.title)
	if err != nil {
		t.emit(sink, Event{Kind: EventQueryError, Op: OpFind, Err: err})
		ok = false
	}

	if !ok {
		if t.state == StateFound {
			t.disappear(sink)
		}
		return
	}

	if t.state == StateNotFound {
		t.appear(sink, h)
	}
	t.handle = h
	t.sample(sink)
}

func (t *Tracker) appear(sink Sink, h window.Handle) {
	t.emit(sink, Event{Kind: EventFound})

	rect, ok, err := t.store.Load()
	if err != nil {
		// A corrupt or unreadable record counts as no record.
		t.emit(sink, Event{Kind: EventStoreError, Op: OpLoad, Err: err})
		ok = false
	}
	if ok {
		if err := t.backend.SetRect(h, rect); err != nil {
			t.emit(sink, Event{Kind: EventQueryError, Op: OpSetRect, Err: err})
		} else {
			t.emit(sink, Event{Kind: EventRestored, Rect: rect})
		}
	}

	t.setState(StateFound)
}

// sample reads the current geometry. A failed read is not a disappearance;
// the next tick looks for the window again.
func (t *Tracker) sample(sink Sink) {
	rect, ok, err := t.backend.GetRect(t.handle)
	if err != nil {
		t.emit(sink, Event{Kind: EventQueryError, Op: OpGetRect, Err: err})
		return
	}
	if !ok {
		return
	}

	t.lastKnown = &rect
	t.emit(sink, Event{Kind: EventSample, Rect: rect})
}

func (t *Tracker) disappear(sink Sink) {
	t.emit(sink, Event{Kind: EventClosed})

	if t.lastKnown != nil {
		if err := t.store.Save(*t.lastKnown); err != nil {
			t.emit(sink, Event{Kind: EventStoreError, Op: OpSave, Err: err})
		}
	}
	t.lastKnown = nil
	t.handle = 0

	t.setState(StateNotFound)
}

func (t *Tracker) setState(s State) {
	t.state = s
	t.published.Store(int32(s))
}

func (t *Tracker) emit(sink Sink, e Event) {
	e.Time = t.now()
	e.Title = t.title
	sink.Emit(e)
}
