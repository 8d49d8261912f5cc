package tracker

import (
	"errors"
	"sync"

	"github.com/winkeep/winkeep/pkg/window"
)

// step scripts the backend's answers for one poll tick
type step struct {
	handle  window.Handle
	found   bool
	findErr error

	rect    window.Rect
	rectOK  bool
	rectErr error
}

func present(h window.Handle, r window.Rect) step {
	return step{handle: h, found: true, rect: r, rectOK: true}
}

func absent() step {
	return step{}
}

type fakeBackend struct {
	mu       sync.Mutex
	steps    []step
	cur      step
	setErr   error
	setCalls []setCall
	calls    []string
}

type setCall struct {
	handle window.Handle
	rect   window.Rect
}

func newFakeBackend(steps ...step) *fakeBackend {
	return &fakeBackend{steps: steps}
}

// FindVisibleWindow advances the script by one tick; once exhausted the
// last step repeats.
func (f *fakeBackend) FindVisibleWindow(title string) (window.Handle, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.steps) > 0 {
		f.cur = f.steps[0]
		f.steps = f.steps[1:]
	}
	f.calls = append(f.calls, "find")
	if f.cur.findErr != nil {
		return 0, false, f.cur.findErr
	}
	return f.cur.handle, f.cur.found, nil
}

func (f *fakeBackend) GetRect(h window.Handle) (window.Rect, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "get")
	if f.cur.rectErr != nil {
		return window.Rect{}, false, f.cur.rectErr
	}
	return f.cur.rect, f.cur.rectOK, nil
}

func (f *fakeBackend) SetRect(h window.Handle, r window.Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "set")
	f.setCalls = append(f.setCalls, setCall{handle: h, rect: r})
	return f.setErr
}

func (f *fakeBackend) IsAvailable() bool     { return true }
func (f *fakeBackend) DisplayServer() string { return "fake" }
func (f *fakeBackend) Close() error          { return nil }

func (f *fakeBackend) findCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == "find" {
			n++
		}
	}
	return n
}

type fakeStore struct {
	mu      sync.Mutex
	rect    window.Rect
	has     bool
	loadErr error
	saveErr error
	saves   []window.Rect
	loads   int
}

func (s *fakeStore) Load() (window.Rect, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loads++
	if s.loadErr != nil {
		return window.Rect{}, false, s.loadErr
	}
	return s.rect, s.has, nil
}

func (s *fakeStore) Save(r window.Rect) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saves = append(s.saves, r)
	if s.saveErr != nil {
		return s.saveErr
	}
	s.rect = r
	s.has = true
	return nil
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recorder) ofKind(k EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

var errBoom = errors.New("boom")
