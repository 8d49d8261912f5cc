package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winkeep/winkeep/pkg/window"
)

var (
	rectA = window.Rect{X: 10, Y: 20, Width: 640, Height: 480}
	rectB = window.Rect{X: 300, Y: 200, Width: 1024, Height: 768}
	rectC = window.Rect{X: 100, Y: 50, Width: 800, Height: 600}
)

// runTicks drives the state machine synchronously for n ticks
func runTicks(tr *Tracker, sink Sink, n int) {
	tr.reset()
	for i := 0; i < n; i++ {
		tr.poll(sink)
	}
}

func TestTracker_ExampleScenario(t *testing.T) {
	backend := newFakeBackend(
		absent(),
		present(1, rectA),
		present(1, rectA),
		absent(),
		present(2, rectB),
	)
	store := &fakeStore{}
	rec := &recorder{}
	tr := New("Replayer", backend, store)

	runTicks(tr, rec, 5)

	assert.Equal(t, []EventKind{
		EventFound, EventSample,
		EventSample,
		EventClosed,
		EventFound, EventRestored, EventSample,
	}, rec.kinds())

	require.Len(t, store.saves, 1)
	assert.Equal(t, rectA, store.saves[0])

	require.Len(t, backend.setCalls, 1)
	assert.Equal(t, setCall{handle: 2, rect: rectA}, backend.setCalls[0])

	samples := rec.ofKind(EventSample)
	assert.Equal(t, rectB, samples[len(samples)-1].Rect)
	assert.Equal(t, StateFound, tr.State())
}

func TestTracker_TransitionsMatchPresenceEdges(t *testing.T) {
	tests := []struct {
		name     string
		presence string
	}{
		{"never present", "....."},
		{"always present", "#####"},
		{"single blip", "..#.."},
		{"flapping", "#.#.#.#"},
		{"long runs", "###...###..."},
		{"starts present", "##..##"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var steps []step
			var wantFound, wantClosed int
			prev := false
			for _, c := range tt.presence {
				on := c == '#'
				if on {
					steps = append(steps, present(7, rectA))
				} else {
					steps = append(steps, absent())
				}
				if on && !prev {
					wantFound++
				}
				if !on && prev {
					wantClosed++
				}
				prev = on
			}

			rec := &recorder{}
			tr := New("Replayer", newFakeBackend(steps...), &fakeStore{})
			runTicks(tr, rec, len(steps))

			assert.Len(t, rec.ofKind(EventFound), wantFound)
			assert.Len(t, rec.ofKind(EventClosed), wantClosed)

			// Found and Closed must alternate, starting with Found.
			expectFound := true
			for _, k := range rec.kinds() {
				switch k {
				case EventFound:
					assert.True(t, expectFound, "found while already found")
					expectFound = false
				case EventClosed:
					assert.False(t, expectFound, "closed without a prior found")
					expectFound = true
				}
			}
		})
	}
}

func TestTracker_SavesLastSuccessfulSample(t *testing.T) {
	backend := newFakeBackend(
		present(1, rectA),
		present(1, rectB),
		step{handle: 1, found: true, rectOK: false}, // handle went stale between find and read
		absent(),
	)
	store := &fakeStore{}
	rec := &recorder{}

	runTicks(New("Replayer", backend, store), rec, 4)

	require.Len(t, store.saves, 1)
	assert.Equal(t, rectB, store.saves[0])
	assert.Len(t, rec.ofKind(EventClosed), 1)
}

func TestTracker_GeometryReadFailureIsNotDisappearance(t *testing.T) {
	backend := newFakeBackend(
		present(1, rectA),
		step{handle: 1, found: true, rectErr: errBoom},
		present(1, rectB),
	)
	store := &fakeStore{}
	rec := &recorder{}

	runTicks(New("Replayer", backend, store), rec, 3)

	assert.Equal(t, []EventKind{
		EventFound, EventSample,
		EventQueryError,
		EventSample,
	}, rec.kinds())
	assert.Equal(t, OpGetRect, rec.ofKind(EventQueryError)[0].Op)
	assert.Empty(t, store.saves)
}

func TestTracker_RestoresBeforeSampling(t *testing.T) {
	backend := newFakeBackend(present(9, rectB))
	store := &fakeStore{rect: rectC, has: true}
	rec := &recorder{}

	runTicks(New("Replayer", backend, store), rec, 1)

	require.Len(t, backend.setCalls, 1)
	assert.Equal(t, setCall{handle: 9, rect: rectC}, backend.setCalls[0])
	assert.Equal(t, []string{"find", "set", "get"}, backend.calls)
	assert.Equal(t, []EventKind{EventFound, EventRestored, EventSample}, rec.kinds())
	assert.Equal(t, rectC, rec.ofKind(EventRestored)[0].Rect)
}

func TestTracker_NoStoredGeometrySkipsSetRect(t *testing.T) {
	backend := newFakeBackend(present(1, rectA), present(1, rectA))
	store := &fakeStore{}
	rec := &recorder{}

	runTicks(New("Replayer", backend, store), rec, 2)

	assert.Empty(t, backend.setCalls)
	assert.Equal(t, 1, store.loads)
	assert.Equal(t, []EventKind{EventFound, EventSample, EventSample}, rec.kinds())
}

func TestTracker_CorruptStoreTreatedAsNone(t *testing.T) {
	backend := newFakeBackend(present(1, rectA))
	store := &fakeStore{loadErr: errBoom}
	rec := &recorder{}

	runTicks(New("Replayer", backend, store), rec, 1)

	assert.Empty(t, backend.setCalls)
	assert.Equal(t, []EventKind{EventFound, EventStoreError, EventSample}, rec.kinds())
	assert.Equal(t, OpLoad, rec.ofKind(EventStoreError)[0].Op)
}

func TestTracker_SetRectFailureIsNotRetried(t *testing.T) {
	backend := newFakeBackend(present(1, rectA), present(1, rectA), present(1, rectA))
	backend.setErr = errBoom
	store := &fakeStore{rect: rectC, has: true}
	rec := &recorder{}

	runTicks(New("Replayer", backend, store), rec, 3)

	assert.Len(t, backend.setCalls, 1)
	errs := rec.ofKind(EventQueryError)
	require.Len(t, errs, 1)
	assert.Equal(t, OpSetRect, errs[0].Op)
	assert.Empty(t, rec.ofKind(EventRestored))
}

func TestTracker_SaveFailureClearsLastKnown(t *testing.T) {
	backend := newFakeBackend(
		present(1, rectA),
		absent(),
		present(2, window.Rect{}),
	)
	// The third step finds the window but cannot read it.
	backend.steps[2].rectOK = false
	backend.steps = append(backend.steps, absent())

	store := &fakeStore{saveErr: errBoom}
	rec := &recorder{}

	runTicks(New("Replayer", backend, store), rec, 4)

	// Only the first disappearance had a sample to save.
	require.Len(t, store.saves, 1)
	assert.Equal(t, rectA, store.saves[0])
	assert.Len(t, rec.ofKind(EventStoreError), 1)
	assert.Len(t, rec.ofKind(EventClosed), 2)
}

func TestTracker_DisappearWithoutSampleDoesNotSave(t *testing.T) {
	backend := newFakeBackend(
		step{handle: 1, found: true, rectOK: false},
		absent(),
	)
	store := &fakeStore{}
	rec := &recorder{}

	runTicks(New("Replayer", backend, store), rec, 2)

	assert.Empty(t, store.saves)
	assert.Equal(t, []EventKind{EventFound, EventClosed}, rec.kinds())
}

func TestTracker_FindErrorTreatedAsNotFound(t *testing.T) {
	backend := newFakeBackend(
		present(1, rectA),
		step{findErr: errBoom},
		step{findErr: errBoom},
		present(1, rectB),
	)
	store := &fakeStore{}
	rec := &recorder{}

	runTicks(New("Replayer", backend, store), rec, 4)

	assert.Equal(t, []EventKind{
		EventFound, EventSample,
		EventQueryError, EventClosed,
		EventQueryError,
		EventFound, EventRestored, EventSample,
	}, rec.kinds())
	require.Len(t, store.saves, 1)
	assert.Equal(t, rectA, store.saves[0])
}

func TestTracker_RestoredGeometryIsNotResaved(t *testing.T) {
	// The window reappears and is closed again before any sample succeeds:
	// the applied geometry must not be written back.
	backend := newFakeBackend(
		step{handle: 1, found: true, rectOK: false},
		absent(),
	)
	store := &fakeStore{rect: rectC, has: true}
	rec := &recorder{}

	runTicks(New("Replayer", backend, store), rec, 2)

	assert.Len(t, backend.setCalls, 1)
	assert.Empty(t, store.saves)
}

func TestTracker_EventsCarryTitleAndTime(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := &recorder{}
	tr := New("Replayer", newFakeBackend(present(1, rectA)), &fakeStore{})
	tr.now = func() time.Time { return fixed }

	runTicks(tr, rec, 1)

	for _, e := range rec.events {
		assert.Equal(t, "Replayer", e.Title)
		assert.Equal(t, fixed, e.Time)
	}
}

func TestTracker_RunStopsOnCancel(t *testing.T) {
	backend := newFakeBackend(present(1, rectA))
	tr := New("Replayer", backend, &fakeStore{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		tr.Run(ctx, time.Hour, &recorder{})
	}()

	require.Eventually(t, func() bool { return backend.findCount() >= 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation during the wait")
	}
}

func TestTracker_RunReturnsImmediatelyWhenCancelled(t *testing.T) {
	backend := newFakeBackend(present(1, rectA))
	tr := New("Replayer", backend, &fakeStore{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr.Run(ctx, time.Hour, nil)

	assert.Equal(t, 0, backend.findCount())
}

func TestTracker_RunPollsRepeatedly(t *testing.T) {
	backend := newFakeBackend(absent())
	tr := New("Replayer", backend, &fakeStore{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tr.Run(ctx, 5*time.Millisecond, nil)

	require.Eventually(t, func() bool { return backend.findCount() >= 3 }, 2*time.Second, time.Millisecond)
}

func TestEventString(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{Event{Kind: EventFound, Title: "Replayer"}, "Window 'Replayer' found and is visible."},
		{Event{Kind: EventClosed, Title: "Replayer"}, "Window 'Replayer' has been closed or is not visible."},
		{Event{Kind: EventSample, Rect: rectC}, "x=100 y=50 w=800 h=600"},
		{Event{Kind: EventStarted}, "Monitoring started."},
		{Event{Kind: EventStopped}, "Monitoring stopped."},
		{Event{Kind: EventQueryError, Op: OpFind, Err: errBoom}, "Window query find failed: boom"},
		{Event{Kind: EventStoreError, Op: OpSave, Err: errBoom}, "Geometry save failed: boom"},
	}

	for _, tt := range tests {
		t.Run(string(tt.event.Kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.String())
		})
	}
}
