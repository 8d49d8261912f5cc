package eventlog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winkeep/winkeep/internal/tracker"
	"github.com/winkeep/winkeep/pkg/window"
)

func sample(x int32) tracker.Event {
	return tracker.Event{Kind: tracker.EventSample, Rect: window.Rect{X: x}}
}

func TestBuffer_Empty(t *testing.T) {
	b := New(4)

	_, ok := b.Latest()
	assert.False(t, ok)
	assert.Empty(t, b.History())
	assert.Zero(t, b.Total())
}

func TestBuffer_LatestAndHistory(t *testing.T) {
	b := New(4)
	b.Emit(tracker.Event{Kind: tracker.EventFound})
	b.Emit(sample(1))

	latest, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, int32(1), latest.Rect.X)

	hist := b.History()
	require.Len(t, hist, 2)
	assert.Equal(t, tracker.EventFound, hist[0].Kind)
	assert.Equal(t, tracker.EventSample, hist[1].Kind)
}

func TestBuffer_Wraps(t *testing.T) {
	b := New(3)
	for i := int32(1); i <= 7; i++ {
		b.Emit(sample(i))
	}

	hist := b.History()
	require.Len(t, hist, 3)
	assert.Equal(t, []int32{5, 6, 7}, []int32{hist[0].Rect.X, hist[1].Rect.X, hist[2].Rect.X})
	assert.Equal(t, uint64(7), b.Total())

	recent := b.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, int32(6), recent[0].Rect.X)
	assert.Equal(t, int32(7), recent[1].Rect.X)
}

func TestBuffer_ExactlyFull(t *testing.T) {
	b := New(3)
	for i := int32(1); i <= 3; i++ {
		b.Emit(sample(i))
	}

	hist := b.History()
	require.Len(t, hist, 3)
	assert.Equal(t, int32(1), hist[0].Rect.X)
	assert.Equal(t, int32(3), hist[2].Rect.X)
}

func TestBuffer_DefaultCapacity(t *testing.T) {
	b := New(0)
	for i := 0; i < DefaultCapacity+10; i++ {
		b.Emit(sample(int32(i)))
	}
	assert.Len(t, b.History(), DefaultCapacity)
}

func TestBuffer_ConcurrentReaders(t *testing.T) {
	b := New(16)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := int32(0); i < 1000; i++ {
			b.Emit(sample(i))
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				b.Latest()
				assert.LessOrEqual(t, len(b.History()), 16)
			}
		}()
	}
	wg.Wait()

	latest, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, int32(999), latest.Rect.X)
}

func TestBuffer_IsSink(t *testing.T) {
	var _ tracker.Sink = (*Buffer)(nil)
}
