// Package eventlog hands tracker events from the poll goroutine to readers
// on other goroutines.
package eventlog

import (
	"sync"

	"github.com/winkeep/winkeep/internal/tracker"
)

const DefaultCapacity = 256

// Buffer keeps the latest event and a bounded history of recent events
type Buffer struct {
	mu     sync.RWMutex
	ring   []tracker.Event
	next   int
	full   bool
	latest tracker.Event
	has    bool
	total  uint64
}

func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{ring: make([]tracker.Event, capacity)}
}

// Emit implements tracker.Sink
func (b *Buffer) Emit(e tracker.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest = e
	b.has = true
	b.total++

	b.ring[b.next] = e
	b.next = (b.next + 1) % len(b.ring)
	if b.next == 0 {
		b.full = true
	}
}

// Latest returns the most recent event
func (b *Buffer) Latest() (tracker.Event, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.has
}

// History returns buffered events, oldest first
func (b *Buffer) History() []tracker.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.full {
		out := make([]tracker.Event, b.next)
		copy(out, b.ring[:b.next])
		return out
	}

	out := make([]tracker.Event, 0, len(b.ring))
	out = append(out, b.ring[b.next:]...)
	out = append(out, b.ring[:b.next]...)
	return out
}

// Recent returns at most n of the newest events, oldest first
func (b *Buffer) Recent(n int) []tracker.Event {
	all := b.History()
	if n <= 0 || n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}

// Total returns how many events have been emitted, including evicted ones
func (b *Buffer) Total() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.total
}
