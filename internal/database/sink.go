package database

import (
	"log/slog"
	"sync"

	"github.com/winkeep/winkeep/internal/models"
	"github.com/winkeep/winkeep/internal/tracker"
	"github.com/winkeep/winkeep/pkg/window"
)

// EventSink journals tracker events. A sample is only written when its rect
// differs from the last one journaled for the same title during the current
// appearance. Insert failures are logged and dropped.
type EventSink struct {
	repo   *Repository
	logger *slog.Logger

	mu         sync.Mutex
	lastSample map[string]window.Rect
}

func NewEventSink(repo *Repository, logger *slog.Logger) *EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventSink{repo: repo, logger: logger, lastSample: map[string]window.Rect{}}
}

func (s *EventSink) Emit(e tracker.Event) {
	if !s.shouldJournal(e) {
		return
	}
	if err := s.repo.Create(ToModel(e)); err != nil {
		s.logger.Warn("failed to journal event", "kind", e.Kind, "error", err)
	}
}

func (s *EventSink) shouldJournal(e tracker.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e.Kind {
	case tracker.EventSample:
		if last, ok := s.lastSample[e.Title]; ok && last == e.Rect {
			return false
		}
		s.lastSample[e.Title] = e.Rect
	case tracker.EventFound, tracker.EventClosed, tracker.EventStopped:
		delete(s.lastSample, e.Title)
	}
	return true
}

// ToModel converts a tracker event into its journal row
func ToModel(e tracker.Event) *models.TrackerEvent {
	m := &models.TrackerEvent{
		Timestamp: e.Time,
		Kind:      string(e.Kind),
		Title:     e.Title,
		Op:        e.Op,
		Message:   e.String(),
	}
	if e.HasRect() {
		m.HasRect = true
		m.X = e.Rect.X
		m.Y = e.Rect.Y
		m.Width = e.Rect.Width
		m.Height = e.Rect.Height
	}
	return m
}
