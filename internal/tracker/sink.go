package tracker

import (
	"context"
	"log/slog"
)

// Sink receives tracker events. Emit is called from the poll goroutine and
// must not block for long.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a plain function to Sink
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) {
	f(e)
}

// MultiSink fans every event out to all of its members in order
type MultiSink []Sink

func (m MultiSink) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

// LogSink writes events to a structured logger
type LogSink struct {
	Logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{Logger: logger}
}

func (s *LogSink) Emit(e Event) {
	attrs := []slog.Attr{
		slog.String("kind", string(e.Kind)),
		slog.String("title", e.Title),
	}
	if e.HasRect() {
		attrs = append(attrs, slog.Any("rect", e.Rect))
	}
	if e.Op != "" {
		attrs = append(attrs, slog.String("op", e.Op))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.Any("error", e.Err))
	}

	level := slog.LevelInfo
	switch {
	case e.Kind == EventSample:
		level = slog.LevelDebug
	case e.IsError():
		level = slog.LevelWarn
	}

	s.Logger.LogAttrs(context.Background(), level, e.String(), attrs...)
}
