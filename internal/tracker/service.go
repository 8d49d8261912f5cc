package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrAlreadyRunning = errors.New("tracker is already running")

// Service runs a Tracker on a background goroutine and lets the foreground
// start and stop it.
type Service struct {
	tracker  *Tracker
	interval time.Duration
	sink     Sink
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool // the current run still owes a Stopped event
}

func NewService(t *Tracker, interval time.Duration, sink Sink) *Service {
	if sink == nil {
		sink = MultiSink(nil)
	}
	return &Service{
		tracker:  t,
		interval: interval,
		sink:     sink,
		logger:   slog.Default(),
	}
}

// SetLogger replaces the logger used for lifecycle messages
func (s *Service) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// Start launches the poll loop. The loop ends when ctx is cancelled or Stop
// is called.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.aliveLocked() {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.running = true

	s.logger.Info("starting tracker", "title", s.tracker.Title(), "interval", s.interval)
	s.tracker.emit(s.sink, Event{Kind: EventStarted})

	go func() {
		defer close(done)
		s.tracker.Run(runCtx, s.interval, s.sink)
	}()

	return nil
}

// Stop cancels the poll loop and blocks until it has exited. Calling Stop
// on a stopped service is a no-op.
func (s *Service) Stop() {
	s.mu.Lock()
	done := s.done
	owner := s.running
	cancel := s.cancel
	s.running = false
	s.mu.Unlock()

	if done == nil {
		return
	}
	if owner {
		cancel()
	}
	<-done

	if owner {
		s.tracker.emit(s.sink, Event{Kind: EventStopped})
		s.logger.Info("tracker stopped", "title", s.tracker.Title())
	}
}

// Wait blocks until the current poll loop exits
func (s *Service) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aliveLocked()
}

func (s *Service) State() State {
	return s.tracker.State()
}

func (s *Service) Title() string {
	return s.tracker.Title()
}

func (s *Service) Interval() time.Duration {
	return s.interval
}

// aliveLocked reports whether a worker goroutine still exists. It looks
// only at done, so a worker that is being stopped still counts as alive.
func (s *Service) aliveLocked() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}
