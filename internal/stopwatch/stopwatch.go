package stopwatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oshokin/deskclock-shortcuts/internal/domain/shortcut"
	"github.com/oshokin/deskclock-shortcuts/internal/logger"
)

// MaxLaps is the number of laps a single run can record.
const MaxLaps = 98

var (
	// ErrNotStarted is returned when a lap is requested before the stopwatch ran.
	ErrNotStarted = errors.New("stopwatch has not been started")
	// ErrTooManyLaps is returned when MaxLaps laps were already recorded.
	ErrTooManyLaps = errors.New("too many laps")
)

// Listener receives stopwatch state changes.
type Listener interface {
	StateChanged(ctx context.Context, before, after shortcut.State)
}

// LapListener is implemented by listeners that also want lap notifications.
type LapListener interface {
	LapAdded(ctx context.Context, lap Lap)
}

// Lap is a single recorded lap.
type Lap struct {
	// Number is the 1-based lap number.
	Number int
	// LapTime is the time since the previous lap.
	LapTime time.Duration
	// Total is the accumulated stopwatch time when the lap was recorded.
	Total time.Duration
}

// Snapshot is the full stopwatch state at a point in time.
type Snapshot struct {
	// Running indicates whether the stopwatch is running.
	Running bool
	// Elapsed is the accumulated time.
	Elapsed time.Duration
	// Laps is the number of recorded laps.
	Laps int
}

// Stopwatch is a pausable stopwatch with lap support.
type Stopwatch struct {
	// notifyMu serializes mutations together with their notifications so
	// listeners observe changes in the order they happened.
	notifyMu sync.Mutex
	// mu protects the fields below.
	mu sync.RWMutex
	// running reports whether the stopwatch is running.
	running bool
	// startedAt is when the current run began.
	startedAt time.Time
	// accumulated is the time of all finished runs.
	accumulated time.Duration
	// laps holds the recorded laps, oldest first.
	laps []Lap
	// listeners are notified after every change.
	listeners []Listener
	// now returns the current time.
	now func() time.Time
}

// Option configures a Stopwatch.
type Option func(*Stopwatch)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Stopwatch) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a reset stopwatch.
func New(opts ...Option) *Stopwatch {
	s := &Stopwatch{
		now: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Subscribe registers a listener. Listeners must not mutate the stopwatch
// from their callbacks.
func (s *Stopwatch) Subscribe(listener Listener) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()
}

// State returns the shortcut-relevant part of the current state.
func (s *Stopwatch) State() shortcut.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return shortcut.State{StopwatchRunning: s.running}
}

// Snapshot returns the current state.
func (s *Stopwatch) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Running: s.running,
		Elapsed: s.elapsedLocked(),
		Laps:    len(s.laps),
	}
}

// Start starts a paused stopwatch. Starting a running stopwatch does nothing.
func (s *Stopwatch) Start(ctx context.Context) Snapshot {
	return s.mutate(ctx, func() bool {
		if s.running {
			return false
		}

		s.running = true
		s.startedAt = s.now()

		return true
	})
}

// Pause pauses a running stopwatch. Pausing a paused stopwatch does nothing.
func (s *Stopwatch) Pause(ctx context.Context) Snapshot {
	return s.mutate(ctx, func() bool {
		if !s.running {
			return false
		}

		s.accumulated += s.now().Sub(s.startedAt)
		s.running = false

		return true
	})
}

// Reset stops the stopwatch and clears the accumulated time and laps.
func (s *Stopwatch) Reset(ctx context.Context) Snapshot {
	return s.mutate(ctx, func() bool {
		if !s.running && s.accumulated == 0 && len(s.laps) == 0 {
			return false
		}

		s.running = false
		s.startedAt = time.Time{}
		s.accumulated = 0
		s.laps = nil

		return true
	})
}

// AddLap records a lap. The stopwatch must be running or paused with time on it.
func (s *Stopwatch) AddLap(ctx context.Context) (Lap, error) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()

	total := s.elapsedLocked()
	if !s.running && total == 0 {
		s.mu.Unlock()

		return Lap{}, ErrNotStarted
	}

	if len(s.laps) >= MaxLaps {
		s.mu.Unlock()

		return Lap{}, ErrTooManyLaps
	}

	var previous time.Duration
	if n := len(s.laps); n > 0 {
		previous = s.laps[n-1].Total
	}

	lap := Lap{
		Number:  len(s.laps) + 1,
		LapTime: total - previous,
		Total:   total,
	}
	s.laps = append(s.laps, lap)
	listeners := s.listeners

	s.mu.Unlock()

	logger.DebugKV(ctx, "Lap added", "number", lap.Number, "total", lap.Total)

	for _, l := range listeners {
		if ll, ok := l.(LapListener); ok {
			ll.LapAdded(ctx, lap)
		}
	}

	return lap, nil
}

// mutate applies change and notifies listeners when it reports a change.
func (s *Stopwatch) mutate(ctx context.Context, change func() bool) Snapshot {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	before := shortcut.State{StopwatchRunning: s.running}
	changed := change()
	after := shortcut.State{StopwatchRunning: s.running}
	snapshot := Snapshot{
		Running: s.running,
		Elapsed: s.elapsedLocked(),
		Laps:    len(s.laps),
	}
	listeners := s.listeners
	s.mu.Unlock()

	if !changed {
		return snapshot
	}

	logger.DebugKV(ctx, "Stopwatch updated", "running", after.StopwatchRunning, "elapsed", snapshot.Elapsed)

	for _, l := range listeners {
		l.StateChanged(ctx, before, after)
	}

	return snapshot
}

func (s *Stopwatch) elapsedLocked() time.Duration {
	if !s.running {
		return s.accumulated
	}

	return s.accumulated + s.now().Sub(s.startedAt)
}
