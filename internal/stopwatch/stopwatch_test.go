package stopwatch

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/deskclock-shortcuts/internal/domain/shortcut"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

// Now returns the current fake time.
func (c *fakeClock) Now() time.Time { return c.now }

// Advance moves the fake time forward.
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// change is one recorded StateChanged call.
type change struct {
	before shortcut.State
	after  shortcut.State
}

// recordingListener stores every notification it receives.
type recordingListener struct {
	mu      sync.Mutex
	changes []change
	laps    []Lap
}

// StateChanged records a state change.
func (r *recordingListener) StateChanged(_ context.Context, before, after shortcut.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.changes = append(r.changes, change{before: before, after: after})
}

// LapAdded records a lap.
func (r *recordingListener) LapAdded(_ context.Context, lap Lap) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.laps = append(r.laps, lap)
}

func newTestStopwatch() (*Stopwatch, *fakeClock, *recordingListener) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	s := New(WithClock(clock.Now))
	l := new(recordingListener)
	s.Subscribe(l)

	return s, clock, l
}

// TestStopwatch_StartPause verifies elapsed accounting and before/after notifications.
func TestStopwatch_StartPause(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, clock, l := newTestStopwatch()

	require.False(t, s.State().StopwatchRunning)

	snapshot := s.Start(ctx)
	require.True(t, snapshot.Running)
	require.True(t, s.State().StopwatchRunning)

	clock.Advance(3 * time.Second)
	require.Equal(t, 3*time.Second, s.Snapshot().Elapsed)

	snapshot = s.Pause(ctx)
	require.False(t, snapshot.Running)
	require.Equal(t, 3*time.Second, snapshot.Elapsed)

	// Paused time does not count.
	clock.Advance(time.Minute)
	s.Start(ctx)
	clock.Advance(2 * time.Second)
	require.Equal(t, 5*time.Second, s.Snapshot().Elapsed)

	require.Equal(t, []change{
		{before: shortcut.State{StopwatchRunning: false}, after: shortcut.State{StopwatchRunning: true}},
		{before: shortcut.State{StopwatchRunning: true}, after: shortcut.State{StopwatchRunning: false}},
		{before: shortcut.State{StopwatchRunning: false}, after: shortcut.State{StopwatchRunning: true}},
	}, l.changes)
}

// TestStopwatch_NoOps ensures redundant transitions do not notify listeners.
func TestStopwatch_NoOps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _, l := newTestStopwatch()

	s.Pause(ctx)
	s.Reset(ctx)
	require.Empty(t, l.changes)

	s.Start(ctx)
	s.Start(ctx)
	require.Len(t, l.changes, 1)
}

// TestStopwatch_Laps covers lap recording, limits and reset.
func TestStopwatch_Laps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, clock, l := newTestStopwatch()

	_, err := s.AddLap(ctx)
	require.ErrorIs(t, err, ErrNotStarted)

	s.Start(ctx)
	clock.Advance(2 * time.Second)

	lap, err := s.AddLap(ctx)
	require.NoError(t, err)
	require.Equal(t, Lap{Number: 1, LapTime: 2 * time.Second, Total: 2 * time.Second}, lap)

	clock.Advance(time.Second)
	s.Pause(ctx)

	lap, err = s.AddLap(ctx)
	require.NoError(t, err)
	require.Equal(t, Lap{Number: 2, LapTime: time.Second, Total: 3 * time.Second}, lap)
	require.Len(t, l.laps, 2)
	require.Equal(t, 2, s.Snapshot().Laps)

	for range MaxLaps - 2 {
		_, err = s.AddLap(ctx)
		require.NoError(t, err)
	}

	_, err = s.AddLap(ctx)
	require.ErrorIs(t, err, ErrTooManyLaps)

	snapshot := s.Reset(ctx)
	require.Equal(t, Snapshot{}, snapshot)
	require.Zero(t, s.Snapshot().Laps)
}

// TestStopwatch_ConcurrentOrdering checks that listeners see a consistent sequence under concurrent use.
func TestStopwatch_ConcurrentOrdering(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()
	l := new(recordingListener)
	s.Subscribe(l)

	var wg sync.WaitGroup

	for i := range 50 {
		wg.Go(func() {
			if i%2 == 0 {
				s.Start(ctx)
			} else {
				s.Pause(ctx)
			}
		})
	}

	wg.Wait()

	// Every notification continues from the previous one.
	for i := 1; i < len(l.changes); i++ {
		require.Equal(t, l.changes[i-1].after, l.changes[i].before)
	}

	if n := len(l.changes); n > 0 {
		require.Equal(t, s.State(), l.changes[n-1].after)
	}
}

// TestStopwatch_RealClock runs the default clock inside a synctest bubble,
// where time only advances when every goroutine is blocked.
func TestStopwatch_RealClock(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		s := New()

		s.Start(ctx)
		time.Sleep(1500 * time.Millisecond)

		lap, err := s.AddLap(ctx)
		require.NoError(t, err)
		require.Equal(t, 1500*time.Millisecond, lap.Total)

		time.Sleep(500 * time.Millisecond)
		require.Equal(t, 2*time.Second, s.Pause(ctx).Elapsed)

		time.Sleep(time.Hour)
		require.Equal(t, 2*time.Second, s.Snapshot().Elapsed)
	})
}
