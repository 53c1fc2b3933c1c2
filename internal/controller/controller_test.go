package controller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/oshokin/deskclock-shortcuts/internal/catalog"
	"github.com/oshokin/deskclock-shortcuts/internal/domain/shortcut"
	"github.com/oshokin/deskclock-shortcuts/internal/resources"
	"github.com/oshokin/deskclock-shortcuts/internal/stopwatch"
	"github.com/oshokin/deskclock-shortcuts/internal/surface"
)

var errTestSurface = errors.New("test surface error")

// TestMain fails the package if the controller leaves goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSource is a StateSource with a settable state and a single listener slot.
type fakeSource struct {
	state      shortcut.State
	listeners  []stopwatch.Listener
	subscribed int
}

// State returns the configured state.
func (f *fakeSource) State() shortcut.State { return f.state }

// Subscribe stores the listener.
func (f *fakeSource) Subscribe(l stopwatch.Listener) {
	f.listeners = append(f.listeners, l)
	f.subscribed++
}

// emit changes the state and notifies listeners synchronously.
func (f *fakeSource) emit(running bool) {
	before := f.state
	f.state = shortcut.State{StopwatchRunning: running}

	for _, l := range f.listeners {
		l.StateChanged(context.Background(), before, f.state)
	}
}

// recordingSurface wraps a Memory surface and records every call.
type recordingSurface struct {
	*surface.Memory

	mu          sync.Mutex
	available   bool
	replaceErr  error
	updateErr   error
	replaceAlls [][]shortcut.Descriptor
	updates     []shortcut.Descriptor
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{
		Memory:    surface.NewMemory(),
		available: true,
	}
}

// IsAvailable returns the configured availability.
func (r *recordingSurface) IsAvailable(context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.available
}

// ReplaceAll records the call and forwards it unless replaceErr is set.
func (r *recordingSurface) ReplaceAll(ctx context.Context, descriptors []shortcut.Descriptor) error {
	r.mu.Lock()
	r.replaceAlls = append(r.replaceAlls, descriptors)
	err := r.replaceErr
	r.mu.Unlock()

	if err != nil {
		return err
	}

	return r.Memory.ReplaceAll(ctx, descriptors)
}

// UpdateOne records the call and forwards it unless updateErr is set.
func (r *recordingSurface) UpdateOne(ctx context.Context, descriptor shortcut.Descriptor) error {
	r.mu.Lock()
	r.updates = append(r.updates, descriptor)
	err := r.updateErr
	r.mu.Unlock()

	if err != nil {
		return err
	}

	return r.Memory.UpdateOne(ctx, descriptor)
}

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	bundle, err := resources.Default()
	require.NoError(t, err)

	return catalog.New(bundle, resources.ProtoEncoder{})
}

func stopwatchEntry(t *testing.T, s *recordingSurface) shortcut.Descriptor {
	t.Helper()

	list := s.List()
	require.Len(t, list, shortcut.Count())

	return list[shortcut.CategoryStopwatch]
}

// TestNew_SubscribesOnce verifies a single subscription is made at construction.
func TestNew_SubscribesOnce(t *testing.T) {
	t.Parallel()

	source := new(fakeSource)
	c := New(source, newRecordingSurface(), newTestCatalog(t))

	require.Equal(t, 1, source.subscribed)
	require.Same(t, c, source.listeners[0])
	require.Equal(t, StatusUninitialized, c.Status())
}

// TestStart_PublishesFullSet checks that Start replaces the whole set before any notification.
func TestStart_PublishesFullSet(t *testing.T) {
	t.Parallel()

	source := &fakeSource{state: shortcut.State{StopwatchRunning: true}}
	s := newRecordingSurface()
	c := New(source, s, newTestCatalog(t))

	require.NoError(t, c.Start(context.Background()))
	require.Equal(t, StatusSynced, c.Status())
	require.Len(t, s.replaceAlls, 1)
	require.Empty(t, s.updates)

	list := s.List()
	require.Len(t, list, 4)

	for i, d := range list {
		require.Equal(t, i, d.Rank)
		require.Equal(t, shortcut.Category(i), d.Category)
	}

	require.Equal(t, "shortcut_stopwatch_pause", list[2].ID)
}

// TestStateChanged_UpdatesOnlyStopwatch covers the false -> true transition.
func TestStateChanged_UpdatesOnlyStopwatch(t *testing.T) {
	t.Parallel()

	source := new(fakeSource)
	s := newRecordingSurface()
	c := New(source, s, newTestCatalog(t))
	require.NoError(t, c.Start(context.Background()))

	before := s.List()

	source.emit(true)

	require.Len(t, s.replaceAlls, 1, "state changes must not replace the whole set")
	require.Len(t, s.updates, 1)
	require.Equal(t, "shortcut_stopwatch_pause", s.updates[0].ID)
	require.Equal(t, 2, s.updates[0].Rank)

	after := s.List()
	require.Equal(t, before[0], after[0])
	require.Equal(t, before[1], after[1])
	require.Equal(t, before[3], after[3])
	require.Equal(t, "shortcut_stopwatch_pause", after[2].ID)
	require.Equal(t, StatusSynced, c.Status())
}

// TestStateChanged_SurfaceUnavailable ensures nothing is published and no failure is reported.
func TestStateChanged_SurfaceUnavailable(t *testing.T) {
	t.Parallel()

	var failures []error

	source := new(fakeSource)
	s := newRecordingSurface()
	c := New(source, s, newTestCatalog(t), WithFailureHandler(func(_ context.Context, err error) {
		failures = append(failures, err)
	}))
	require.NoError(t, c.Start(context.Background()))

	s.available = false
	source.emit(true)

	require.Len(t, s.replaceAlls, 1)
	require.Empty(t, s.updates)
	require.Empty(t, failures)
	require.Equal(t, StatusStale, c.Status())
	require.Equal(t, "shortcut_stopwatch_start", stopwatchEntry(t, s).ID)

	// No catch-up: the next delivered change is the next publish.
	s.available = true
	source.emit(false)
	require.Len(t, s.updates, 1)
	require.Equal(t, "shortcut_stopwatch_start", s.updates[0].ID)
	require.Equal(t, StatusSynced, c.Status())
}

// TestStateChanged_BeforeStart verifies notifications are ignored until the first publish.
func TestStateChanged_BeforeStart(t *testing.T) {
	t.Parallel()

	source := new(fakeSource)
	s := newRecordingSurface()
	c := New(source, s, newTestCatalog(t))

	source.emit(true)
	require.Empty(t, s.updates)
	require.Empty(t, s.replaceAlls)

	require.NoError(t, c.Start(context.Background()))
	require.Equal(t, "shortcut_stopwatch_pause", stopwatchEntry(t, s).ID)
}

// TestStateChanged_Idempotent checks that redundant notifications leave the set unchanged.
func TestStateChanged_Idempotent(t *testing.T) {
	t.Parallel()

	source := new(fakeSource)
	s := newRecordingSurface()
	c := New(source, s, newTestCatalog(t))
	require.NoError(t, c.Start(context.Background()))

	source.emit(true)
	first := s.List()

	source.emit(true)
	require.Len(t, s.updates, 2)
	require.Equal(t, s.updates[0], s.updates[1])
	require.Equal(t, first, s.List())
}

// TestStateChanged_Ordering ensures the last delivered notification wins.
func TestStateChanged_Ordering(t *testing.T) {
	t.Parallel()

	source := new(fakeSource)
	s := newRecordingSurface()
	c := New(source, s, newTestCatalog(t))
	require.NoError(t, c.Start(context.Background()))

	source.emit(true)
	source.emit(false)

	require.Len(t, s.updates, 2)
	require.Equal(t, "shortcut_stopwatch_pause", s.updates[0].ID)
	require.Equal(t, "shortcut_stopwatch_start", s.updates[1].ID)
	require.Equal(t, "shortcut_stopwatch_start", stopwatchEntry(t, s).ID)
}

// TestPublishFailures verifies failures are reported as ErrFailedPublish and do not stop later updates.
func TestPublishFailures(t *testing.T) {
	t.Parallel()

	var failures []error

	source := new(fakeSource)
	s := newRecordingSurface()
	c := New(source, s, newTestCatalog(t), WithFailureHandler(func(_ context.Context, err error) {
		failures = append(failures, err)
	}))

	s.replaceErr = errTestSurface
	err := c.Start(context.Background())
	require.ErrorIs(t, err, shortcut.ErrFailedPublish)
	require.ErrorIs(t, err, errTestSurface)
	require.Equal(t, StatusUninitialized, c.Status())

	s.replaceErr = nil
	require.NoError(t, c.Start(context.Background()))

	s.updateErr = errTestSurface
	require.NotPanics(t, func() { source.emit(true) })
	require.Equal(t, StatusStale, c.Status())
	require.Len(t, failures, 2)
	require.ErrorIs(t, failures[1], shortcut.ErrFailedPublish)
	require.Equal(t, "shortcut_stopwatch_start", stopwatchEntry(t, s).ID)

	s.updateErr = nil
	source.emit(false)
	source.emit(true)
	require.Equal(t, StatusSynced, c.Status())
	require.Equal(t, "shortcut_stopwatch_pause", stopwatchEntry(t, s).ID)
}

// TestWithStopwatch wires the controller to a real stopwatch and memory surface.
func TestWithStopwatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sw := stopwatch.New()
	s := surface.NewMemory()
	c := New(sw, s, newTestCatalog(t))
	require.NoError(t, c.Start(ctx))

	sw.Start(ctx)
	require.Equal(t, "shortcut_stopwatch_pause", s.List()[2].ID)

	_, err := sw.AddLap(ctx)
	require.NoError(t, err)

	sw.Pause(ctx)
	require.Equal(t, "shortcut_stopwatch_start", s.List()[2].ID)

	sw.Start(ctx)
	sw.Reset(ctx)
	require.Equal(t, "shortcut_stopwatch_start", s.List()[2].ID)
	require.Len(t, s.List(), 4)
}

// TestResyncDuringStateChanges checks that concurrent resyncs never leave an
// outdated stopwatch shortcut behind.
func TestResyncDuringStateChanges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sw := stopwatch.New()
	s := surface.NewMemory()
	c := New(sw, s, newTestCatalog(t))
	require.NoError(t, c.Start(ctx))

	var wg sync.WaitGroup

	wg.Go(func() {
		for range 100 {
			sw.Start(ctx)
			sw.Pause(ctx)
		}

		sw.Start(ctx)
	})

	wg.Go(func() {
		for range 50 {
			assert.NoError(t, c.Start(ctx))
		}
	})

	wg.Wait()

	require.True(t, sw.State().StopwatchRunning)
	require.Equal(t, "shortcut_stopwatch_pause", s.List()[shortcut.CategoryStopwatch].ID)
	require.Equal(t, StatusSynced, c.Status())
}

// TestStatusString covers the status names.
func TestStatusString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "uninitialized", StatusUninitialized.String())
	require.Equal(t, "synced", StatusSynced.String())
	require.Equal(t, "stale", StatusStale.String())
	require.Equal(t, "status(9)", Status(9).String())
}
