package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/oshokin/deskclock-shortcuts/internal/catalog"
	"github.com/oshokin/deskclock-shortcuts/internal/domain/shortcut"
	"github.com/oshokin/deskclock-shortcuts/internal/logger"
	"github.com/oshokin/deskclock-shortcuts/internal/stopwatch"
)

// Status is the synchronization status of the controller.
type Status int

const (
	// StatusUninitialized means nothing was published yet.
	StatusUninitialized Status = iota
	// StatusSynced means the surface matches the last known state.
	StatusSynced
	// StatusStale means the last publish failed or was skipped.
	StatusStale
)

// String returns a readable status name.
func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusSynced:
		return "synced"
	case StatusStale:
		return "stale"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// StateSource provides state snapshots and change notifications.
type StateSource interface {
	State() shortcut.State
	Subscribe(listener stopwatch.Listener)
}

// Surface is the launcher surface shortcuts are published to.
type Surface interface {
	ReplaceAll(ctx context.Context, descriptors []shortcut.Descriptor) error
	UpdateOne(ctx context.Context, descriptor shortcut.Descriptor) error
	IsAvailable(ctx context.Context) bool
}

// FailureHandler receives publish failures. The error wraps shortcut.ErrFailedPublish.
type FailureHandler func(ctx context.Context, err error)

// Controller publishes shortcuts and keeps them in sync with the state source.
type Controller struct {
	// source provides the stopwatch state.
	source StateSource
	// surface receives the published shortcuts.
	surface Surface
	// describer derives single shortcuts.
	describer catalog.Describer
	// builder derives the full set.
	builder *catalog.Builder
	// onFailure is called for every failed publish.
	onFailure FailureHandler

	// publishMu orders full publishes and single updates, so a resync can
	// never overwrite a newer stopwatch shortcut with an older one.
	publishMu sync.Mutex
	// mu protects status. It is never held across surface calls.
	mu sync.Mutex
	// status is the current synchronization status.
	status Status
}

// Option configures a Controller.
type Option func(*Controller)

// WithFailureHandler sets the function receiving publish failures.
// The handler runs while the publish is in progress and must not call back
// into the controller.
func WithFailureHandler(handler FailureHandler) Option {
	return func(c *Controller) {
		if handler != nil {
			c.onFailure = handler
		}
	}
}

// New creates a controller and subscribes it to source. The subscription is
// made before New returns, so no notification can be missed between
// construction and Start.
func New(source StateSource, surface Surface, describer catalog.Describer, opts ...Option) *Controller {
	c := &Controller{
		source:    source,
		surface:   surface,
		describer: describer,
		builder:   catalog.NewBuilder(describer),
		onFailure: func(context.Context, error) {},
		status:    StatusUninitialized,
	}

	for _, opt := range opts {
		opt(c)
	}

	source.Subscribe(c)

	return c
}

// Status returns the current synchronization status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// Start publishes the complete shortcut set for the current state with a
// single replace. Calling it again performs a full resync.
func (c *Controller) Start(ctx context.Context) error {
	ctx = logger.WithName(ctx, "shortcuts")

	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	state := c.source.State()

	descriptors, err := c.builder.BuildAll(state)
	if err != nil {
		return fmt.Errorf("build shortcuts: %w", err)
	}

	if err = c.surface.ReplaceAll(ctx, descriptors); err != nil {
		err = fmt.Errorf("%w: replace all: %w", shortcut.ErrFailedPublish, err)
		c.fail(ctx, err)

		return err
	}

	c.setStatus(StatusSynced)
	logger.InfoKV(ctx, "Shortcuts published", "count", len(descriptors), "stopwatch_running", state.StopwatchRunning)

	return nil
}

// StateChanged implements stopwatch.Listener. Only the stopwatch shortcut is
// re-derived, from after, and sent as a single update. Nothing is published
// before Start or while the surface is unavailable.
func (c *Controller) StateChanged(ctx context.Context, before, after shortcut.State) {
	ctx = logger.WithName(ctx, "shortcuts")

	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	if c.Status() == StatusUninitialized {
		logger.DebugKV(ctx, "Shortcuts not published yet, ignoring state change")

		return
	}

	if !c.surface.IsAvailable(ctx) {
		logger.DebugKV(ctx, "Launcher surface unavailable, skipping shortcut update",
			"stopwatch_running", after.StopwatchRunning)
		c.setStatus(StatusStale)

		return
	}

	descriptor, err := c.describer.Describe(shortcut.CategoryStopwatch, after)
	if err != nil {
		logger.ErrorKV(ctx, "Unable to describe stopwatch shortcut", "error", err)
		c.setStatus(StatusStale)

		return
	}

	if err = c.surface.UpdateOne(ctx, descriptor); err != nil {
		c.fail(ctx, fmt.Errorf("%w: update %s: %w", shortcut.ErrFailedPublish, descriptor.ID, err))

		return
	}

	c.setStatus(StatusSynced)
	logger.DebugKV(ctx, "Stopwatch shortcut updated",
		"id", descriptor.ID,
		"was_running", before.StopwatchRunning,
		"running", after.StopwatchRunning)
}

// fail records a publish failure and reports it.
func (c *Controller) fail(ctx context.Context, err error) {
	c.mu.Lock()
	if c.status != StatusUninitialized {
		c.status = StatusStale
	}
	c.mu.Unlock()

	logger.ErrorKV(ctx, "Shortcut publish failed", "error", err)
	c.onFailure(ctx, err)
}

func (c *Controller) setStatus(status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}
