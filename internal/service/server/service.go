package server

import (
	"context"
	"fmt"

	api "github.com/oshokin/deskclock-shortcuts/internal/api/grpc/shortcut"
	"github.com/oshokin/deskclock-shortcuts/internal/controller"
	"github.com/oshokin/deskclock-shortcuts/internal/domain/shortcut"
	"github.com/oshokin/deskclock-shortcuts/internal/logger"
	"github.com/oshokin/deskclock-shortcuts/internal/stopwatch"
)

// publishedSet lists the shortcuts currently on the launcher surface.
type publishedSet interface {
	List() []shortcut.Descriptor
}

var _ stopwatch.LapListener = (*service)(nil)

// service glues the stopwatch, the shortcut controller and the surface
// together for the transport. It is unexported to keep the transport
// decoupled from the implementation.
type service struct {
	// stopwatch is the state source of the controller.
	stopwatch *stopwatch.Stopwatch
	// controller keeps the surface in sync with the stopwatch.
	controller *controller.Controller
	// published lists the surface contents.
	published publishedSet
}

// newService creates the service, subscribes it to the stopwatch for
// logging and publishes the initial shortcut set.
// A failed initial publish is logged but does not prevent serving: the set
// is republished on the next successful resync.
func newService(
	ctx context.Context,
	sw *stopwatch.Stopwatch,
	ctrl *controller.Controller,
	published publishedSet,
) *service {
	s := &service{
		stopwatch:  sw,
		controller: ctrl,
		published:  published,
	}

	sw.Subscribe(s)

	if err := ctrl.Start(ctx); err != nil {
		logger.WarnKV(ctx, "Initial shortcut publish failed", "error", err)
	}

	return s
}

// GetStopwatch returns the stopwatch state.
func (s *service) GetStopwatch(context.Context) stopwatch.Snapshot {
	return s.stopwatch.Snapshot()
}

// StartStopwatch starts the stopwatch.
func (s *service) StartStopwatch(ctx context.Context) stopwatch.Snapshot {
	return s.stopwatch.Start(ctx)
}

// PauseStopwatch pauses the stopwatch.
func (s *service) PauseStopwatch(ctx context.Context) stopwatch.Snapshot {
	return s.stopwatch.Pause(ctx)
}

// ResetStopwatch resets the stopwatch.
func (s *service) ResetStopwatch(ctx context.Context) stopwatch.Snapshot {
	snapshot := s.stopwatch.Reset(ctx)
	logger.Info(ctx, "Stopwatch reset")

	return snapshot
}

// AddLap records a lap.
func (s *service) AddLap(ctx context.Context) (stopwatch.Lap, error) {
	lap, err := s.stopwatch.AddLap(ctx)
	if err != nil {
		return stopwatch.Lap{}, fmt.Errorf("add lap: %w", err)
	}

	return lap, nil
}

// StateChanged implements stopwatch.Listener.
func (s *service) StateChanged(ctx context.Context, _, after shortcut.State) {
	if after.StopwatchRunning {
		logger.Info(ctx, "Stopwatch started")

		return
	}

	logger.Info(ctx, "Stopwatch paused")
}

// LapAdded implements stopwatch.LapListener.
func (s *service) LapAdded(ctx context.Context, lap stopwatch.Lap) {
	logger.InfoKV(ctx, "Lap recorded", "number", lap.Number, "lap_time", lap.LapTime, "total", lap.Total)
}

// ListShortcuts returns the published set and the controller status.
func (s *service) ListShortcuts(context.Context) api.Listing {
	return api.Listing{
		Status:    s.controller.Status().String(),
		Shortcuts: s.published.List(),
	}
}

// ResyncShortcuts republishes the full set from the current stopwatch state.
func (s *service) ResyncShortcuts(ctx context.Context) (api.Listing, error) {
	if err := s.controller.Start(ctx); err != nil {
		return api.Listing{}, fmt.Errorf("resync shortcuts: %w", err)
	}

	return s.ListShortcuts(ctx), nil
}
