package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/deskclock-shortcuts/internal/api/grpc/shortcut"
	"github.com/oshokin/deskclock-shortcuts/internal/config"
	domain "github.com/oshokin/deskclock-shortcuts/internal/domain/shortcut"
	"github.com/oshokin/deskclock-shortcuts/internal/logger"
	"github.com/oshokin/deskclock-shortcuts/internal/resources"
	"github.com/oshokin/deskclock-shortcuts/internal/service/common"
	"github.com/oshokin/deskclock-shortcuts/internal/stopwatch"
	"github.com/oshokin/deskclock-shortcuts/internal/surface"
)

// Action is a deskclock-ctl subcommand.
type Action string

const (
	// ActionStart starts the stopwatch.
	ActionStart Action = "start"
	// ActionPause pauses the stopwatch.
	ActionPause Action = "pause"
	// ActionReset resets the stopwatch.
	ActionReset Action = "reset"
	// ActionLap records a lap.
	ActionLap Action = "lap"
	// ActionStatus prints the stopwatch state.
	ActionStatus Action = "status"
	// ActionList prints the published shortcuts.
	ActionList Action = "list"
	// ActionResync republishes the full shortcut set.
	ActionResync Action = "resync"
	// ActionPublished prints the published file the launcher reads, without
	// contacting the server.
	ActionPublished Action = "published"
)

// Options configures one deskclock-ctl invocation.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// ServerAddress overrides server address from config when specified.
	ServerAddress string

	// Action is the operation to perform.
	Action Action
}

// ErrUnknownAction is returned for actions Run does not know.
var ErrUnknownAction = errors.New("unknown action")

// api is the part of common.Client used by the command.
type api interface {
	GetStopwatch(ctx context.Context) (stopwatch.Snapshot, error)
	StartStopwatch(ctx context.Context) (stopwatch.Snapshot, error)
	PauseStopwatch(ctx context.Context) (stopwatch.Snapshot, error)
	ResetStopwatch(ctx context.Context) (stopwatch.Snapshot, error)
	AddLap(ctx context.Context) (stopwatch.Lap, error)
	ListShortcuts(ctx context.Context) (shortcut.Listing, error)
	ResyncShortcuts(ctx context.Context) (shortcut.Listing, error)
}

// Run connects to the deskclock server and performs opts.Action.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "deskclock-ctl")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if opts.Action == ActionPublished {
		return showPublished(ctx, cfg.PublishedFile)
	}

	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	// Identify current user and hostname for the server's audit log.
	if actor, actorErr := common.DetectActor(); actorErr == nil {
		ctx = shortcut.WithActor(ctx, actor.String())
	} else {
		logger.DebugKV(ctx, "Unable to detect actor", "error", actorErr)
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	logger.DebugKV(ctx, "Calling deskclock server", "server_address", serverAddress, "action", opts.Action)

	return perform(ctx, client, opts.Action)
}

// perform executes action against client and logs the outcome.
//
//nolint:cyclop // One branch per action.
func perform(ctx context.Context, client api, action Action) error {
	var (
		snapshot stopwatch.Snapshot
		err      error
	)

	switch action {
	case ActionStart:
		snapshot, err = client.StartStopwatch(ctx)
	case ActionPause:
		snapshot, err = client.PauseStopwatch(ctx)
	case ActionReset:
		snapshot, err = client.ResetStopwatch(ctx)
	case ActionStatus:
		snapshot, err = client.GetStopwatch(ctx)
	case ActionLap:
		lap, lapErr := client.AddLap(ctx)
		if lapErr != nil {
			return lapErr
		}

		logger.Infof(ctx, "Lap %d: %s (total %s)", lap.Number, lap.LapTime, lap.Total)

		return nil
	case ActionList, ActionResync:
		fetch := client.ListShortcuts
		if action == ActionResync {
			fetch = client.ResyncShortcuts
		}

		listing, listErr := fetch(ctx)
		if listErr != nil {
			return listErr
		}

		logListing(ctx, listing)

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if err != nil {
		return err
	}

	logger.Infof(ctx, "Stopwatch: %s", formatSnapshot(snapshot))

	return nil
}

// showPublished logs the shortcut set stored in the published file.
func showPublished(ctx context.Context, path string) error {
	descriptors, err := surface.ReadPublished(path)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Published file", "path", path, "count", len(descriptors))
	logShortcuts(ctx, descriptors)

	return nil
}

// logListing prints the controller status and every published shortcut.
func logListing(ctx context.Context, listing shortcut.Listing) {
	logger.InfoKV(ctx, "Published shortcuts", "status", listing.Status, "count", len(listing.Shortcuts))
	logShortcuts(ctx, listing.Shortcuts)
}

// logShortcuts prints every shortcut with its decoded intent.
func logShortcuts(ctx context.Context, descriptors []domain.Descriptor) {
	for _, d := range descriptors {
		kvs := []any{"rank", d.Rank, "id", d.ID, "label", d.ShortLabel, "icon", d.Icon}

		intent, err := resources.DecodeIntent(d.Target)
		if err != nil {
			kvs = append(kvs, "target_error", err)
		} else {
			kvs = append(kvs, "action", intent.Action, "component", intent.Component)
		}

		logger.InfoKV(ctx, "Shortcut", kvs...)
	}
}

// formatSnapshot converts a stopwatch snapshot to a readable log message.
func formatSnapshot(s stopwatch.Snapshot) string {
	status := "paused"
	if s.Running {
		status = "running"
	}

	return fmt.Sprintf("%s, elapsed %s, %d laps", status, s.Elapsed, s.Laps)
}
