package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/deskclock-shortcuts/internal/api/grpc/shortcut"
	"github.com/oshokin/deskclock-shortcuts/internal/catalog"
	"github.com/oshokin/deskclock-shortcuts/internal/config"
	"github.com/oshokin/deskclock-shortcuts/internal/controller"
	"github.com/oshokin/deskclock-shortcuts/internal/logger"
	"github.com/oshokin/deskclock-shortcuts/internal/resources"
	"github.com/oshokin/deskclock-shortcuts/internal/stopwatch"
	"github.com/oshokin/deskclock-shortcuts/internal/surface"
)

// Options controls the deskclock-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// PublishedFile overrides where the published shortcut set is written.
	PublishedFile string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run wires the stopwatch, the shortcut controller and the launcher surface,
// publishes the initial set and serves gRPC until ctx is canceled.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "deskclock-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if settings.LogLevel != "" {
		lvl, _ := logger.ParseLogLevel(settings.LogLevel)
		logger.SetLevel(lvl)
	}

	publishedFile := settings.PublishedFile
	if opts.PublishedFile != "" {
		publishedFile = opts.PublishedFile
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	svc, err := newServiceFromSettings(ctx, settings, publishedFile)
	if err != nil {
		return fmt.Errorf("initialise service: %w", err)
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(api.LoggingInterceptor()))
	api.RegisterShortcutServiceServer(grpcServer, api.NewServer(svc))

	logger.InfoKV(ctx, "Deskclock server listening", "listen_address", listenAddress, "published_file", publishedFile)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		grpcServer.GracefulStop()

		return nil
	})

	if err = g.Wait(); err != nil {
		return err
	}

	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// newServiceFromSettings builds the collaborators described by settings.
func newServiceFromSettings(ctx context.Context, settings *config.Config, publishedFile string) (*service, error) {
	bundle, err := resources.Load(settings.LabelsFile)
	if err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}

	surfaceOptions := []surface.Option{surface.WithMaxShortcuts(settings.MaxShortcuts)}
	if gate := buildGate(settings); gate != nil {
		surfaceOptions = append(surfaceOptions, surface.WithGate(gate))
	}

	var (
		launcher = surface.OpenFile(publishedFile, surfaceOptions...)
		sw       = stopwatch.New()
		cat      = catalog.New(bundle, resources.ProtoEncoder{}, catalog.WithActivity(settings.Activity))
		ctrl     = controller.New(sw, launcher, cat)
	)

	return newService(ctx, sw, ctrl, launcher), nil
}

// buildGate combines the configured availability gates, or returns nil.
func buildGate(settings *config.Config) surface.Gate {
	var gates []surface.Gate

	if settings.LockFile != "" {
		gates = append(gates, surface.LockFileGate{Path: settings.LockFile})
	}

	if settings.LauncherProcess != "" {
		gates = append(gates, surface.ProcessGate{Executable: settings.LauncherProcess})
	}

	if len(gates) == 0 {
		return nil
	}

	return surface.AllOf(gates...)
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Port-only address binds on all interfaces.
	return ":" + port, nil
}
