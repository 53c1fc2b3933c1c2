package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/deskclock-shortcuts/internal/config"
	"github.com/oshokin/deskclock-shortcuts/internal/logger"
	"github.com/oshokin/deskclock-shortcuts/internal/service/server"
	"github.com/oshokin/deskclock-shortcuts/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// publishedFile path where the published shortcut set is mirrored.
	publishedFile string

	// rootCmd represents the base command for running the gRPC server.
	rootCmd = &cobra.Command{
		Use:   "deskclock-server [listen-address]",
		Short: "Run the stopwatch and publish launcher shortcuts.",
		Long: `Starts the deskclock gRPC server that owns the stopwatch and keeps the
launcher shortcut set in sync with it.

On start the full shortcut set (new alarm, new timer, stopwatch, screensaver)
is published once. Afterwards only the stopwatch shortcut is updated whenever
the stopwatch starts or pauses.

Only the port from ServerAddress config is used for listening (e.g., :8080).
Listen address can be provided as argument to override config (e.g., :9090, 127.0.0.1:8080).
The published set is mirrored to a JSON file the launcher reads.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			defer logger.Sync()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				PublishedFile: publishedFile,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the deskclock-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&publishedFile, "published-file", "p", "", "override path of the published shortcut set")
}
