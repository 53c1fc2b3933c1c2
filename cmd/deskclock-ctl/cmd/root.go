package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/deskclock-shortcuts/internal/config"
	"github.com/oshokin/deskclock-shortcuts/internal/service/client"
	"github.com/oshokin/deskclock-shortcuts/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the configured server address.
	serverAddress string

	// rootCmd represents the base command; it only groups the subcommands.
	rootCmd = &cobra.Command{
		Use:   "deskclock-ctl",
		Short: "Control the deskclock stopwatch and inspect launcher shortcuts.",
		Long: `Sends a single request to a running deskclock-server.

Stopwatch subcommands change the stopwatch and let the server update the
stopwatch launcher shortcut. Shortcut subcommands list or republish the set.`,
		SilenceUsage: true,
	}
)

// actionCommands lists every subcommand and the action it performs.
//
//nolint:gochecknoglobals // Static subcommand table.
var actionCommands = []struct {
	action client.Action
	short  string
}{
	{client.ActionStart, "Start the stopwatch."},
	{client.ActionPause, "Pause the stopwatch."},
	{client.ActionReset, "Reset the stopwatch and clear its laps."},
	{client.ActionLap, "Record a lap on the running stopwatch."},
	{client.ActionStatus, "Print the stopwatch state."},
	{client.ActionList, "List the published launcher shortcuts."},
	{client.ActionResync, "Republish the full launcher shortcut set."},
	{client.ActionPublished, "Print the published shortcut file as the launcher reads it."},
}

// newActionCommand builds the subcommand for action.
func newActionCommand(action client.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return client.Run(ctx, &client.Options{
				ConfigPath:    cfgPath,
				ServerAddress: serverAddress,
				Action:        action,
			})
		},
	}
}

// Execute runs the deskclock-ctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverAddress, "server", "s", "", "override the configured server address")

	for _, c := range actionCommands {
		rootCmd.AddCommand(newActionCommand(c.action, c.short))
	}
}
