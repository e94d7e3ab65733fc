package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wildwarden/buzzer-relay/internal/config"
	"github.com/wildwarden/buzzer-relay/internal/service/relay"
	"github.com/wildwarden/buzzer-relay/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// overrides collects flag values that take precedence over the file.
	overrides config.Overrides
	// logFile backs --log-file; it only overrides the file when the flag is set.
	logFile string
	// allowMultiple disables the single-instance check.
	allowMultiple bool

	// rootCmd represents the base command running the relay loop.
	rootCmd = &cobra.Command{
		Use:   "buzzer-relay",
		Short: "Sound a serial buzzer while pending cases are waiting.",
		Long: `Background service that polls the buzzer status endpoint and drives a buzzer
attached to a microcontroller on a serial port.

Every poll interval (5 seconds by default) the status is fetched and '1' (on) or
'0' (off) is written to the port. Alert and all clear transitions are logged with
the pending cases, to the console and to an append-only log file.
When the port is missing the relay keeps polling and reconnects on the next tick.
On interrupt the buzzer is switched off and the port is released.

Settings come from the configuration file when it exists; flags override them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// An explicit empty --log-file disables the file log.
			if cmd.Flags().Changed("log-file") {
				overrides.LogFile = &logFile
			}

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &relay.Options{
				ConfigPath:    configPath,
				Overrides:     overrides,
				AllowMultiple: allowMultiple,
			}

			return relay.Run(ctx, options)
		},
	}
)

// Execute runs the buzzer-relay CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")

	// Setup command flags with consistent naming and descriptions.
	flags := rootCmd.Flags()
	flags.StringVar(&overrides.APIURL, "api-url", "", "buzzer status endpoint")
	flags.StringVarP(&overrides.PortName, "port", "p", "", "serial port of the buzzer controller")
	flags.IntVarP(&overrides.BaudRate, "baud", "b", 0, "serial baud rate")
	flags.DurationVarP(&overrides.PollInterval, "interval", "i", 0, "time between two status checks")
	flags.StringVar(&logFile, "log-file", "", "append-only log file (empty disables it)")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "minimum log level (debug, info, warn, error)")

	// Hidden flag for running a second relay against another port.
	flags.BoolVar(&allowMultiple, "allow-multiple", false, "skip the single-instance check")

	err := flags.MarkHidden("allow-multiple")
	if err != nil {
		panic(err)
	}

	rootCmd.AddCommand(checkCmd, sendCmd, portsCmd)
}
