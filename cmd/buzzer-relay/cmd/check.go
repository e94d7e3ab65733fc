package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wildwarden/buzzer-relay/internal/service/checker"
)

var (
	// checkAPIURL overrides the status endpoint for the check command.
	checkAPIURL string

	// checkCmd polls the status endpoint once.
	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Fetch the buzzer status once and print it.",
		Long: `Performs a single request to the buzzer status endpoint and prints whether the
buzzer would sound, the pending cases count and the cases. Nothing is sent to the
serial port. Exits with a non-zero status when the endpoint cannot be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return checker.Run(ctx, &checker.Options{
				ConfigPath: configPath,
				APIURL:     checkAPIURL,
				Out:        cmd.OutOrStdout(),
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	checkCmd.Flags().StringVar(&checkAPIURL, "api-url", "", "buzzer status endpoint")
}
