package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wildwarden/buzzer-relay/internal/domain/alert"
	"github.com/wildwarden/buzzer-relay/internal/service/sender"
)

var (
	// sendPort overrides the serial port for the send command.
	sendPort string
	// sendBaud overrides the baud rate for the send command.
	sendBaud int

	// sendCmd writes one command to the buzzer.
	sendCmd = &cobra.Command{
		Use:       "send on|off",
		Short:     "Switch the buzzer on or off once.",
		Long:      `Opens the serial port, waits for the board to reset, writes '1' (on) or '0' (off) and closes the port. Useful to test the wiring and the firmware without the status endpoint.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(_ *cobra.Command, args []string) error {
			command, ok := alert.ParseCommand(args[0])
			if !ok {
				return fmt.Errorf("unknown command %q, expected on or off", args[0])
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return sender.Run(ctx, &sender.Options{
				ConfigPath: configPath,
				PortName:   sendPort,
				BaudRate:   sendBaud,
				Command:    command,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	sendCmd.Flags().StringVarP(&sendPort, "port", "p", "", "serial port of the buzzer controller")
	sendCmd.Flags().IntVarP(&sendBaud, "baud", "b", 0, "serial baud rate")
}
