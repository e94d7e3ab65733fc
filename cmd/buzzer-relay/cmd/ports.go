package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildwarden/buzzer-relay/internal/device"
)

// portsCmd lists the serial ports of the host.
var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports.",
	Long:  "Lists the serial ports found on this machine. USB adapters are shown with vendor and product ids, which helps to find the port of the buzzer controller.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ports, err := device.ListPorts()
		if err != nil {
			return err
		}

		if len(ports) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No serial ports found.")

			return nil
		}

		for _, port := range ports {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), port.String())
		}

		return nil
	},
}
