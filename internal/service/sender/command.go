package sender

import (
	"context"
	"fmt"

	"github.com/wildwarden/buzzer-relay/internal/config"
	"github.com/wildwarden/buzzer-relay/internal/device"
	"github.com/wildwarden/buzzer-relay/internal/domain/alert"
	"github.com/wildwarden/buzzer-relay/internal/logger"
)

// Options configures a one-shot device command.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// PortName overrides the serial port from the configuration.
	PortName string
	// BaudRate overrides the baud rate from the configuration.
	BaudRate int
	// Command is the byte to send.
	Command alert.Command
}

// Run opens the port, waits for the board to settle, sends the command and closes the port.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Resolve(opts.ConfigPath, &config.Overrides{
		PortName: opts.PortName,
		BaudRate: opts.BaudRate,
	})
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	return Send(ctx, device.NewSerialConnector(cfg), opts.Command)
}

// Send delivers cmd through a fresh channel from connector.
func Send(ctx context.Context, connector device.Connector, cmd alert.Command) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "send")

	ch, err := connector.Connect(ctx)
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		if err := ch.Close(); err != nil {
			logger.ErrorKV(ctx, "Close device channel failed", "error", err)
		}
	}()

	if err = ch.Send(cmd); err != nil {
		return err
	}

	logger.Infof(ctx, "Buzzer command %s sent", cmd)

	return nil
}
