package device

import (
	"context"
	"fmt"
	"time"

	"go.bug.st/serial"

	"github.com/wildwarden/buzzer-relay/internal/config"
	"github.com/wildwarden/buzzer-relay/internal/domain/alert"
	"github.com/wildwarden/buzzer-relay/internal/logger"
)

// openFunc opens a serial port; replaced in tests.
type openFunc func(name string, mode *serial.Mode) (serial.Port, error)

// SerialConnector opens the buzzer port with go.bug.st/serial.
type SerialConnector struct {
	// portName is the OS name of the port (COM4, /dev/ttyACM0).
	portName string
	// mode holds the line settings; only the baud rate is configurable.
	mode *serial.Mode
	// readTimeout is applied to the port after it is opened.
	readTimeout time.Duration
	// settleDelay is waited after opening so the board can finish its reset.
	settleDelay time.Duration

	open openFunc
}

// NewSerialConnector creates a connector from the relay configuration.
func NewSerialConnector(cfg *config.Config) *SerialConnector {
	return &SerialConnector{
		portName: cfg.PortName,
		mode: &serial.Mode{
			BaudRate: cfg.BaudRate,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		},
		readTimeout: cfg.ReadTimeout,
		settleDelay: cfg.SettleDelay,
		open:        serial.Open,
	}
}

// PortName returns the configured port name.
func (c *SerialConnector) PortName() string {
	return c.portName
}

// Connect opens the port and waits for the settle delay.
// Opening the port resets most Arduino boards, commands written during the
// bootloader window are lost.
//
//nolint:ireturn // Connector implementations hand out the Channel interface.
func (c *SerialConnector) Connect(ctx context.Context) (Channel, error) {
	logger.Info(ctx, "Attempting to connect to device...")

	port, err := c.open(c.portName, c.mode)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrPortUnavailable, c.portName, err)
	}

	if c.readTimeout > 0 {
		if err = port.SetReadTimeout(c.readTimeout); err != nil {
			_ = port.Close()

			return nil, fmt.Errorf("%w: set read timeout on %s: %w", ErrPortUnavailable, c.portName, err)
		}
	}

	logger.Infof(ctx, "Successfully connected to device on %s", c.portName)

	if c.settleDelay > 0 {
		timer := time.NewTimer(c.settleDelay)
		defer timer.Stop()

		// An interrupt during the delay still returns the open channel so the
		// caller's cleanup can switch the buzzer off and close it.
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}

	return &SerialChannel{
		port: port,
		name: c.portName,
	}, nil
}

// SerialChannel is an open serial connection to the buzzer controller.
type SerialChannel struct {
	port serial.Port
	name string
}

// Send writes the command byte.
func (c *SerialChannel) Send(cmd alert.Command) error {
	if c.port == nil {
		return ErrClosed
	}

	n, err := c.port.Write([]byte{cmd.Byte()})
	if err != nil {
		return fmt.Errorf("%w: %s on %s: %w", ErrWrite, cmd, c.name, err)
	}

	if n != 1 {
		return fmt.Errorf("%w: %s on %s: short write", ErrWrite, cmd, c.name)
	}

	return nil
}

// Close releases the port.
func (c *SerialChannel) Close() error {
	if c.port == nil {
		return nil
	}

	port := c.port
	c.port = nil

	if err := port.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.name, err)
	}

	return nil
}
