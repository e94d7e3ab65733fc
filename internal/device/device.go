package device

import (
	"context"
	"errors"

	"github.com/wildwarden/buzzer-relay/internal/domain/alert"
)

var (
	// ErrPortUnavailable is returned when the serial port cannot be opened.
	ErrPortUnavailable = errors.New("serial port unavailable")
	// ErrWrite is returned when a command could not be written to the port.
	ErrWrite = errors.New("serial write failed")
	// ErrNoChannel is returned when a command is sent without an open channel.
	ErrNoChannel = errors.New("no device channel")
	// ErrClosed is returned when a command is sent on a closed channel.
	ErrClosed = errors.New("device channel closed")
)

// Channel is an open connection to the buzzer controller.
type Channel interface {
	// Send writes a single command byte.
	Send(cmd alert.Command) error
	// Close releases the port. Calling it more than once is safe.
	Close() error
}

// Connector opens channels to the buzzer controller.
type Connector interface {
	// Connect opens the port and waits until the controller is ready for commands.
	Connect(ctx context.Context) (Channel, error)
}

// Send writes cmd on ch, failing with ErrNoChannel when ch is nil.
func Send(ch Channel, cmd alert.Command) error {
	if ch == nil {
		return ErrNoChannel
	}

	return ch.Send(cmd)
}
