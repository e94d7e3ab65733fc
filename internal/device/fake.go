package device

import (
	"context"

	"github.com/wildwarden/buzzer-relay/internal/domain/alert"
)

// FakeConnector is a test double that hands out FakeChannels and records
// every command written through them.
type FakeConnector struct {
	// ConnectErrors scripts the result of successive Connect calls.
	// A nil entry, or an exhausted list, means success.
	ConnectErrors []error
	// WriteErrors scripts the result of successive Send calls across all channels.
	// A nil entry, or an exhausted list, means success.
	WriteErrors []error

	// Attempts counts Connect calls.
	Attempts int
	// Sent lists the commands that were written successfully, in order.
	Sent []alert.Command
	// Failed lists the commands whose write failed, in order.
	Failed []alert.Command
	// Channels lists every channel handed out by Connect.
	Channels []*FakeChannel

	writes int
}

// Connect returns the next scripted error or a new FakeChannel.
//
//nolint:ireturn // Connector implementations hand out the Channel interface.
func (f *FakeConnector) Connect(context.Context) (Channel, error) {
	idx := f.Attempts
	f.Attempts++

	if idx < len(f.ConnectErrors) && f.ConnectErrors[idx] != nil {
		return nil, f.ConnectErrors[idx]
	}

	ch := &FakeChannel{connector: f}
	f.Channels = append(f.Channels, ch)

	return ch, nil
}

// FakeChannel is a channel returned by FakeConnector.
type FakeChannel struct {
	connector *FakeConnector

	// CloseCalls counts Close calls.
	CloseCalls int
}

// Send records the command or returns the next scripted write error.
func (c *FakeChannel) Send(cmd alert.Command) error {
	if c.CloseCalls > 0 {
		return ErrClosed
	}

	f := c.connector
	idx := f.writes
	f.writes++

	if idx < len(f.WriteErrors) && f.WriteErrors[idx] != nil {
		f.Failed = append(f.Failed, cmd)

		return f.WriteErrors[idx]
	}

	f.Sent = append(f.Sent, cmd)

	return nil
}

// Close marks the channel as closed.
func (c *FakeChannel) Close() error {
	c.CloseCalls++

	return nil
}
