package relay

import (
	"context"
	"errors"
	"time"

	"github.com/wildwarden/buzzer-relay/internal/device"
	"github.com/wildwarden/buzzer-relay/internal/domain/alert"
	"github.com/wildwarden/buzzer-relay/internal/logger"
	"github.com/wildwarden/buzzer-relay/internal/notify"
)

// StatusSource returns the current buzzer status.
type StatusSource interface {
	GetBuzzerStatus(ctx context.Context) (*alert.Status, error)
}

// Controller owns the device channel and the state carried between ticks.
// It is not safe for concurrent use; the relay loop is its only caller.
type Controller struct {
	// source is polled once per tick.
	source StatusSource
	// connector opens the device channel when none is open.
	connector device.Connector
	// publisher receives transitions.
	publisher notify.Publisher

	// channel is nil while disconnected.
	channel device.Channel
	// state is what the loop remembers between ticks.
	state alert.ControllerState

	// failureThreshold is the number of failed polls that produce a warning.
	failureThreshold int
	// now stamps transitions.
	now func() time.Time
}

// NewController creates a disconnected controller.
// A nil publisher discards transitions.
func NewController(
	source StatusSource,
	connector device.Connector,
	publisher notify.Publisher,
	failureThreshold int,
) *Controller {
	if publisher == nil {
		publisher = notify.Nop{}
	}

	return &Controller{
		source:           source,
		connector:        connector,
		publisher:        publisher,
		failureThreshold: failureThreshold,
		now:              time.Now,
	}
}

// Connected reports whether a device channel is open.
func (c *Controller) Connected() bool {
	return c.channel != nil
}

// State returns a copy of the loop state.
func (c *Controller) State() alert.ControllerState {
	return c.state
}

// Connect opens the device channel. Failures are logged and reported as false;
// the next tick tries again.
func (c *Controller) Connect(ctx context.Context) bool {
	ch, err := c.connector.Connect(ctx)
	if err != nil {
		logger.Errorf(ctx, "Error connecting to device: %v", err)
		logger.Info(ctx, "Please check if the device is connected and the port is correct.")

		return false
	}

	c.channel = ch

	return true
}

// Tick runs one poll-decide-act iteration.
func (c *Controller) Tick(ctx context.Context) {
	if c.channel == nil {
		c.Connect(ctx)
	}

	status, err := c.source.GetBuzzerStatus(ctx)
	if err != nil {
		c.pollFailed(ctx, err)

		return
	}

	changed := status.BuzzerActive != c.state.BuzzerWasActive
	if changed {
		c.logTransition(ctx, status)
	}

	// Sent on every successful poll, not only on transitions.
	c.send(ctx, status.Command())

	// The device is updated before the transition is mirrored.
	if changed {
		c.publish(ctx, status)
	}

	c.state.BuzzerWasActive = status.BuzzerActive
	c.state.ConsecutiveFailures = 0
}

// Shutdown switches the buzzer off and releases the channel.
// The OFF write is best effort.
func (c *Controller) Shutdown(ctx context.Context) {
	if c.channel == nil {
		return
	}

	if err := c.channel.Send(alert.CommandOff); err != nil {
		logger.Debugf(ctx, "Final OFF command failed: %v", err)
	}

	c.dropChannel(ctx)

	logger.Info(ctx, "Device connection closed.")
}

// pollFailed counts the failure and warns once the threshold is reached.
func (c *Controller) pollFailed(ctx context.Context, err error) {
	logger.Debugf(ctx, "Error connecting to API: %v", err)

	c.state.ConsecutiveFailures++
	if c.state.ConsecutiveFailures < c.failureThreshold {
		return
	}

	logger.Warn(ctx, "Multiple connection failures. Will continue trying...")

	c.state.ConsecutiveFailures = 0
}

// logTransition writes the alert or all clear lines for a state change.
func (c *Controller) logTransition(ctx context.Context, status *alert.Status) {
	if !status.BuzzerActive {
		logger.Info(ctx, "All clear. No pending cases.")

		return
	}

	logger.Infof(ctx, "ALERT: %d pending case(s) detected!", status.PendingCasesCount)

	for i, pending := range status.Cases {
		logger.Infof(ctx, "Case %d: Device %s at %s", i+1, pending.Device(), pending.Time())
	}
}

// publish mirrors the transition; failures never affect the buzzer.
func (c *Controller) publish(ctx context.Context, status *alert.Status) {
	if err := c.publisher.Publish(ctx, alert.NewTransition(status, c.now())); err != nil {
		logger.Warnf(ctx, "Failed to publish transition: %v", err)
	}
}

// send writes cmd to the device. A failed write drops the channel so the next
// tick reconnects.
func (c *Controller) send(ctx context.Context, cmd alert.Command) {
	err := device.Send(c.channel, cmd)
	switch {
	case err == nil:
		logger.Debugf(ctx, "Buzzer command %s sent", cmd)
	case errors.Is(err, device.ErrNoChannel):
		logger.Debugf(ctx, "No device connection, command %s not sent", cmd)
	default:
		logger.Errorf(ctx, "Error communicating with device: %v", err)
		c.dropChannel(ctx)
	}
}

// dropChannel closes and forgets the channel.
func (c *Controller) dropChannel(ctx context.Context) {
	if err := c.channel.Close(); err != nil {
		logger.Debugf(ctx, "Closing device channel: %v", err)
	}

	c.channel = nil
}
