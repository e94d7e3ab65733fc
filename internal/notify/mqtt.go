package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/wildwarden/buzzer-relay/internal/config"
	"github.com/wildwarden/buzzer-relay/internal/domain/alert"
)

const (
	// publishTimeout bounds a single publish. It stays well below the poll interval.
	publishTimeout = time.Second
	// disconnectQuiesce is how long Close lets in-flight messages finish, in milliseconds.
	disconnectQuiesce = 250
)

var (
	errBrokerRequired = errors.New("mqtt broker must be provided")
	errPublishTimeout = errors.New("publish timeout")
	errNotConnected   = errors.New("mqtt broker not connected")
)

// MQTTPublisher publishes transitions to an MQTT broker.
type MQTTPublisher struct {
	client  paho.Client
	topic   string
	timeout time.Duration
}

// NewMQTTPublisher creates a publisher and starts connecting in the background.
// The broker may be down at startup; paho keeps retrying and the relay does
// not wait for it.
func NewMQTTPublisher(cfg config.MQTT) (*MQTTPublisher, error) {
	if cfg.Broker == "" {
		return nil, errBrokerRequired
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(config.DefaultPollInterval)

	client := paho.NewClient(opts)
	client.Connect()

	return &MQTTPublisher{
		client:  client,
		topic:   cfg.Topic,
		timeout: publishTimeout,
	}, nil
}

// Publish sends the transition with QoS 1, retained so late subscribers see the current state.
// It fails fast while the broker is unreachable; paho reports a connecting
// client as connected, so the open connection is checked instead.
func (p *MQTTPublisher) Publish(ctx context.Context, tr alert.Transition) error {
	payload, err := FormatPayload(tr)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	if !p.client.IsConnectionOpen() {
		return errNotConnected
	}

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	token := p.client.Publish(p.topic, 1, true, payload)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
	case <-time.After(timeout):
		return errPublishTimeout
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(disconnectQuiesce)

	return nil
}
