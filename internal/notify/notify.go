// Package notify mirrors buzzer transitions to an MQTT broker.
//
// Publishing is best effort: the relay logs failures and carries on, the
// serial buzzer stays the primary alarm.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wildwarden/buzzer-relay/internal/domain/alert"
)

const (
	// EventAlert is published when the buzzer switches on.
	EventAlert = "ALERT"
	// EventAllClear is published when the buzzer switches off.
	EventAllClear = "ALL_CLEAR"
)

// Publisher sends transitions somewhere outside the process.
type Publisher interface {
	// Publish sends one transition.
	Publish(ctx context.Context, tr alert.Transition) error
	// Close disconnects from the broker.
	Close() error
}

// Payload is the JSON message published for a transition.
type Payload struct {
	Event             string       `json:"event"`
	Timestamp         string       `json:"timestamp"`
	PendingCasesCount int          `json:"pendingCasesCount"`
	Cases             []alert.Case `json:"cases"`
}

// FormatPayload creates the JSON payload for a transition.
func FormatPayload(tr alert.Transition) ([]byte, error) {
	event := EventAllClear
	if tr.Active {
		event = EventAlert
	}

	cases := tr.Cases
	if cases == nil {
		cases = []alert.Case{}
	}

	return json.Marshal(Payload{
		Event:             event,
		Timestamp:         tr.At.UTC().Format(time.RFC3339),
		PendingCasesCount: tr.PendingCasesCount,
		Cases:             cases,
	})
}

// Nop discards every transition. It is used when no broker is configured.
type Nop struct{}

// Publish does nothing.
func (Nop) Publish(context.Context, alert.Transition) error { return nil }

// Close does nothing.
func (Nop) Close() error { return nil }
