package notify

import (
	"context"

	"github.com/wildwarden/buzzer-relay/internal/domain/alert"
)

// FakePublisher records published transitions for test assertions.
type FakePublisher struct {
	// Transitions contains every transition passed to Publish.
	Transitions []alert.Transition
	// PublishError, if set, is returned by Publish after recording.
	PublishError error
	// Closed tracks if Close was called.
	Closed bool
}

// Publish records the transition.
func (f *FakePublisher) Publish(_ context.Context, tr alert.Transition) error {
	f.Transitions = append(f.Transitions, tr)

	return f.PublishError
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true

	return nil
}
