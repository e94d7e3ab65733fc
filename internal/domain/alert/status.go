package alert

import (
	"errors"
	"time"
)

const (
	// UnknownDevice is reported for cases without a device id.
	UnknownDevice = "Unknown"
	// UnknownTime is reported for cases without a timestamp.
	UnknownTime = "Unknown time"
)

// ErrNegativeCount is returned when the service reports a negative pending count.
var ErrNegativeCount = errors.New("pending cases count is negative")

// Case is a pending case as reported by the status endpoint.
type Case struct {
	// DeviceID identifies the sensor that raised the case.
	DeviceID string `json:"deviceId"`
	// Timestamp is the time of the case, kept as the service formats it.
	Timestamp string `json:"timestamp"`
}

// Device returns the device id or UnknownDevice.
func (c Case) Device() string {
	if c.DeviceID == "" {
		return UnknownDevice
	}

	return c.DeviceID
}

// Time returns the timestamp or UnknownTime.
func (c Case) Time() string {
	if c.Timestamp == "" {
		return UnknownTime
	}

	return c.Timestamp
}

// Status is the buzzer status returned by one successful poll.
type Status struct {
	// BuzzerActive tells whether the buzzer should sound.
	BuzzerActive bool `json:"buzzerActive"`
	// PendingCasesCount is the number of unprocessed cases.
	PendingCasesCount int `json:"pendingCasesCount"`
	// Cases lists the pending cases in the order the service returned them.
	Cases []Case `json:"cases"`
}

// Validate reports whether the status satisfies the domain invariants.
func (s *Status) Validate() error {
	if s.PendingCasesCount < 0 {
		return ErrNegativeCount
	}

	return nil
}

// Command returns the device command matching the status.
func (s *Status) Command() Command {
	return CommandFor(s.BuzzerActive)
}

// Transition describes a change of the buzzer state between two polls.
type Transition struct {
	// Active is the new buzzer state.
	Active bool `json:"active"`
	// PendingCasesCount is the count reported with the new state.
	PendingCasesCount int `json:"pendingCasesCount"`
	// Cases are the cases reported with the new state.
	Cases []Case `json:"cases"`
	// At is when the relay observed the change.
	At time.Time `json:"at"`
}

// NewTransition builds a Transition from the status that caused it.
func NewTransition(s *Status, at time.Time) Transition {
	cases := make([]Case, len(s.Cases))
	copy(cases, s.Cases)

	return Transition{
		Active:            s.BuzzerActive,
		PendingCasesCount: s.PendingCasesCount,
		Cases:             cases,
		At:                at,
	}
}

// ControllerState is what the relay loop remembers between ticks.
type ControllerState struct {
	// BuzzerWasActive is the buzzer state decided on the last successful poll.
	BuzzerWasActive bool
	// ConsecutiveFailures counts failed polls since the last success or warning.
	ConsecutiveFailures int
}
