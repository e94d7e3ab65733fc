// Package alert contains core domain types for the buzzer relay.
//
// It defines Status (what the remote service reports), Case (one pending
// case), Command (the byte sent to the buzzer), Transition (an alert state
// change) and ControllerState (what the relay loop remembers between ticks).
package alert
