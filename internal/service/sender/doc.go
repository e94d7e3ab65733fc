// Package sender writes a single command to the buzzer, for wiring and firmware checks.
package sender
