// Package common holds helpers shared by several services.
//
// It provides the HTTP client that reads the buzzer status from the remote
// service, with per-call timeouts, and a guard that keeps a second relay
// process from competing for the serial port.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
