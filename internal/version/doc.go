// Package version exposes build metadata of the relay.
//
// Version, Commit and BuildTime are injected at build time via Go ldflags
// (-X github.com/wildwarden/buzzer-relay/internal/version.Version=...) and
// default to development values for local builds.
package version
