package version

import "fmt"

var (
	// Version is the semantic version of the build.
	Version = "0.1.0-dev"
	// Commit is the short git SHA embedded at build time.
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns the version with commit and build time, as printed by `buzzer-relay version`.
func Full() string {
	return fmt.Sprintf("buzzer-relay %s (commit %s, built %s)", Version, Commit, BuildTime)
}
