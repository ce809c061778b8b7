// Package version exposes build-time version information, set via ldflags.
package version

import "fmt"

// Version and CommitHash are populated at build time via -ldflags, e.g.:
//
//	go build -ldflags "-X .../internal/version.Version=1.2.3 -X .../internal/version.CommitHash=$(git rev-parse HEAD)"
var (
	Version    = "dev"
	CommitHash = "unknown"
)

// GetVersionString returns a human-readable version string for display by
// the --version flag.
func GetVersionString() string {
	return fmt.Sprintf("%s (%s)", Version, CommitHash)
}
