// Package version holds build metadata stamped in at link time via
// -ldflags "-X github.com/magatfairy/crawlstats/internal/version.Version=...".
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns a single-line description for -version output.
func String() string {
	return fmt.Sprintf("crawlstats %s (commit %s, built %s)", Version, GitSHA, BuildTime)
}
