// Package version carries build metadata injected with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/mvdocs/internal/version.Version=v0.3.0"
package version

import "fmt"

// Version is the release version of the binary.
var Version = "unknown"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("mvdocs %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
