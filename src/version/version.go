package version

import "fmt"

// These variables are injected at build time via -ldflags, e.g.
//
//	go build -ldflags "-X github.com/sofmeright/repodescribe/src/version.Version=1.4.0 \
//	  -X github.com/sofmeright/repodescribe/src/version.Commit=$(git rev-parse --short HEAD)" ./src/cli
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String returns the version line printed by --version.
func String() string {
	return fmt.Sprintf("repodescribe %s (%s, %s)", Version, Commit, BuildDate)
}
