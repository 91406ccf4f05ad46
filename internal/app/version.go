package app

import "fmt"

// Build metadata, overridden at release time via ldflags, e.g.
// go build -ldflags "-X github.com/ovenlight/prepstock-backend/internal/app.Version=1.2.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion renders the build metadata as one string for the startup
// log and the health endpoint.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
