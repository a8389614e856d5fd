package version

import "fmt"

// Populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("s2-tui %s (commit %s, built %s)", Version, Commit, Date)
}
