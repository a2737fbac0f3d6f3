// Package version exposes build metadata stamped in via ldflags.
package version

// Populated by the linker; "dev" means a plain go build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
