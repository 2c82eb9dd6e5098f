package version

import (
	"fmt"
	"runtime/debug"
)

// Build-time parameters set via -ldflags
var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Full version string
func Full() string {
	return fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit)
}

// Builds from `go install` carry no -ldflags, so fall back to the module
// version recorded in the binary.
func init() {
	if Version != "unknown" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
	}
}
