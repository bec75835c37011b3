// Package version carries the build metadata of the repostat binary.
package version

import (
	"fmt"
	"runtime/debug"
)

const unknown = "<unknown>"

// Build metadata, overridden at link time with
// -ldflags "-X github.com/Sumatoshi-tech/repostat/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// Contributors are credited on the About page.
var Contributors = []string{"Sumatoshi-tech"}

// InitBinaryVersion fills metadata the linker did not set from the module
// build information embedded by the Go toolchain.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == unknown {
				Date = s.Value
			}
		}
	}
}

// String renders the metadata on one line.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
