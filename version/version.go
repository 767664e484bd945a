// Package version exposes build metadata for chirp binaries and the version
// announced when a dispatcher is initialized.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Release is the library version announced when [Version] is not set.
const Release = "0.7"

var (
	// Version is the application version, set via ldflags.
	Version string
	// Branch is the git branch, set via ldflags.
	Branch string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the git commit revision.
	Revision = getRevision()
	// GoVersion is the Go version used to build.
	GoVersion = runtime.Version()
)

// String returns [Version], or [Release] when no version was set at build
// time.
func String() string {
	if Version == "" {
		return Release
	}

	return Version
}

// Info returns a one-line build description.
func Info() string {
	info := fmt.Sprintf("chirp %s (revision %s, %s, %s/%s)",
		String(), Revision, GoVersion, runtime.GOOS, runtime.GOARCH)
	if Branch != "" {
		info += ", branch " + Branch
	}

	if BuildDate != "" {
		info += ", built " + BuildDate
	}

	return info
}

func getRevision() string {
	rev := "unknown"

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
