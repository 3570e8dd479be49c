// Package version reports what build of the satellite is running.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time via ldflags:
//
//	go build -ldflags="-X github.com/hybridsat/hybrid-satellite/internal/version.Version=v1.2.3 \
//	                   -X github.com/hybridsat/hybrid-satellite/internal/version.Commit=abc123"
//
// Unset values are filled in from the embedded VCS build info when present,
// then from a dev placeholder.
var (
	// Version is the semantic version of the application.
	Version = ""
	// Commit is the git commit hash the binary was built from.
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		fromBuildInfo()
	}
	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo fills Version and Commit from the VCS stamps the Go
// toolchain embeds when building inside a git checkout.
func fromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	var revision, modified, vcsTime string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	if Commit == "" && revision != "" {
		if len(revision) > 7 {
			Commit = revision[:7]
		} else {
			Commit = revision
		}
		if modified == "true" {
			Commit += "-dirty"
		}
	}

	// Build info carries no tags, so the best available without ldflags is a
	// dev version stamped with the commit date.
	if Version == "" && vcsTime != "" {
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			Version = fmt.Sprintf("dev-%s", t.Format("20060102"))
		}
	}
}

// Full returns the version and commit in one printable string.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
