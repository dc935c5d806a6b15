// Package version reports build information for the ledctl binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at release time:
//
//	go build -ldflags="-X github.com/muurk/ledctl/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/ledctl/internal/version.Commit=1a2b3c4"
//
// Unset values are filled from the module's VCS stamp, then fall back to
// "dev" and "unknown".
var (
	// Version is the release tag, e.g. "v0.3.0"
	Version = ""
	// Commit is the short git revision, suffixed "-dirty" for modified trees
	Commit = ""
	// BuiltAt is the VCS commit time in RFC 3339, empty when unknown
	BuiltAt = ""
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(info)
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo fills the unset variables from the build's VCS settings.
// A tagged module version wins over the "dev" placeholder.
func fromBuildInfo(info *debug.BuildInfo) {
	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	if Commit == "" {
		if rev := settings["vcs.revision"]; rev != "" {
			if len(rev) > 7 {
				rev = rev[:7]
			}
			if settings["vcs.modified"] == "true" {
				rev += "-dirty"
			}
			Commit = rev
		}
	}

	if BuiltAt == "" {
		BuiltAt = settings["vcs.time"]
	}

	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}

// Full returns the version with its commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// String formats a version line for app, e.g.
// "ledctl v0.3.0 (commit: 1a2b3c4, built 2026-01-02T10:00:00Z, go1.24.10 linux/amd64)"
func String(app string) string {
	parts := []string{"commit: " + Commit}
	if BuiltAt != "" {
		parts = append(parts, "built "+BuiltAt)
	}
	parts = append(parts, fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH))
	return fmt.Sprintf("%s %s (%s)", app, Version, strings.Join(parts, ", "))
}
