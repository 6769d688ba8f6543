// Package version provides version and build information for the sfollow binary.
package version

import (
	_ "embed"
	"fmt"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var versionFile string

// Linker-injected variables. Set via:
//
//	go build -ldflags "-X github.com/slurmtools/sfollow/internal/version.gitCommit=VALUE"
var (
	gitCommit string
	buildDate string
)

// Info holds version and build information.
type Info struct {
	// Version is the semantic version (e.g., "0.2.0").
	Version string

	// GitCommit is the short git commit hash with optional "-dirty" suffix.
	GitCommit string

	// BuildDate is the ISO 8601 build timestamp.
	BuildDate string
}

// String formats Info for human-readable display.
func (i Info) String() string {
	return fmt.Sprintf("sfollow %s (commit %s, built %s)",
		i.Version, i.GitCommit, i.BuildDate)
}

// Get returns the populated Info struct.
func Get() Info {
	return Info{
		Version:   strings.TrimSpace(versionFile),
		GitCommit: resolveCommit(),
		BuildDate: resolveBuildDate(),
	}
}

// resolveCommit returns the git commit hash.
// Priority: linker flag > debug.ReadBuildInfo > "unknown".
func resolveCommit() string {
	if gitCommit != "" {
		return gitCommit
	}

	// Fallback to build info for 'go install' builds.
	if info, ok := debug.ReadBuildInfo(); ok {
		var revision string
		var dirty bool
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				revision = setting.Value
				if len(revision) > 7 {
					revision = revision[:7]
				}
			case "vcs.modified":
				dirty = setting.Value == "true"
			}
		}
		if revision != "" {
			if dirty {
				return revision + "-dirty"
			}
			return revision
		}
	}

	return "unknown"
}

func resolveBuildDate() string {
	if buildDate != "" {
		return buildDate
	}
	return "unknown"
}
