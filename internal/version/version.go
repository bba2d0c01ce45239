// Package version provides build-time version information.
package version

// Injected via -ldflags at build time. Version stays "dev" for local builds.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// String returns the version with the commit hash appended when known.
func String() string {
	if GitCommit == "" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}
