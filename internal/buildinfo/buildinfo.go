// Package buildinfo holds build-time metadata injected via -ldflags.
package buildinfo

// Version is the semantic version or tag for this build.
// Inject via: -X github.com/N724/kcb/internal/buildinfo.Version=...
var Version = ""

// Commit is the git commit SHA for this build.
// Inject via: -X github.com/N724/kcb/internal/buildinfo.Commit=...
var Commit = ""

// BuildDate is the RFC3339 build timestamp.
// Inject via: -X github.com/N724/kcb/internal/buildinfo.BuildDate=...
var BuildDate = ""

// Short returns a compact version string for logs. Falls back to "dev"
// when no version was injected.
func Short() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Commit != "" {
		c := Commit
		if len(c) > 7 {
			c = c[:7]
		}
		return v + " (" + c + ")"
	}
	return v
}
