// Package version carries build identification, overridden at link time
// via -ldflags.
package version

var (
	// Version is the current agent version.
	Version = "dev"
	// GitSHA is the git commit SHA of the build.
	GitSHA = "unknown"
)

// String formats the build identity for startup logs.
func String() string {
	return Version + " (" + GitSHA + ")"
}
