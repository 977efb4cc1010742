// Package version exposes the soundview build version.
package version

// Version is the build version, overridden at link time via
// -ldflags "-X github.com/acousticlab/soundview/pkg/version.Version=...".
//
//nolint:gochecknoglobals // set by the linker
var Version = "dev"

// GetVersion returns the build version string.
func GetVersion() string {
	return Version
}
