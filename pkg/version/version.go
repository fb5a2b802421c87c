// Package version exposes the build version of the listkit binary.
package version

// Version is set at build time via -ldflags.
var Version = "0.1.0-dev" //nolint:gochecknoglobals // Set by the linker.

// GetVersion returns the build version string.
func GetVersion() string {
	return Version
}
