// Package version reports the build version.
package version

import "runtime/debug"

// Version is set with -ldflags at build time.
var Version = "devel"

// Installs through `go install ...@latest` carry no -ldflags, so fall back
// to the module version embedded in the build info.
func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
	}
}
