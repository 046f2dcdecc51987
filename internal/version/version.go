// Package version carries the build identity stamped by the release
// pipeline. Everything defaults to "unknown" so a plain go build is
// recognizable as a development binary and skips update checks.
package version

// Stamped at link time, for example:
//
//	-X git.home.luguber.info/inful/deskwrap/internal/version.Version=v0.3.0
var (
	Version   = "unknown"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
