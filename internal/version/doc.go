// Package version exposes build metadata of the version-stamper binary itself.
//
// Version, Commit and BuildTime are injected via Go ldflags and default to
// values suitable for local builds.
package version
