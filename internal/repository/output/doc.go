// Package output encodes stamping results for the build system that consumes them.
//
// Gradle reads the properties format, CI jobs source the env format, and the
// yaml, json and table formats serve tooling and humans. Files are replaced
// atomically so a concurrent reader never sees a half-written stamp.
package output
