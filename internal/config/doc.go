// Package config defines the project settings read by version-stamper and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type lists the build types and product flavors of the project
// together with the default output settings.
package config
