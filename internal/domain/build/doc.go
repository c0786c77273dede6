// Package build composes product flavors and build types into named build variants.
//
// Flavors describe distribution channels and never influence versioning;
// build types carry the stamp.BuildVariant that selects the naming rule.
package build
