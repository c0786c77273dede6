// Package stamp derives version identifiers for a build from a reference instant.
//
// It defines BuildVariant (which naming rule applies) and VersionStamp (the
// version code and version name handed to the packaging system). Stamp is a
// pure function: callers capture the instant once and pass it to every call
// made within one configuration pass.
package stamp
