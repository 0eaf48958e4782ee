// Package version holds the program version.
package version

// Version is overridden at build time with -ldflags "-X .../version.Version=...".
var Version = "0.1.0-dev"
