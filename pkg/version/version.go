// Package version exposes the build version.
package version

// Version is the application version, overridden at build time via
// -ldflags "-X globed/pkg/version.Version=...".
var Version = "dev"
