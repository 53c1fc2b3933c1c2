// Package version exposes build metadata of the deskclock binaries.
//
// Version, Commit and BuildTime are injected with -ldflags "-X" and keep
// their defaults in local builds.
package version
